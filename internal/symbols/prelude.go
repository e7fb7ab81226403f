package symbols

// PreludeEntry describes a builtin function installed before traversal.
type PreludeEntry struct {
	Name     string
	Return   string
	Params   []Param
	Variadic bool
}

// runtimeLibrary returns the SysY runtime functions every program may call.
func runtimeLibrary() []PreludeEntry {
	intArr := Param{Name: "a", Type: "int", IsArray: true}
	floatArr := Param{Name: "a", Type: "float", IsArray: true}
	return []PreludeEntry{
		{Name: "getint", Return: "int"},
		{Name: "getch", Return: "int"},
		{Name: "getfloat", Return: "float"},
		{Name: "getarray", Return: "int", Params: []Param{intArr}},
		{Name: "getfarray", Return: "int", Params: []Param{floatArr}},
		{Name: "putint", Return: "void", Params: []Param{{Name: "a", Type: "int"}}},
		{Name: "putch", Return: "void", Params: []Param{{Name: "a", Type: "int"}}},
		{Name: "putfloat", Return: "void", Params: []Param{{Name: "a", Type: "float"}}},
		{Name: "putarray", Return: "void", Params: []Param{{Name: "n", Type: "int"}, intArr}},
		{Name: "putfarray", Return: "void", Params: []Param{{Name: "n", Type: "int"}, floatArr}},
		{Name: "putf", Return: "void", Params: []Param{{Name: "fmt", Type: "char", IsArray: true}}, Variadic: true},
		{Name: "starttime", Return: "void"},
		{Name: "stoptime", Return: "void"},
	}
}

// mergePrelude combines the runtime library with user provided names; extra
// names become variadic int functions.
func mergePrelude(extra []string) []PreludeEntry {
	defaults := runtimeLibrary()
	if len(extra) == 0 {
		return defaults
	}
	result := make([]PreludeEntry, 0, len(defaults)+len(extra))
	result = append(result, defaults...)
	for _, name := range extra {
		if name == "" {
			continue
		}
		result = append(result, PreludeEntry{Name: name, Return: "int", Variadic: true})
	}
	return result
}

// InstallPrelude records the runtime library (and extra names) as builtin
// functions in the global scope.
func (t *Table) InstallPrelude(extra []string) {
	for _, e := range mergePrelude(extra) {
		t.DeclareFunc(Function{
			Name:       e.Name,
			ReturnType: e.Return,
			Params:     e.Params,
			Builtin:    true,
			Variadic:   e.Variadic,
		})
	}
}
