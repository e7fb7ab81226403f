package token

// Keywords maps reserved words to their kinds. A table is passed to the
// lexer explicitly, it is never mutated during analysis.
type Keywords map[string]Kind

var defaultKeywords = Keywords{
	"int":      KwInt,
	"float":    KwFloat,
	"char":     KwChar,
	"void":     KwVoid,
	"const":    KwConst,
	"struct":   KwStruct,
	"if":       KwIf,
	"else":     KwElse,
	"while":    KwWhile,
	"for":      KwFor,
	"break":    KwBreak,
	"continue": KwContinue,
	"return":   KwReturn,
	"true":     KwTrue,
	"false":    KwFalse,
	"null":     KwNull,
}

// DefaultKeywords returns a fresh copy of the SysY+ keyword table.
func DefaultKeywords() Keywords {
	out := make(Keywords, len(defaultKeywords))
	for k, v := range defaultKeywords {
		out[k] = v
	}
	return out
}

// Lookup возвращает тип и bool если это ключевое слово.
// Ключевые слова регистрозависимые.
func (k Keywords) Lookup(ident string) (Kind, bool) {
	kind, ok := k[ident]
	return kind, ok
}

// Words returns the keyword spellings (unordered).
func (k Keywords) Words() []string {
	out := make([]string, 0, len(k))
	for w := range k {
		out = append(out, w)
	}
	return out
}

// LookupKeyword checks the default table.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := defaultKeywords[ident]
	return k, ok
}
