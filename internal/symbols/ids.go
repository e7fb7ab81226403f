package symbols

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

// VarID, FuncID and StructID index the declaration arenas.
type (
	VarID    uint32
	FuncID   uint32
	StructID uint32
)

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID  ScopeID  = 0
	NoVarID    VarID    = 0
	NoFuncID   FuncID   = 0
	NoStructID StructID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool  { return id != NoScopeID }
func (id VarID) IsValid() bool    { return id != NoVarID }
func (id FuncID) IsValid() bool   { return id != NoFuncID }
func (id StructID) IsValid() bool { return id != NoStructID }
