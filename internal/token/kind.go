package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token (illegal byte, unterminated literal).
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier token.
	Ident

	// KwInt represents the 'int' keyword.
	KwInt // int
	// KwFloat represents the 'float' keyword.
	KwFloat // float
	// KwChar represents the 'char' keyword.
	KwChar // char
	// KwVoid represents the 'void' keyword.
	KwVoid // void
	// KwConst represents the 'const' keyword.
	KwConst // const
	// KwStruct represents the 'struct' keyword.
	KwStruct // struct
	// KwIf represents the 'if' keyword.
	KwIf // if
	// KwElse represents the 'else' keyword.
	KwElse // else
	// KwWhile represents the 'while' keyword.
	KwWhile // while
	// KwFor represents the 'for' keyword.
	KwFor // for
	// KwBreak represents the 'break' keyword.
	KwBreak // break
	// KwContinue represents the 'continue' keyword.
	KwContinue // continue
	// KwReturn represents the 'return' keyword.
	KwReturn // return
	// KwTrue represents the 'true' keyword.
	KwTrue // true
	// KwFalse represents the 'false' keyword.
	KwFalse // false
	// KwNull represents the 'null' keyword.
	KwNull // null

	// IntLit represents the integer literal token (decimal, octal, hex).
	IntLit
	// FloatLit represents the float literal token.
	FloatLit
	// CharLit represents the character literal token.
	CharLit
	// StringLit represents the string literal token.
	StringLit

	Plus          // +
	Minus         // -
	Star          // *
	Slash         // /
	Percent       // %
	Assign        // =
	PlusAssign    // +=
	MinusAssign   // -=
	StarAssign    // *=
	SlashAssign   // /=
	PercentAssign // %=
	PlusPlus      // ++
	MinusMinus    // --
	EqEq          // ==
	Bang          // !
	BangEq        // !=
	Lt            // <
	LtEq          // <=
	Gt            // >
	GtEq          // >=
	Shl           // <<
	Shr           // >>
	Amp           // &
	Pipe          // |
	Caret         // ^
	Tilde         // ~
	AndAnd        // &&
	OrOr          // ||
	Question      // ?
	Colon         // :
	Semicolon     // ;
	Comma         // ,
	Dot           // .
	Arrow         // ->
	Hash          // #
	LParen        // (
	RParen        // )
	LBrace        // {
	RBrace        // }
	LBracket      // [
	RBracket      // ]
)

var kindNames = [...]string{
	Invalid:       "Invalid",
	EOF:           "EOF",
	Ident:         "Ident",
	KwInt:         "KwInt",
	KwFloat:       "KwFloat",
	KwChar:        "KwChar",
	KwVoid:        "KwVoid",
	KwConst:       "KwConst",
	KwStruct:      "KwStruct",
	KwIf:          "KwIf",
	KwElse:        "KwElse",
	KwWhile:       "KwWhile",
	KwFor:         "KwFor",
	KwBreak:       "KwBreak",
	KwContinue:    "KwContinue",
	KwReturn:      "KwReturn",
	KwTrue:        "KwTrue",
	KwFalse:       "KwFalse",
	KwNull:        "KwNull",
	IntLit:        "IntLit",
	FloatLit:      "FloatLit",
	CharLit:       "CharLit",
	StringLit:     "StringLit",
	Plus:          "Plus",
	Minus:         "Minus",
	Star:          "Star",
	Slash:         "Slash",
	Percent:       "Percent",
	Assign:        "Assign",
	PlusAssign:    "PlusAssign",
	MinusAssign:   "MinusAssign",
	StarAssign:    "StarAssign",
	SlashAssign:   "SlashAssign",
	PercentAssign: "PercentAssign",
	PlusPlus:      "PlusPlus",
	MinusMinus:    "MinusMinus",
	EqEq:          "EqEq",
	Bang:          "Bang",
	BangEq:        "BangEq",
	Lt:            "Lt",
	LtEq:          "LtEq",
	Gt:            "Gt",
	GtEq:          "GtEq",
	Shl:           "Shl",
	Shr:           "Shr",
	Amp:           "Amp",
	Pipe:          "Pipe",
	Caret:         "Caret",
	Tilde:         "Tilde",
	AndAnd:        "AndAnd",
	OrOr:          "OrOr",
	Question:      "Question",
	Colon:         "Colon",
	Semicolon:     "Semicolon",
	Comma:         "Comma",
	Dot:           "Dot",
	Arrow:         "Arrow",
	Hash:          "Hash",
	LParen:        "LParen",
	RParen:        "RParen",
	LBrace:        "LBrace",
	RBrace:        "RBrace",
	LBracket:      "LBracket",
	RBracket:      "RBracket",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind?"
}

// IsKeyword reports whether k is one of the reserved words.
func (k Kind) IsKeyword() bool {
	return k >= KwInt && k <= KwNull
}
