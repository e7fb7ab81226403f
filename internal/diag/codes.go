package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexIllegalChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedChar         Code = 1003
	LexUnterminatedBlockComment Code = 1004
	LexBadNumber                Code = 1005

	// Баланс скобок и кавычек
	DelInfo           Code = 2000
	DelExtraBrace     Code = 2001
	DelExtraParen     Code = 2002
	DelExtraBracket   Code = 2003
	DelMissingBrace   Code = 2011
	DelMissingParen   Code = 2012
	DelMissingBracket Code = 2013
	DelMissingQuote   Code = 2014

	// Объявления
	DclInfo            Code = 3000
	DclKeywordName     Code = 3001
	DclInvalidIdent    Code = 3002
	DclDuplicateVar    Code = 3003
	DclDuplicateFunc   Code = 3004
	DclDuplicateStruct Code = 3005
	DclDuplicateMember Code = 3006
	DclConstNoInit     Code = 3007
	DclVoidVariable    Code = 3008
	DclVarFuncConflict Code = 3009
	DclStructNotGlobal Code = 3010
	DclBadArrayDim     Code = 3011

	// Ссылки
	RefInfo            Code = 4000
	RefUndefinedIdent  Code = 4001
	RefUsedBeforeDecl  Code = 4002
	RefAssignConst     Code = 4003
	RefNotArray        Code = 4004
	RefIndexOutOfRange Code = 4005
	RefUndefinedFunc   Code = 4006
	RefArrayUndefined  Code = 4007
	RefEmptyAssign     Code = 4008
	RefUndefinedStruct Code = 4009
	RefNoMember        Code = 4010

	// Стиль
	StyInfo             Code = 5000
	StyUnusedVar        Code = 5001
	StyUninitialized    Code = 5002
	StyInfiniteLoop     Code = 5003
	StyMissingSemicolon Code = 5004

	// I/O (только CLI и driver)
	IOInfo        Code = 6000
	IOLoadFailed  Code = 6001
	IOCacheFailed Code = 6002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:                 "Unknown error",
		LexInfo:                     "Lexical information",
		LexIllegalChar:              "Illegal character",
		LexUnterminatedString:       "Unterminated string literal",
		LexUnterminatedChar:         "Unterminated character literal",
		LexUnterminatedBlockComment: "Unterminated block comment",
		LexBadNumber:                "Malformed number literal",
		DelInfo:                     "Delimiter information",
		DelExtraBrace:               "Extra closing brace",
		DelExtraParen:               "Extra closing parenthesis",
		DelExtraBracket:             "Extra closing bracket",
		DelMissingBrace:             "Missing closing brace",
		DelMissingParen:             "Missing closing parenthesis",
		DelMissingBracket:           "Missing closing bracket",
		DelMissingQuote:             "Missing closing quote",
		DclInfo:                     "Declaration information",
		DclKeywordName:              "Keyword used as a name",
		DclInvalidIdent:             "Invalid identifier",
		DclDuplicateVar:             "Duplicate variable",
		DclDuplicateFunc:            "Duplicate function",
		DclDuplicateStruct:          "Duplicate struct",
		DclDuplicateMember:          "Duplicate struct member",
		DclConstNoInit:              "Constant without initializer",
		DclVoidVariable:             "Variable of type void",
		DclVarFuncConflict:          "Variable conflicts with a function",
		DclStructNotGlobal:          "Struct declared outside the global scope",
		DclBadArrayDim:              "Invalid array dimension",
		RefInfo:                     "Reference information",
		RefUndefinedIdent:           "Undefined identifier",
		RefUsedBeforeDecl:           "Used before declaration",
		RefAssignConst:              "Assignment to constant",
		RefNotArray:                 "Subscript of a non-array",
		RefIndexOutOfRange:          "Array index out of range",
		RefUndefinedFunc:            "Undefined function",
		RefArrayUndefined:           "Subscript of an undefined array",
		RefEmptyAssign:              "Assignment without a value",
		RefUndefinedStruct:          "Undefined struct type",
		RefNoMember:                 "No such struct member",
		StyInfo:                     "Style information",
		StyUnusedVar:                "Unused variable",
		StyUninitialized:            "Possibly uninitialized use",
		StyInfiniteLoop:             "Possible infinite loop",
		StyMissingSemicolon:         "Missing semicolon",
		IOInfo:                      "I/O information",
		IOLoadFailed:                "Failed to load file",
		IOCacheFailed:               "Cache failure",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DEL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("REF%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

// Category names the error-taxonomy class of the code.
func (c Code) Category() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return "LexicalError"
	case ic >= 2000 && ic < 3000:
		return "DelimiterImbalance"
	case ic >= 3000 && ic < 4000:
		return "DeclarationError"
	case ic >= 4000 && ic < 5000:
		return "ReferenceError"
	case ic >= 5000 && ic < 6000:
		return "StyleWarning"
	case ic >= 6000 && ic < 7000:
		return "IOError"
	}
	return "Unknown"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
