package lexer

import (
	"sysyplus/internal/token"
)

type Options struct {
	// Keywords is the reserved-word table; nil means token.DefaultKeywords.
	Keywords token.Keywords
}
