package lexer

import (
	"sysyplus/internal/source"
	"sysyplus/internal/token"
)

// Lexer turns a file into tokens. Literal and comment boundaries come from
// a Tracker, so both always agree on what is structural.
type Lexer struct {
	file    *source.File
	cursor  Cursor
	opts    Options
	tracker *Tracker
	next    int            // первый регион трекера, который ещё не пройден
	look    *token.Token   // 1 элементный буфер для токена
	hold    []token.Trivia // накопленные leading trivia
}

// New creates a lexer. A nil tracker is replaced by a silent one.
func New(file *source.File, tracker *Tracker, opts Options) *Lexer {
	if tracker == nil {
		tracker = Track(file, nil)
	}
	if opts.Keywords == nil {
		opts.Keywords = token.DefaultKeywords()
	}
	return &Lexer{
		file:    file,
		cursor:  NewCursor(file),
		opts:    opts,
		tracker: tracker,
	}
}

// Next возвращает следующий **значимый** токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.takeHold(),
		}
	}

	var tok token.Token
	ch := lx.cursor.Peek()

	if r, ok := lx.regionHere(); ok {
		tok = lx.scanLiteral(r)
	} else {
		switch {
		case isIdentStartByte(ch):
			tok = lx.scanIdentOrKeyword()
		case isDec(ch):
			tok = lx.scanNumber()
		case ch == '.' && lx.isNumberAfterDot():
			tok = lx.scanNumber()
		case ch >= utf8RuneSelf:
			// трекер уже сообщил о символе
			tok = lx.scanIllegal()
		default:
			tok = lx.scanOperatorOrPunct()
		}
	}

	tok.Leading = lx.takeHold()
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer; the last element is EOF.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, len(lx.file.Content)/3+1)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

// Tokenize runs the tracker and the lexer over file and returns all tokens.
func Tokenize(file *source.File, tracker *Tracker, opts Options) []token.Token {
	return New(file, tracker, opts).All()
}

func (lx *Lexer) takeHold() []token.Trivia {
	if len(lx.hold) == 0 {
		return nil
	}
	out := make([]token.Trivia, len(lx.hold))
	copy(out, lx.hold)
	lx.hold = lx.hold[:0]
	return out
}

// regionHere returns the tracker region starting exactly at the cursor.
func (lx *Lexer) regionHere() (Region, bool) {
	regions := lx.tracker.Regions()
	for lx.next < len(regions) && regions[lx.next].Span.Start < lx.cursor.Off {
		lx.next++
	}
	if lx.next < len(regions) && regions[lx.next].Span.Start == lx.cursor.Off {
		return regions[lx.next], true
	}
	return Region{}, false
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}
