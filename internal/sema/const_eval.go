package sema

import (
	"strconv"

	"sysyplus/internal/ast"
	"sysyplus/internal/token"
)

// evalConst folds an integer expression made of literals, integer
// constants, parentheses and + - * / %. Anything else is not constant.
func (c *checker) evalConst(e ast.Expr) (int64, bool) {
	ev := constEval{c: c, toks: c.file.ExprTokens(e)}
	if len(ev.toks) == 0 {
		return 0, false
	}
	v, ok := ev.additive()
	if !ok || ev.pos != len(ev.toks) {
		return 0, false
	}
	return v, true
}

type constEval struct {
	c    *checker
	toks []token.Token
	pos  int
}

func (ev *constEval) peek() token.Kind {
	if ev.pos >= len(ev.toks) {
		return token.EOF
	}
	return ev.toks[ev.pos].Kind
}

func (ev *constEval) additive() (int64, bool) {
	left, ok := ev.multiplicative()
	for ok {
		switch ev.peek() {
		case token.Plus:
			ev.pos++
			var right int64
			right, ok = ev.multiplicative()
			left += right
		case token.Minus:
			ev.pos++
			var right int64
			right, ok = ev.multiplicative()
			left -= right
		default:
			return left, true
		}
	}
	return 0, false
}

func (ev *constEval) multiplicative() (int64, bool) {
	left, ok := ev.unary()
	for ok {
		op := ev.peek()
		if op != token.Star && op != token.Slash && op != token.Percent {
			return left, true
		}
		ev.pos++
		var right int64
		right, ok = ev.unary()
		if !ok {
			break
		}
		switch op {
		case token.Star:
			left *= right
		case token.Slash, token.Percent:
			if right == 0 {
				return 0, false
			}
			if op == token.Slash {
				left /= right
			} else {
				left %= right
			}
		}
	}
	return 0, false
}

func (ev *constEval) unary() (int64, bool) {
	switch ev.peek() {
	case token.Minus:
		ev.pos++
		v, ok := ev.unary()
		return -v, ok
	case token.Plus:
		ev.pos++
		return ev.unary()
	case token.LParen:
		ev.pos++
		v, ok := ev.additive()
		if !ok || ev.peek() != token.RParen {
			return 0, false
		}
		ev.pos++
		return v, true
	case token.IntLit:
		tok := ev.toks[ev.pos]
		ev.pos++
		return parseIntLit(tok.Text)
	case token.Ident:
		tok := ev.toks[ev.pos]
		ev.pos++
		id, ok := ev.c.table.LookupVar(ev.c.scopes.Current(), tok.Text)
		if !ok {
			return 0, false
		}
		v := ev.c.table.Var(id)
		if !v.IsConst || !v.HasValue {
			return 0, false
		}
		return v.Value, true
	default:
		return 0, false
	}
}

// parseIntLit понимает десятичные, восьмеричные (010) и шестнадцатеричные литералы.
func parseIntLit(text string) (int64, bool) {
	v, err := strconv.ParseInt(text, 0, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
