package token

import (
	"testing"
)

func TestLookupKeyword_Positive(t *testing.T) {
	cases := map[string]Kind{
		"int":      KwInt,
		"float":    KwFloat,
		"void":     KwVoid,
		"const":    KwConst,
		"struct":   KwStruct,
		"while":    KwWhile,
		"continue": KwContinue,
		"return":   KwReturn,
		"true":     KwTrue,
		"null":     KwNull,
	}

	for lexeme, want := range cases {
		got, ok := LookupKeyword(lexeme)
		if !ok {
			t.Fatalf("LookupKeyword(%q) = !ok, want %v", lexeme, want)
		}
		if got != want {
			t.Fatalf("LookupKeyword(%q) = %v, want %v", lexeme, got, want)
		}
	}
}

func TestLookupKeyword_Negative(t *testing.T) {
	// регистр важен
	notKw := []string{
		"Int", "WHILE", "Return",
		"main", "getint", "printf", "do", "switch",
	}
	for _, s := range notKw {
		if _, ok := LookupKeyword(s); ok {
			t.Fatalf("LookupKeyword(%q) returned ok=true, want false", s)
		}
	}
}

func TestDefaultKeywordsIsCopy(t *testing.T) {
	kw := DefaultKeywords()
	if len(kw) != 16 {
		t.Fatalf("expected 16 keywords, got %d", len(kw))
	}
	delete(kw, "int")
	if _, ok := LookupKeyword("int"); !ok {
		t.Fatalf("mutating a copy must not affect the default table")
	}
	kw["until"] = KwWhile
	if _, ok := DefaultKeywords().Lookup("until"); ok {
		t.Fatalf("default table picked up an extra word")
	}
}
