package driver

import (
	"path/filepath"
	"testing"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "c"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	bag := diag.NewBag(0)
	sp := source.Span{File: 3, Start: 4, End: 9}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.RefUndefinedIdent,
		Message:  "undefined identifier 'y'",
		Primary:  sp,
		Notes:    []diag.Note{{Span: sp, Msg: "n"}},
		Fixes: []diag.Fix{{Title: "declare 'y' as int", Edits: []diag.FixEdit{
			{Span: source.Span{File: 3, Start: 0, End: 0}, NewText: "int y;\n"},
		}}},
	})
	key := contentDigest([]byte("src"), "fp")

	var miss DiskPayload
	if ok, err := cache.Get(key, &miss); ok || err != nil {
		t.Fatalf("expected a clean miss, got %v %v", ok, err)
	}
	if err := cache.Put(key, bagToPayload("a.sy", key, bag)); err != nil {
		t.Fatalf("put: %v", err)
	}
	var got DiskPayload
	ok, err := cache.Get(key, &got)
	if !ok || err != nil {
		t.Fatalf("expected a hit, got %v %v", ok, err)
	}
	restored := got.Restore(7, 0)
	if restored.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", restored.Len())
	}
	d := restored.Items()[0]
	if d.Primary != (source.Span{File: 7, Start: 4, End: 9}) {
		t.Fatalf("span not rebased: %+v", d.Primary)
	}
	if len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "int y;\n" || d.Fixes[0].Edits[0].Span.File != 7 {
		t.Fatalf("fix lost: %+v", d.Fixes)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "n" {
		t.Fatalf("note lost: %+v", d.Notes)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ok, _ := cache.Get(key, &got); ok {
		t.Fatalf("entry survived DropAll")
	}
}

func TestContentDigest(t *testing.T) {
	a := contentDigest([]byte("int x;"), "fp")
	if a.IsZero() || a != contentDigest([]byte("int x;"), "fp") {
		t.Fatalf("digest must be stable and non-zero")
	}
	if a == contentDigest([]byte("int x;"), "fp2") || a == contentDigest([]byte("int y;"), "fp") {
		t.Fatalf("digest must depend on content and fingerprint")
	}
}
