package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sysyplus/internal/source"
)

func file(text string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("f.sy", []byte(text)))
}

func TestFormatFileReindents(t *testing.T) {
	in := "int main() {\n" +
		"int a = 1;   \n" +
		"  if (a) {\n" +
		"a = 2;\n" +
		"      } else {\n" +
		"\t\ta = 3;\n" +
		"}\n" +
		"\n\n\n" +
		"return a;\n" +
		"}\n\n"
	want := "int main() {\n" +
		"    int a = 1;\n" +
		"    if (a) {\n" +
		"        a = 2;\n" +
		"    } else {\n" +
		"        a = 3;\n" +
		"    }\n" +
		"\n" +
		"    return a;\n" +
		"}\n"

	out, err := FormatFile(file(in), Options{MaxBlankLines: 1})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))

	out, err = FormatFile(file("\nint a;\n\n\n\nint b;\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "int a;\n\n\n\nint b;\n", string(out))
}

func TestFormatFileIgnoresBracesInLiterals(t *testing.T) {
	in := "void f() {\n" +
		"putf(\"{ %d\", 1); // {\n" +
		"char c = '}';\n" +
		"/* { {\n" +
		"   keep */ int x;\n" +
		"}\n"
	want := "void f() {\n" +
		"    putf(\"{ %d\", 1); // {\n" +
		"    char c = '}';\n" +
		"    /* { {\n" +
		"   keep */ int x;\n" +
		"}\n"

	out, err := FormatFile(file(in), Options{})
	require.NoError(t, err)
	assert.Equal(t, want, string(out))
}

func TestFormatFileTabsAndIdempotence(t *testing.T) {
	in := "int g;\nint main(){\nif(g){\nreturn 1;}\nreturn 0;}\n"
	out, err := FormatFile(file(in), Options{UseTabs: true})
	require.NoError(t, err)
	assert.Equal(t, "int g;\nint main(){\n\tif(g){\n\t\treturn 1;}\n\treturn 0;}\n", string(out))

	again, err := FormatFile(file(string(out)), Options{UseTabs: true})
	require.NoError(t, err)
	assert.Equal(t, string(out), string(again))
}

func TestFormatFileUnbalanced(t *testing.T) {
	out, err := FormatFile(file("}\n}\nint a;\n"), Options{})
	require.NoError(t, err)
	assert.Equal(t, "}\n}\nint a;\n", string(out))

	out, err = FormatFile(file(""), Options{})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFormatFileKeepsStringBlanks(t *testing.T) {
	out, err := FormatFile(file("int main() {\nputf(\"a   \n}\n"), Options{IndentWidth: 2})
	require.NoError(t, err)
	assert.Equal(t, "int main() {\n  putf(\"a   \n}\n", string(out))
}

func TestCheckRoundTrip(t *testing.T) {
	ok, msg := CheckRoundTrip(file("int main(){\n  int a[2] = {1, 2};\nreturn a[0];\n}\n"), Options{})
	assert.True(t, ok, msg)
}

func TestFormatFileNil(t *testing.T) {
	_, err := FormatFile(nil, Options{})
	assert.Error(t, err)
}
