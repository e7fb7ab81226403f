package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"

	"sysyplus/internal/diag"
	"sysyplus/internal/source"
)

// YAML renders the same document as JSON in YAML.
func YAML(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	return writeYAML(w, BuildDiagnosticsOutput(bag, fs, opts))
}

// YAMLFiles выводит path -> диагностики; ключи yaml.v3 сортирует сам.
func YAMLFiles(w io.Writer, files map[string]DiagnosticsOutput) error {
	return writeYAML(w, files)
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
