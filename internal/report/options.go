package report

import (
	"io"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"

	"github.com/packagelint/packagelint/internal/lint"
)

// fileOptions are shared by reporters that write a document.
type fileOptions struct {
	// OutputFile is written on completion; empty means Stdout.
	OutputFile string `mapstructure:"outputFile"`
}

func decodeOptions(opts lint.Options, target any) error {
	if len(opts) == 0 {
		return nil
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(map[string]any(opts)); err != nil {
		return &lint.ConfigError{Message: "invalid reporter options", Err: err}
	}
	return nil
}

// Stdout is where document reporters write when no file is configured.
var Stdout io.Writer = os.Stdout

// writeDocument writes via write to path, or to Stdout when path is empty.
func writeDocument(path string, write func(io.Writer) error) error {
	if path == "" {
		return write(Stdout)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
