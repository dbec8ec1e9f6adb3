package outputters

import (
	"fmt"
	"io"
	"os"

	"github.com/dotcommander/magis/internal/config"
	"github.com/dotcommander/magis/internal/output"
)

// Outputter handles output formatting
type Outputter struct {
	config *config.Config
	w      io.Writer
}

// NewOutputter creates a new Outputter writing to stdout
func NewOutputter(config *config.Config) *Outputter {
	return NewOutputterTo(config, os.Stdout)
}

// NewOutputterTo creates a new Outputter writing to w
func NewOutputterTo(config *config.Config, w io.Writer) *Outputter {
	return &Outputter{
		config: config,
		w:      w,
	}
}

// Formatter returns the formatter for the given format, or the configured
// one when format is empty.
func (o *Outputter) Formatter(format string) (output.Formatter, error) {
	if format == "" {
		format = o.config.Format
	}

	switch format {
	case "console":
		return output.NewConsoleFormatter(o.w, o.config.Quiet, o.config.Verbose), nil
	case "json":
		return output.NewJSONFormatter(o.w, o.config.Quiet, true, o.config.Output), nil
	case "markdown":
		return output.NewMarkdownFormatter(o.w, o.config.Quiet, o.config.Verbose, o.config.Output), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Render looks up the configured formatter and applies fn to it.
func (o *Outputter) Render(fn func(output.Formatter) error) error {
	f, err := o.Formatter("")
	if err != nil {
		return err
	}
	return fn(f)
}
