package outputters

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/dotcommander/magis/internal/config"
	"github.com/dotcommander/magis/internal/output"
)

// =============================================================================
// Test NewOutputter
// =============================================================================

func TestNewOutputter(t *testing.T) {
	cfg := &config.Config{Format: "console"}

	outputter := NewOutputter(cfg)

	if outputter == nil {
		t.Fatal("NewOutputter() returned nil")
	}
	if outputter.config != cfg {
		t.Errorf("NewOutputter() config = %v, want %v", outputter.config, cfg)
	}
	if outputter.w != os.Stdout {
		t.Errorf("NewOutputter() writer = %v, want os.Stdout", outputter.w)
	}
}

// =============================================================================
// Test Formatter
// =============================================================================

func TestFormatter(t *testing.T) {
	tests := []struct {
		name       string
		configured string
		requested  string
		wantType   string
		wantErr    bool
	}{
		{"configured console", "console", "", "*output.ConsoleFormatter", false},
		{"configured json", "json", "", "*output.JSONFormatter", false},
		{"configured markdown", "markdown", "", "*output.MarkdownFormatter", false},
		{"explicit overrides configured", "console", "json", "*output.JSONFormatter", false},
		{"unsupported", "xml", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := NewOutputterTo(&config.Config{Format: tt.configured}, &bytes.Buffer{})
			f, err := o.Formatter(tt.requested)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Formatter() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Formatter() unexpected error: %v", err)
			}
			if got := typeName(f); got != tt.wantType {
				t.Errorf("Formatter() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func typeName(f output.Formatter) string {
	switch f.(type) {
	case *output.ConsoleFormatter:
		return "*output.ConsoleFormatter"
	case *output.JSONFormatter:
		return "*output.JSONFormatter"
	case *output.MarkdownFormatter:
		return "*output.MarkdownFormatter"
	}
	return "unknown"
}

// =============================================================================
// Test Render
// =============================================================================

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	o := NewOutputterTo(&config.Config{Format: "json"}, &buf)

	err := o.Render(func(f output.Formatter) error {
		return f.Count(output.CountReport{Name: "Envy", Total: 3})
	})
	if err != nil {
		t.Fatalf("Render() unexpected error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"kind": "count"`)) {
		t.Errorf("Render() output = %s, want a count report", buf.String())
	}

	wantErr := errors.New("boom")
	if err := o.Render(func(output.Formatter) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("Render() error = %v, want %v", err, wantErr)
	}

	bad := NewOutputterTo(&config.Config{Format: "xml"}, &buf)
	called := false
	if err := bad.Render(func(output.Formatter) error { called = true; return nil }); err == nil {
		t.Error("Render() with unsupported format returned nil error")
	}
	if called {
		t.Error("Render() called fn despite unsupported format")
	}
}
