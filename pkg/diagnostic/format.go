package diagnostic

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"gitlab.com/tozd/go/errors"
)

// Formatter formats diagnostics into different output formats
type Formatter interface {
	Format(name string, diagnostics *Diagnostics) ([]byte, error)
}

// VSCodeFormatter emits the JSON diagnostic shape editors understand:
// zero-based lines and characters, severity 1 error, 2 warning, 4 hint.
type VSCodeFormatter struct{}

func NewVSCodeFormatter() *VSCodeFormatter {
	return &VSCodeFormatter{}
}

type vscodePlace struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type vscodeRange struct {
	Start vscodePlace `json:"start"`
	End   vscodePlace `json:"end"`
}

type vscodeDiagnostic struct {
	Source   string      `json:"source,omitempty"`
	Severity int         `json:"severity"`
	Message  string      `json:"message"`
	Range    vscodeRange `json:"range"`
}

func (f *VSCodeFormatter) Format(name string, diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	result := make([]vscodeDiagnostic, 0)
	for _, d := range diagnostics.All() {
		result = append(result, vscodeDiagnostic{
			Source:   name,
			Severity: vscodeSeverity(d.Severity),
			Message:  d.Message,
			Range: vscodeRange{
				Start: vscodePlace{Line: d.Range.Start.Line, Character: d.Range.Start.Character - 1},
				End:   vscodePlace{Line: d.Range.End.Line, Character: d.Range.End.Character},
			},
		})
	}

	out, err := json.Marshal(result)
	if err != nil {
		return nil, errors.Errorf("marshaling diagnostics: %w", err)
	}
	return out, nil
}

func vscodeSeverity(s DiagnosticSeverity) int {
	switch s {
	case Error:
		return 1
	case Warning:
		return 2
	default:
		return 4
	}
}

// TextFormatter prints one `name:line:col: severity: message` line per finding.
type TextFormatter struct {
	Color bool
}

func NewTextFormatter(colorize bool) *TextFormatter {
	return &TextFormatter{Color: colorize}
}

func (f *TextFormatter) Format(name string, diagnostics *Diagnostics) ([]byte, error) {
	if diagnostics == nil {
		return nil, errors.Errorf("diagnostics is nil")
	}

	var sb strings.Builder
	for _, d := range diagnostics.All() {
		sev := string(d.Severity)
		if f.Color {
			sev = severityColor(d.Severity).Sprint(sev)
		}
		fmt.Fprintf(&sb, "%s:%d:%d: %s: %s\n", name, d.Range.Start.Line+1, d.Range.Start.Character, sev, d.Message)
	}
	return []byte(sb.String()), nil
}

func severityColor(s DiagnosticSeverity) *color.Color {
	switch s {
	case Error:
		return color.New(color.FgRed, color.Bold)
	case Warning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.Faint)
	}
}
