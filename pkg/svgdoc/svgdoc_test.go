package svgdoc

import (
	"testing"

	"github.com/matzehuels/sketchreveal/pkg/errors"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bare",
			in:   `<svg viewBox="0 0 10 10"><path d="M0 0L1 1"/></svg>`,
			want: `<svg viewBox="0 0 10 10"><path d="M0 0L1 1"/></svg>`,
		},
		{
			name: "surrounding prose",
			in:   "Here you go:\n```svg\n<svg><path d=\"M0 0\"/></svg>\n```\nEnjoy!",
			want: `<svg><path d="M0 0"/></svg>`,
		},
		{
			name: "case insensitive and first match wins",
			in:   `<SVG><path d="M1 1"/></SVG> and <svg><path d="M2 2"/></svg>`,
			want: `<SVG><path d="M1 1"/></SVG>`,
		},
		{
			name: "spans lines",
			in:   "<svg\n  width=\"10\">\n<path d=\"M0 0\"/>\n</svg>",
			want: "<svg\n  width=\"10\">\n<path d=\"M0 0\"/>\n</svg>",
		},
		{
			name: "no match returned unchanged",
			in:   "I cannot draw that.",
			want: "I cannot draw that.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Extract(tt.in); got != tt.want {
				t.Errorf("Extract() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse(t *testing.T) {
	src := `<?xml version="1.0"?>
<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 24 24" width="48">
  <path d="M0 0 L10 10"/>
  <g stroke="red">
    <rect x="0" y="0" width="4" height="4"/>
    <path d="M5 5 h3"/>
  </g>
  <circle cx="1" cy="1" r="1"/>
  <path d="M1 1 v4"/>
</svg>`
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.ViewBox != "0 0 24 24" {
		t.Errorf("ViewBox = %q", doc.ViewBox)
	}
	if doc.Width != "48" || doc.Height != "" {
		t.Errorf("Width/Height = %q/%q", doc.Width, doc.Height)
	}
	want := []string{"M0 0 L10 10", "M5 5 h3", "M1 1 v4"}
	if len(doc.Paths) != len(want) {
		t.Fatalf("len(Paths) = %d, want %d", len(doc.Paths), len(want))
	}
	for i, p := range doc.Paths {
		if p.Index != i || p.D != want[i] {
			t.Errorf("Paths[%d] = %+v, want {%d %q}", i, p, i, want[i])
		}
	}
}

func TestParseDefaultViewBox(t *testing.T) {
	doc, err := Parse(`<svg><path d="M0 0 L1 1"/></svg>`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if doc.ViewBox != DefaultViewBox {
		t.Errorf("ViewBox = %q, want %q", doc.ViewBox, DefaultViewBox)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
		msg  string
	}{
		{"empty", "", errors.ErrCodeEmptyInput, "Generate SVG first!"},
		{"blank", "  \n\t", errors.ErrCodeEmptyInput, "Generate SVG first!"},
		{"malformed", `<svg><path d="M0 0"></svg>`, errors.ErrCodeInvalidInput, "Invalid SVG"},
		{"unclosed", `<svg><path d="M0 0"/>`, errors.ErrCodeInvalidInput, "Invalid SVG"},
		{"plain text", "not svg at all", errors.ErrCodeInvalidInput, "Invalid SVG"},
		{"two roots", `<svg><path d="M0 0"/></svg><svg/>`, errors.ErrCodeInvalidInput, "Invalid SVG"},
		{"wrong root", `<html><path d="M0 0"/></html>`, errors.ErrCodeInvalidInput, "Must be <svg>"},
		{"no paths", `<svg><rect width="1" height="1"/></svg>`, errors.ErrCodeInvalidInput, "No paths found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.in)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %s, want %s", errors.GetCode(err), tt.code)
			}
			if !errors.IsInputValidation(err) {
				t.Error("error should be an input validation error")
			}
			if got := errors.UserMessage(err); got != tt.msg {
				t.Errorf("UserMessage() = %q, want %q", got, tt.msg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{"valid", `<svg viewBox="0 0 1 1"><path d="M0 0"/></svg>`, false},
		{"valid without paths", `<svg/>`, false},
		{"html entity", `<svg><title>a&nbsp;b</title></svg>`, false},
		{"broken", `<svg><path></svg>`, true},
		{"prose", "Sorry, I can only draw cats.", true},
		{"not svg", `<div/>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
