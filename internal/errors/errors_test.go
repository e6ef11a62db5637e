package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "state error",
			code:    "E001",
			wantMsg: "Container already holds a live render",
			wantCat: CategoryState,
		},
		{
			name:    "structural error",
			code:    "E010",
			wantMsg: "Unbalanced part marker",
			wantCat: CategoryStructural,
		},
		{
			name:    "shape error",
			code:    "E020",
			wantMsg: "Template digest mismatch",
			wantCat: CategoryShape,
		},
		{
			name:    "internal error",
			code:    "E030",
			wantMsg: "Node marker outside template instance",
			wantCat: CategoryInternal,
		},
		{
			name:    "unknown error code",
			code:    "E999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "page.html")
	if err.Message != `file "page.html" not found` {
		t.Errorf("Message = %q, want %q", err.Message, `file "page.html" not found`)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	err := New("E010")
	if got, want := err.Error(), "E010: Unbalanced part marker"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = New("E020").WithDetail(`marker "vg-part AAA="`)
	if got, want := err.Error(), `E020: Template digest mismatch: marker "vg-part AAA="`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func TestError_Is(t *testing.T) {
	sentinel := New("E021")
	err := fmt.Errorf("hydrate: %w", New("E021").WithDetail("3 items"))

	if !stderrors.Is(err, sentinel) {
		t.Error("errors.Is should match by code through wrapping")
	}
	if stderrors.Is(err, New("E022")) {
		t.Error("errors.Is should not match a different code")
	}
	if stderrors.Is(New("E021"), &Error{Message: "no code"}) {
		t.Error("errors.Is should not match a code-less target")
	}
}

func TestError_WithLocation(t *testing.T) {
	err := New("E010").WithLocation(4, "div/ul")
	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Marker != 4 {
		t.Errorf("Location.Marker = %d, want 4", err.Location.Marker)
	}
	if err.Location.Path != "div/ul" {
		t.Errorf("Location.Path = %q, want %q", err.Location.Path, "div/ul")
	}
}

func TestError_Wrap(t *testing.T) {
	inner := stderrors.New("boom")
	outer := New("E051").Wrap(inner)

	if outer.Unwrap() != inner {
		t.Error("Unwrap() should return wrapped error")
	}
	if !strings.HasSuffix(outer.Error(), ": boom") {
		t.Errorf("Error() = %q, should end with wrapped message", outer.Error())
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E070") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	he := New("E010")
	if FromError(he, "E070") != he {
		t.Error("FromError should return *Error as-is")
	}

	std := stderrors.New("plain")
	result := FromError(std, "E070")
	if result.Wrapped != std {
		t.Error("standard error should be wrapped")
	}
	if result.Code != "E070" {
		t.Errorf("Code = %q, want E070", result.Code)
	}
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain", stderrors.New("x"), ""},
		{"direct", New("E013"), "E013"},
		{"wrapped", fmt.Errorf("outer: %w", New("E016")), "E016"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CodeOf(tt.err); got != tt.want {
				t.Errorf("CodeOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"with path", &Location{Marker: 3, Path: "div/p"}, "marker #3 (div/p)"},
		{"without path", &Location{Marker: 1}, "marker #1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E020").
		WithLocation(2, "main").
		WithDetail(`marker "vg-part AAA=" but template digest is "BBB="`)

	formatted := err.Format()
	for _, want := range []string{
		"ERROR E020: Template digest mismatch",
		"at marker #2 (main)",
		`"BBB="`,
		"Hint:",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E014").WithLocation(5, "").WithDetail(`"vg-node x"`)
	want := `marker #5: E014: Malformed node marker ("vg-node x")`
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	js := New("E010").WithLocation(1, "div").FormatJSON()

	for _, want := range []string{
		`"code":"E010"`,
		`"category":"structural"`,
		`"message":"Unbalanced part marker"`,
		`"location":{"marker":1,"path":"div"}`,
	} {
		if !strings.Contains(js, want) {
			t.Errorf("FormatJSON() = %s, missing %s", js, want)
		}
	}
}

func TestFprintError(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	FprintError(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("FprintError() = %q", buf.String())
	}

	buf.Reset()
	FprintError(&buf, New("E012"))
	if !strings.Contains(buf.String(), "E012") {
		t.Errorf("FprintError() = %q, want code", buf.String())
	}
}

func TestGetAllCodes(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 {
		t.Fatal("GetAllCodes() should return codes")
	}
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Fatalf("codes not sorted: %v", codes)
		}
	}
	for _, code := range codes {
		if tmpl, _ := GetTemplate(code); tmpl.Category == "" || tmpl.Message == "" {
			t.Errorf("code %s has an incomplete template", code)
		}
	}
}

func TestRegister(t *testing.T) {
	Register("E999", ErrorTemplate{
		Category: CategoryCLI,
		Message:  "Custom test error",
	})
	defer delete(registry, "E999")

	if err := New("E999"); err.Message != "Custom test error" {
		t.Errorf("Message = %q, want %q", err.Message, "Custom test error")
	}
}

func TestWrapText(t *testing.T) {
	got := wrapText("short text", 100)
	if len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}

	got = wrapText("this is a longer text that should be wrapped", 20)
	if len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}

	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}
