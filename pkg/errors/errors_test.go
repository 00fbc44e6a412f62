package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/nooga/squash/pkg/source"
)

func TestSyntaxError(t *testing.T) {
	cause := stderrors.New("bad escape")
	err := NewSyntaxError(Position{Line: 2, Column: 5}, "unterminated %s", "string").CausedBy(cause)

	if got, want := err.Error(), "Syntax Error at 2:5: unterminated string"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if err.Kind() != "Syntax" || err.Message() != "unterminated string" {
		t.Errorf("unexpected kind/message: %q / %q", err.Kind(), err.Message())
	}
	if !stderrors.Is(err, cause) {
		t.Errorf("cause is not reachable through Unwrap")
	}
}

func TestJoin(t *testing.T) {
	if Join(nil) != nil {
		t.Fatalf("Join(nil) should be nil")
	}
	first := NewSyntaxError(Position{Line: 1, Column: 1}, "a")
	second := NewSyntaxError(Position{Line: 3, Column: 1}, "b")

	if Join([]SquashError{first}) != first {
		t.Errorf("a single error should be returned as is")
	}
	joined := Join([]SquashError{first, second})
	if !strings.HasSuffix(joined.Error(), "(and 1 more)") {
		t.Errorf("joined message = %q", joined.Error())
	}
	var target *SyntaxError
	if !stderrors.As(joined, &target) || target != first {
		t.Errorf("errors.As should find the first syntax error")
	}
}

func TestDisplayErrors(t *testing.T) {
	src := source.FromFile("lib/app.js", "var a = 1;\nvar = 2;\n")
	errs := []SquashError{
		NewSyntaxError(Position{Line: 2, Column: 5, Source: src}, "expected identifier"),
		NewSyntaxError(Position{Line: 9, Column: 1}, "detached"),
	}

	var b strings.Builder
	DisplayErrors(&b, errs)
	got := b.String()

	for _, want := range []string{
		"lib/app.js:2:5: Syntax Error: expected identifier\n",
		"  var = 2;\n",
		"      ^\n",
		"<input>: Syntax Error: detached\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}
