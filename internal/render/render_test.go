package render

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestRender_PassThrough(t *testing.T) {
	doc := map[string]any{
		"a": 1,
		"b": []any{true, nil},
	}
	got, err := Render(doc, map[string]any{"unused": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Fatalf("got %v, want %v", got, doc)
	}
}

func TestRender_Substitution(t *testing.T) {
	doc := map[string]any{"url": "http://{{host}}:{{port}}"}
	got, err := Render(doc, map[string]any{"host": "x", "port": 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["url"] != "http://x:1" {
		t.Fatalf("got url=%q, want %q", got["url"], "http://x:1")
	}
}

func TestRender_DotSyntax(t *testing.T) {
	doc := map[string]any{"greeting": "hello {{.name}}"}
	got, err := Render(doc, map[string]any{"name": "world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["greeting"] != "hello world" {
		t.Fatalf("got %q", got["greeting"])
	}
}

func TestRender_UndefinedVariable(t *testing.T) {
	doc := map[string]any{"url": "{{missing}}"}
	_, err := Render(doc, map[string]any{})
	if err == nil {
		t.Fatal("expected error for undefined variable")
	}
	var re *Error
	if !errors.As(err, &re) {
		t.Fatalf("expected *render.Error, got %T", err)
	}
	if re.Expr != "{{missing}}" {
		t.Fatalf("error does not identify failing expression: %q", re.Expr)
	}
}

func TestRender_UndefinedDotKey(t *testing.T) {
	doc := map[string]any{"url": "{{.missing}}"}
	if _, err := Render(doc, map[string]any{"present": 1}); err == nil {
		t.Fatal("expected error for undefined dot key")
	}
}

func TestRender_SyntaxError(t *testing.T) {
	doc := map[string]any{"bad": "{{host"}
	_, err := Render(doc, map[string]any{"host": "x"})
	if err == nil {
		t.Fatal("expected error for unterminated template")
	}
	if !strings.Contains(err.Error(), "{{host") {
		t.Fatalf("error does not name the failing expression: %v", err)
	}
}

func TestRender_NoPartialResult(t *testing.T) {
	// One bad leaf fails the whole render even when siblings are fine.
	doc := map[string]any{
		"good": "{{host}}",
		"bad":  "{{missing}}",
	}
	got, err := Render(doc, map[string]any{"host": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if got != nil {
		t.Fatalf("partial result returned: %v", got)
	}
}

func TestRender_StructuralPreservation(t *testing.T) {
	doc := map[string]any{
		"database": map[string]any{
			"host":    "{{host}}",
			"port":    5432,
			"replica": []any{"{{host}}-r1", "{{host}}-r2", false},
		},
		"timeout": 2.5,
		"label":   nil,
	}
	got, err := Render(doc, map[string]any{"host": "db"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]any{
		"database": map[string]any{
			"host":    "db",
			"port":    5432,
			"replica": []any{"db-r1", "db-r2", false},
		},
		"timeout": 2.5,
		"label":   nil,
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestRender_InputNotMutated(t *testing.T) {
	doc := map[string]any{
		"nested": map[string]any{"url": "{{host}}"},
		"list":   []any{"{{host}}"},
	}
	if _, err := Render(doc, map[string]any{"host": "x"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc["nested"].(map[string]any)["url"] != "{{host}}" {
		t.Error("nested map was mutated")
	}
	if doc["list"].([]any)[0] != "{{host}}" {
		t.Error("sequence was mutated")
	}
}

func TestRender_KeysNeverTemplated(t *testing.T) {
	doc := map[string]any{"{{host}}": "literal"}
	got, err := Render(doc, map[string]any{"host": "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := got["{{host}}"]; !ok {
		t.Fatalf("map key was templated: %v", got)
	}
}

func TestRender_NonIdentifierContextKey(t *testing.T) {
	// Keys that are not valid identifiers stay reachable via the dot.
	doc := map[string]any{"v": "{{index . \"my-key\"}}"}
	got, err := Render(doc, map[string]any{"my-key": "ok"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got["v"] != "ok" {
		t.Fatalf("got %q", got["v"])
	}
}

func TestValidFuncName(t *testing.T) {
	for name, want := range map[string]bool{
		"host":   true,
		"db_url": true,
		"v2":     true,
		"":       false,
		"2v":     false,
		"my-key": false,
		"a.b":    false,
	} {
		if got := validFuncName(name); got != want {
			t.Errorf("validFuncName(%q) = %v, want %v", name, got, want)
		}
	}
}
