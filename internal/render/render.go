// Package render implements strict template substitution over
// configuration document trees.
//
// Rendering walks the document recursively and evaluates template
// expressions found in string leaves against a caller-supplied variable
// context. Resolution is strict: referencing a variable that is not in
// the context fails the whole render rather than substituting an empty
// value.
package render

import (
	"fmt"
	"strings"
	"text/template"
)

// marker is the opening sequence that flags a string as a template.
const marker = "{{"

// Error is returned when a template in the document cannot be evaluated.
// Expr is the source string that failed.
type Error struct {
	Expr string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("template render error in %q: %v", e.Expr, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Render returns a copy of doc with every templated string leaf
// evaluated against context. The input tree is never mutated. Any
// evaluation failure aborts the render; a partial result is never
// returned.
//
// Context variables are exposed two ways: as zero-argument functions,
// so {{host}} resolves to context["host"], and as the template dot, so
// {{.host}} works as well. Both forms are strict.
func Render(doc map[string]any, context map[string]any) (map[string]any, error) {
	funcs := contextFuncs(context)
	out, err := renderValue(doc, context, funcs)
	if err != nil {
		return nil, err
	}
	return out.(map[string]any), nil
}

// renderValue dispatches on the node kind: maps and sequences recurse,
// strings are inspected for template markers, every other scalar passes
// through unchanged.
func renderValue(val any, context map[string]any, funcs template.FuncMap) (any, error) {
	switch v := val.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, elem := range v {
			r, err := renderValue(elem, context, funcs)
			if err != nil {
				return nil, err
			}
			out[k] = r
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, elem := range v {
			r, err := renderValue(elem, context, funcs)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil

	case string:
		if !strings.Contains(v, marker) {
			return v, nil
		}
		return renderString(v, context, funcs)

	default:
		return val, nil
	}
}

// renderString evaluates a single templated string. A parse error (which
// includes references to names absent from the context, reported by
// text/template as undefined functions) or an execution error fails the
// render.
func renderString(s string, context map[string]any, funcs template.FuncMap) (string, error) {
	tpl, err := template.New("config").
		Option("missingkey=error").
		Funcs(funcs).
		Parse(s)
	if err != nil {
		return "", &Error{Expr: s, Err: err}
	}

	var buf strings.Builder
	if err := tpl.Execute(&buf, context); err != nil {
		return "", &Error{Expr: s, Err: err}
	}
	return buf.String(), nil
}

// contextFuncs exposes each context variable as a zero-argument template
// function. Keys that are not valid template identifiers are skipped;
// they remain reachable through the dot.
func contextFuncs(context map[string]any) template.FuncMap {
	funcs := make(template.FuncMap, len(context))
	for k, v := range context {
		if !validFuncName(k) {
			continue
		}
		val := v
		funcs[k] = func() any { return val }
	}
	return funcs
}

// validFuncName mirrors the identifier rules template.FuncMap enforces;
// an invalid name would make Funcs panic.
func validFuncName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_':
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
