package model

import "strings"

// fieldType is the scalar type a required field must have.
type fieldType string

const (
	typeInt    fieldType = "int"
	typeString fieldType = "string"
)

// requiredFields lists the dotted-path fields checked by ValidateDocument
// and their expected types. The version field is optional: absence is not
// an error, but presence with the wrong type is.
var requiredFields = []struct {
	path     string
	typ      fieldType
	optional bool
}{
	{path: "version", typ: typeInt, optional: true},
	{path: "database.host", typ: typeString},
	{path: "database.port", typ: typeInt},
}

// ValidateDocument checks a configuration document against the required
// field schema. All rules are evaluated independently so every violation
// is reported in one pass. An empty result means the document is valid.
func ValidateDocument(doc map[string]any) []string {
	var errs []string

	for _, f := range requiredFields {
		val, ok := dig(doc, f.path)
		switch {
		case !ok:
			if !f.optional {
				errs = append(errs, "Missing required field: "+f.path)
			}
		case !matchesType(val, f.typ):
			errs = append(errs, "Invalid type for "+f.path+": expected "+string(f.typ))
		}
	}

	// Value checks, independent of the generic type pass.
	if port, ok := dig(doc, "database.port"); ok {
		if n, isInt := asInt(port); isInt && (n < 1 || n > 65535) {
			errs = append(errs, "Invalid database.port: must be 1..65535")
		}
	}
	if host, ok := dig(doc, "database.host"); ok {
		if s, isStr := host.(string); isStr && strings.TrimSpace(s) == "" {
			errs = append(errs, "Invalid database.host: must be non-empty string")
		}
	}

	return errs
}

// dig resolves a dotted path by descending through nested maps. A missing
// intermediate key, or an intermediate value that is not a map, resolves
// to absent.
func dig(doc map[string]any, path string) (any, bool) {
	var cur any = doc
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

func matchesType(val any, typ fieldType) bool {
	switch typ {
	case typeInt:
		_, ok := asInt(val)
		return ok
	case typeString:
		_, ok := val.(string)
		return ok
	}
	return false
}

// asInt normalizes the integer widths produced by the YAML and JSON
// decoders. Floats are accepted only when they carry no fractional part,
// since a JSON round-trip turns every number into float64.
func asInt(val any) (int, bool) {
	switch n := val.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}
