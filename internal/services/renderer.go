package services

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// placeholderPattern matches {{ expr }} markers with optional surrounding
// whitespace inside the braces.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([^{}]*?)\s*\}\}`)

// RenderTemplate substitutes placeholder markers in an HTML template body.
//
// When data is not a mapping, only the literal {{etiqueta}} placeholder is
// replaced, with the stringified scalar. When data is a mapping, each
// {{ expr }} marker resolves as:
//   - "etiqueta": the whole mapping rendered as a nested <ul> list
//   - "etiqueta.a.b": dot-path descent into the mapping
//   - a top-level key of the mapping
//   - anything else: the marker is echoed back untouched
//
// It never fails; unresolvable markers stay verbatim in the output.
func RenderTemplate(template string, data interface{}) string {
	mapping, ok := asStringMap(data)
	if !ok {
		scalar := ""
		if data != nil {
			scalar = stringify(data)
		}
		return strings.ReplaceAll(template, "{{etiqueta}}", scalar)
	}

	return placeholderPattern.ReplaceAllStringFunc(template, func(match string) string {
		expr := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])

		switch {
		case expr == "etiqueta":
			return renderMapAsList(mapping)
		case strings.HasPrefix(expr, "etiqueta."):
			value, found := resolvePath(mapping, strings.Split(expr[len("etiqueta."):], "."))
			if !found {
				return match
			}
			return stringify(value)
		default:
			if value, found := mapping[expr]; found {
				return stringify(value)
			}
			return match
		}
	})
}

// renderMapAsList renders a mapping as a nested <ul>, recursing into nested
// mappings. Keys are emitted in sorted order so output is deterministic.
func renderMapAsList(m map[string]interface{}) string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	sb.WriteString("<ul>")
	for _, k := range keys {
		sb.WriteString("<li><strong>")
		sb.WriteString(k)
		sb.WriteString(":</strong> ")
		if nested, ok := asStringMap(m[k]); ok {
			sb.WriteString(renderMapAsList(nested))
		} else {
			sb.WriteString(stringify(m[k]))
		}
		sb.WriteString("</li>")
	}
	sb.WriteString("</ul>")
	return sb.String()
}

// resolvePath descends into the mapping key by key. It reports failure when a
// segment is missing or an intermediate value is not itself a mapping.
func resolvePath(m map[string]interface{}, segments []string) (interface{}, bool) {
	var current interface{} = m
	for _, seg := range segments {
		mapping, ok := asStringMap(current)
		if !ok {
			return nil, false
		}
		current, ok = mapping[seg]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func asStringMap(v interface{}) (map[string]interface{}, bool) {
	m, ok := v.(map[string]interface{})
	return m, ok
}

func stringify(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}
