package rewrite

import (
	"fmt"
	"regexp"
	"strings"
)

// Capture names used by the generated queries.
const (
	CaptureMethod   = "method_name"
	CaptureAccessor = "accessor"
)

// callShape names the grammar nodes of a method call `recv.name(args)`.
type callShape struct {
	call     string
	member   string
	receiver string
	field    string
	ident    string
}

//nolint:gochecknoglobals // Per-grammar node names.
var callShapes = map[string]callShape{
	"rust":       {call: "call_expression", member: "field_expression", receiver: "value", field: "field", ident: "field_identifier"},
	"go":         {call: "call_expression", member: "selector_expression", receiver: "operand", field: "field", ident: "field_identifier"},
	"javascript": {call: "call_expression", member: "member_expression", receiver: "object", field: "property", ident: "property_identifier"},
	"typescript": {call: "call_expression", member: "member_expression", receiver: "object", field: "property", ident: "property_identifier"},
	"tsx":        {call: "call_expression", member: "member_expression", receiver: "object", field: "property", ident: "property_identifier"},
	"python":     {call: "call", member: "attribute", receiver: "object", field: "attribute", ident: "identifier"},
}

func shapeFor(language string) (callShape, error) {
	shape, ok := callShapes[strings.ToLower(language)]
	if !ok {
		return callShape{}, fmt.Errorf("%w: no call query for language %q", ErrUnsupportedLanguage, language)
	}
	return shape, nil
}

// nameAlternation builds a regular expression matching exactly the given
// names, each followed by suffix.
func nameAlternation(names []string, suffix string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, "(?:^"+regexp.QuoteMeta(n+suffix)+"$)")
	}
	return strings.Join(parts, "|")
}

// InvocationQuery matches method calls `recv.name(...)` for any of names
// (each with suffix appended), capturing the name as CaptureMethod.
// names must not be empty.
func InvocationQuery(language string, names []string, suffix string) (string, error) {
	shape, err := shapeFor(language)
	if err != nil {
		return "", err
	}
	return invocation(shape, names, suffix), nil
}

func invocation(shape callShape, names []string, suffix string) string {
	return fmt.Sprintf(`(%s
  function: (%s
    %s: (%s) @%s (#match? @%s %q)))`,
		shape.call, shape.member, shape.field, shape.ident,
		CaptureMethod, CaptureMethod, nameAlternation(names, suffix))
}

// WrapQuery matches `recv.name_suffix(...).accessor()`, capturing the inner
// name as CaptureMethod and the accessor as CaptureAccessor.
func WrapQuery(language string, names []string, suffix, accessor string) (string, error) {
	shape, err := shapeFor(language)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`(%s
  function: (%s
    %s: %s
    %s: (%s) @%s (#eq? @%s %q)))`,
		shape.call, shape.member,
		shape.receiver, invocation(shape, names, suffix),
		shape.field, shape.ident, CaptureAccessor, CaptureAccessor, accessor), nil
}
