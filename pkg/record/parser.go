package record

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yaklabco/locedit/pkg/location"
)

// Parser defaults.
const (
	DefaultKeyword    = "fn"
	DefaultIdentifier = `^[a-z_]+`
)

var (
	locationPattern = regexp.MustCompile(`^([^:]+):(\d+):(\d+):`)
	contextPattern  = regexp.MustCompile(`^([^:]+):(\d+):(\d+):(.+)`)
)

// ParserOptions configures a Parser.
type ParserOptions struct {
	// Keyword precedes the defined name in a definition line.
	// Defaults to DefaultKeyword.
	Keyword string

	// Identifier matches a symbol name at the start of its input.
	// Defaults to DefaultIdentifier.
	Identifier string
}

// Parser turns `path:line:column:context` lines into records. Line and
// column in the input are 1-based; records are 0-based.
type Parser struct {
	identifier *regexp.Regexp
	definition *regexp.Regexp
}

// NewParser compiles the patterns described by opts.
func NewParser(opts ParserOptions) (*Parser, error) {
	if opts.Keyword == "" {
		opts.Keyword = DefaultKeyword
	}
	if opts.Identifier == "" {
		opts.Identifier = DefaultIdentifier
	}
	if !strings.HasPrefix(opts.Identifier, "^") {
		opts.Identifier = "^" + opts.Identifier
	}

	identifier, err := regexp.Compile(opts.Identifier)
	if err != nil {
		return nil, fmt.Errorf("compile identifier pattern: %w", err)
	}

	body := strings.TrimPrefix(opts.Identifier, "^")
	definition, err := regexp.Compile(
		`^([^:]+):(\d+):(\d+):(?:.*\s)?` + regexp.QuoteMeta(opts.Keyword) + `\s+(` + body + `)`)
	if err != nil {
		return nil, fmt.Errorf("compile definition pattern: %w", err)
	}

	return &Parser{identifier: identifier, definition: definition}, nil
}

// DefaultParser returns a Parser using DefaultKeyword and DefaultIdentifier.
func DefaultParser() *Parser {
	p, err := NewParser(ParserOptions{})
	if err != nil {
		panic(err)
	}
	return p
}

// ParseLocation parses the `path:line:column:` prefix of line.
func (p *Parser) ParseLocation(line string) (location.Location, error) {
	m := locationPattern.FindStringSubmatch(line)
	if m == nil {
		return location.Location{}, fmt.Errorf("%w: expected path:line:column:", ErrMalformedMatch)
	}
	return toLocation(m[1], m[2], m[3])
}

// ParseDefinition parses a line of the shape `path:line:column:... fn name`.
func (p *Parser) ParseDefinition(line string) (DefinitionRecord, error) {
	m := p.definition.FindStringSubmatch(line)
	if m == nil {
		return DefinitionRecord{}, fmt.Errorf("%w: expected path:line:column:<definition>", ErrMalformedMatch)
	}
	loc, err := toLocation(m[1], m[2], m[3])
	if err != nil {
		return DefinitionRecord{}, err
	}
	return DefinitionRecord{Location: loc, Name: m[4]}, nil
}

// ParseCall parses a call-site line. The callee name is read from the
// context at the reported column. When suffix is non-empty the name must end
// with it and the suffix is stripped before the name is looked up in idx.
func (p *Parser) ParseCall(line string, idx *NameIndex, suffix string) (CallRecord, error) {
	m := contextPattern.FindStringSubmatch(line)
	if m == nil {
		return CallRecord{}, fmt.Errorf("%w: expected path:line:column:context", ErrMalformedMatch)
	}
	loc, err := toLocation(m[1], m[2], m[3])
	if err != nil {
		return CallRecord{}, err
	}

	text := []rune(m[4])
	if loc.Column >= len(text) {
		return CallRecord{}, fmt.Errorf("%w: column %d is past the end of the context", ErrMalformedMatch, loc.Column+1)
	}
	name := p.identifier.FindString(string(text[loc.Column:]))
	if name == "" {
		return CallRecord{}, fmt.Errorf("%w: no identifier at column %d", ErrMalformedMatch, loc.Column+1)
	}

	if suffix != "" {
		trimmed, ok := strings.CutSuffix(name, suffix)
		if !ok {
			return CallRecord{}, fmt.Errorf("%w: %q does not end with %q", ErrMalformedMatch, name, suffix)
		}
		name = trimmed
	}

	def, ok := idx.Lookup(name)
	if !ok {
		return CallRecord{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, name)
	}
	return CallRecord{Location: loc, Definition: def}, nil
}

// ParseDefinitions parses every non-empty line of output. Records are
// returned for the lines that parsed; the error joins a *MatchError for
// every line that did not.
func (p *Parser) ParseDefinitions(output string) ([]DefinitionRecord, error) {
	return parseAll(output, p.ParseDefinition)
}

// ParseCalls parses every non-empty line of output as a call site.
func (p *Parser) ParseCalls(output string, idx *NameIndex, suffix string) ([]CallRecord, error) {
	return parseAll(output, func(line string) (CallRecord, error) {
		return p.ParseCall(line, idx, suffix)
	})
}

// ParseLocations parses every non-empty line of output as a bare location.
func (p *Parser) ParseLocations(output string) ([]location.Location, error) {
	return parseAll(output, p.ParseLocation)
}

func parseAll[T any](output string, parse func(string) (T, error)) ([]T, error) {
	var (
		out  []T
		errs []error
	)
	for i, line := range strings.Split(output, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		rec, err := parse(line)
		if err != nil {
			errs = append(errs, &MatchError{Line: i + 1, Text: line, Err: err})
			continue
		}
		out = append(out, rec)
	}
	return out, errors.Join(errs...)
}

func toLocation(path, line, column string) (location.Location, error) {
	l, err := strconv.Atoi(line)
	if err != nil || l < 1 {
		return location.Location{}, fmt.Errorf("%w: invalid line %q", ErrMalformedMatch, line)
	}
	c, err := strconv.Atoi(column)
	if err != nil || c < 1 {
		return location.Location{}, fmt.Errorf("%w: invalid column %q", ErrMalformedMatch, column)
	}
	return location.New(path, l-1, c-1), nil
}
