package oracle

import (
	"path/filepath"
	"slices"
	"strings"

	"github.com/go-enry/go-enry/v2"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

//nolint:gochecknoglobals // Grammar registry.
var grammars = map[string]func() *sitter.Language{
	"go":         golang.GetLanguage,
	"javascript": javascript.GetLanguage,
	"python":     python.GetLanguage,
	"rust":       rust.GetLanguage,
	"tsx":        tsx.GetLanguage,
	"typescript": typescript.GetLanguage,
}

// Languages returns the names of the supported grammars, sorted.
func Languages() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// grammar returns the tree-sitter grammar for a language name.
func grammar(name string) (*sitter.Language, bool) {
	get, ok := grammars[strings.ToLower(name)]
	if !ok {
		return nil, false
	}
	return get(), true
}

// normalize converts a linguist language name to a grammar name.
func normalize(linguist string) string {
	return strings.ToLower(linguist)
}

// DetectLanguages returns the candidate grammar names for a file, by
// extension, or by shebang for files without one. content may be nil when
// the file has an extension.
func DetectLanguages(path string, content []byte) []string {
	var candidates []string
	if filepath.Ext(path) != "" {
		candidates = enry.GetLanguagesByExtension(path, nil, nil)
	} else {
		candidates = enry.GetLanguagesByShebang(path, content, nil)
	}

	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := grammars[normalize(c)]; ok {
			out = append(out, normalize(c))
		}
	}
	return out
}

// IsLanguage reports whether path holds source in the named language.
func IsLanguage(path string, content []byte, language string) bool {
	return slices.Contains(DetectLanguages(path, content), strings.ToLower(language))
}
