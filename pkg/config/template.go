package config

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yaklabco/locedit/pkg/oracle"
)

// TemplateOptions controls configuration template generation.
type TemplateOptions struct {
	// Full writes every key with its default value. Otherwise only the keys
	// most projects change are written and the rest are commented out.
	Full bool

	// Language overrides the default language.
	Language string
}

// GenerateTemplate creates a commented configuration file.
func GenerateTemplate(opts TemplateOptions) ([]byte, error) {
	cfg := NewConfig()
	if opts.Language != "" {
		cfg.Language = opts.Language
	}

	var buf bytes.Buffer
	buf.WriteString("# locedit configuration\n")
	buf.WriteString("# Paths are relative to root.\n\n")

	writeKey(&buf, "Directory every path is resolved against", "root", quote(cfg.Root), true)
	writeKey(&buf, "Language of the searched sources: "+strings.Join(oracle.Languages(), ", "),
		"language", cfg.Language, true)

	buf.WriteString("\n# How queries run: treesitter (in-process) or exec (external binary)\n")
	buf.WriteString("oracle:\n")
	fmt.Fprintf(&buf, "  mode: %s\n", cfg.Oracle.Mode)
	fmt.Fprintf(&buf, "  binary: %s\n", cfg.Oracle.Binary)

	buf.WriteString("\n# Tree-sitter query selecting the definitions to rewrite\n")
	buf.WriteString("definition_query: |\n")
	for _, line := range strings.Split(cfg.DefinitionQuery, "\n") {
		buf.WriteString("  " + line + "\n")
	}

	writeList(&buf, "Where definitions live", "definition_paths", cfg.DefinitionPaths)
	writeList(&buf, "Where call sites live", "call_paths", cfg.CallPaths)

	writeKey(&buf, "Keyword preceding a defined name", "keyword", quote(cfg.Keyword), opts.Full)
	writeKey(&buf, "Regular expression matching a symbol name", "identifier", quote(cfg.Identifier), opts.Full)
	writeKey(&buf, "Suffix appended to renamed symbols", "suffix", quote(cfg.Suffix), opts.Full)
	writeKey(&buf, "Line inserted before each definition", "marker", quote(cfg.Marker), opts.Full)
	writeKey(&buf, "Accessor call removed by the unwrap pass", "accessor", quote(cfg.Accessor), opts.Full)

	if opts.Full {
		writeList(&buf, "Passes to run", "passes", cfg.Passes)
	} else {
		buf.WriteString("\n# Passes to run\n# passes: [definitions, calls, unwrap]\n")
	}

	buf.WriteString("\n# Write a .locedit.bak copy before rewriting a file\n")
	buf.WriteString("backups:\n")
	fmt.Fprintf(&buf, "  enabled: %t\n", cfg.Backups.Enabled)

	writeKey(&buf, "Files rewritten concurrently", "jobs", fmt.Sprint(cfg.Jobs), opts.Full)
	writeKey(&buf, "Hash file content, not only size and mtime, before each write",
		"strict_race_detection", fmt.Sprint(cfg.StrictRaceDetection), opts.Full)

	return buf.Bytes(), nil
}

func writeKey(buf *bytes.Buffer, comment, key, value string, active bool) {
	fmt.Fprintf(buf, "\n# %s\n", comment)
	if !active {
		buf.WriteString("# ")
	}
	fmt.Fprintf(buf, "%s: %s\n", key, value)
}

func writeList(buf *bytes.Buffer, comment, key string, values []string) {
	fmt.Fprintf(buf, "\n# %s\n%s:\n", comment, key)
	for _, v := range values {
		fmt.Fprintf(buf, "  - %s\n", quote(v))
	}
}

func quote(s string) string {
	return fmt.Sprintf("%q", s)
}
