//go:build stave

package main

import (
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/yaklabco/stave/pkg/sh"
	"github.com/yaklabco/stave/pkg/st"
	"github.com/yaklabco/stave/pkg/target"
)

const (
	binary  = "bin/locedit"
	mainPkg = "./cmd/locedit"
)

// Default target runs build.
var Default = Build

// Aliases for common targets.
var Aliases = map[string]any{
	"b":     Build,
	"t":     Test.Default,
	"l":     Lint.Default,
	"c":     Check,
	"fmt":   Lint.Fmt,
	"smoke": Smoke,
}

// Namespace types group related targets.
type (
	Test  st.Namespace
	Lint  st.Namespace
	Bench st.Namespace
)

// Build compiles the locedit binary with version info when sources changed.
func Build() error {
	rebuild, err := target.Dir(binary, "cmd/", "pkg/", "internal/", "go.mod", "go.sum")
	if err != nil {
		return err
	}
	if !rebuild {
		fmt.Println(binary + " is up to date")
		return nil
	}
	fmt.Println("Building locedit...")
	return sh.RunV("go", "build", "-ldflags", ldflags(), "-o", binary, mainPkg)
}

// Check runs format, vet, lint and test sequentially.
func Check() {
	st.SerialDeps(Lint.Fmt, Lint.Vet, Lint.Default, Test.Default)
}

// Clean removes build artifacts.
func Clean() error {
	for _, path := range []string{"bin", "coverage.out", "coverage.html"} {
		if err := sh.Rm(path); err != nil {
			return err
		}
	}
	return nil
}

// Install installs locedit to $GOBIN or $GOPATH/bin.
func Install() error {
	fmt.Println("Installing locedit...")
	return sh.RunV("go", "install", "-ldflags", ldflags(), mainPkg)
}

// Smoke builds the binary and previews a rewrite of a generated project.
func Smoke() error {
	st.Deps(Build)

	dir, err := os.MkdirTemp("", "locedit-smoke-")
	if err != nil {
		return fmt.Errorf("create smoke project: %w", err)
	}
	defer os.RemoveAll(dir)

	files := map[string]string{
		"src/factory.rs": "impl F {\n    pub fn create_node(&self) -> Node {\n        Node {}\n    }\n}\n",
		"src/use.rs":     "fn f(x: &F) {\n    x.create_node();\n    x.create_node_raw().wrap();\n}\n",
		".locedit.yml":   "definition_paths: [src/factory.rs]\ncall_paths: [src]\n",
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return err
		}
	}

	bin, err := filepath.Abs(binary)
	if err != nil {
		return err
	}
	return sh.RunV(bin, "run", "--config", filepath.Join(dir, ".locedit.yml"), "--format", "diff")
}

// Default runs all tests using gotestsum with race detection and coverage.
func (Test) Default() error {
	fmt.Println("Running tests...")
	nCores := cmp.Or(os.Getenv("STAVE_NUM_PROCESSORS"), "4")
	return sh.RunV("go",
		"tool", "gotestsum",
		"-f", "pkgname-and-test-fails",
		"--",
		"-race",
		"-p", nCores,
		"-parallel", nCores,
		"./...",
		"-coverprofile=coverage.out",
		"-covermode=atomic",
	)
}

// Fuzz runs the text buffer fuzz target for a short while.
func (Test) Fuzz() error {
	return sh.RunV("go", "test", "-run=^$", "-fuzz=Fuzz", "-fuzztime=30s", "./pkg/textbuf")
}

// Default runs golangci-lint with auto-fix.
func (Lint) Default() error {
	fmt.Println("Running linters...")
	return sh.RunV("golangci-lint", "run", "--fix", "./...")
}

// Fmt formats all Go code.
func (Lint) Fmt() error {
	return sh.RunV("gofmt", "-w", "cmd", "internal", "pkg")
}

// Vet runs go vet.
func (Lint) Vet() error {
	return sh.RunV("go", "vet", "./...")
}

// Default runs every benchmark.
func (Bench) Default() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem", "./...")
}

// Buffer runs the text buffer and executor benchmarks only.
func (Bench) Buffer() error {
	return sh.RunV("go", "test", "-run=^$", "-bench=.", "-benchmem",
		"./pkg/textbuf/...", "./pkg/executor/...")
}

func gitOutput(args ...string) string {
	out, err := sh.Output("git", args...)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

// ldflags returns the linker flags for version injection.
func ldflags() string {
	version := cmp.Or(gitOutput("describe", "--tags", "--always", "--dirty"), "dev")
	commit := cmp.Or(gitOutput("rev-parse", "--short", "HEAD"), "none")
	date := time.Now().UTC().Format(time.RFC3339)
	return fmt.Sprintf("-X main.version=%s -X main.commit=%s -X main.date=%s", version, commit, date)
}
