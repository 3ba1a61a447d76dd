// Package lang holds the closed registry of supported submission languages.
package lang

import (
	"path/filepath"
	"strings"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"

	"github.com/google/shlex"
)

// Spec describes how one language is compiled and executed.
// Command templates use the placeholders {src}, {bin} and {dir}, which expand
// to the source file path, the compiled artifact path and the working
// directory of the submission.
type Spec struct {
	ID             string `yaml:"id"`
	SourceFile     string `yaml:"sourceFile"`
	BinaryFile     string `yaml:"binaryFile"`
	CompileEnabled bool   `yaml:"compileEnabled"`
	CompileCmdTpl  string `yaml:"compileCmd"`
	RunCmdTpl      string `yaml:"runCmd"`
}

// Registry resolves language tags to specs. The set is closed: an unknown tag
// is rejected before any filesystem or process activity happens.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry builds a registry from explicit specs. Empty input falls back to
// the default set.
func NewRegistry(specs []Spec) *Registry {
	if len(specs) == 0 {
		specs = Defaults()
	}
	index := make(map[string]Spec, len(specs))
	for _, s := range specs {
		index[s.ID] = s
	}
	return &Registry{specs: index}
}

// Defaults returns the built-in language set: py, c, cpp, java.
func Defaults() []Spec {
	return []Spec{
		{
			ID:         "py",
			SourceFile: "main.py",
			RunCmdTpl:  "python3 {src}",
		},
		{
			ID:             "c",
			SourceFile:     "main.c",
			BinaryFile:     "main.out",
			CompileEnabled: true,
			CompileCmdTpl:  "gcc {src} -O2 -o {bin}",
			RunCmdTpl:      "{bin}",
		},
		{
			ID:             "cpp",
			SourceFile:     "main.cpp",
			BinaryFile:     "main.out",
			CompileEnabled: true,
			CompileCmdTpl:  "g++ {src} -O2 -o {bin}",
			RunCmdTpl:      "{bin}",
		},
		{
			ID:             "java",
			SourceFile:     "Main.java",
			BinaryFile:     "Main.class",
			CompileEnabled: true,
			CompileCmdTpl:  "javac {src}",
			RunCmdTpl:      "java -cp {dir} Main",
		},
	}
}

// Lookup returns the spec for a language tag.
func (r *Registry) Lookup(id string) (Spec, error) {
	spec, ok := r.specs[id]
	if !ok {
		return Spec{}, appErr.Newf(appErr.LanguageNotSupported, "unsupported language: %s", id)
	}
	return spec, nil
}

// Supported reports whether the tag is in the registry.
func (r *Registry) Supported(id string) bool {
	_, ok := r.specs[id]
	return ok
}

// IDs returns the registered language tags.
func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.specs))
	for id := range r.specs {
		out = append(out, id)
	}
	return out
}

// BuildCommand expands a command template against the working directory and
// splits it into argv form.
func BuildCommand(tpl string, spec Spec, workDir string) ([]string, error) {
	if strings.TrimSpace(tpl) == "" {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("command template is required")
	}
	expanded := tpl
	expanded = strings.ReplaceAll(expanded, "{src}", filepath.Join(workDir, spec.SourceFile))
	expanded = strings.ReplaceAll(expanded, "{bin}", filepath.Join(workDir, spec.BinaryFile))
	expanded = strings.ReplaceAll(expanded, "{dir}", workDir)
	fields, err := shlex.Split(expanded)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.InvalidParams, "parse command template failed")
	}
	if len(fields) == 0 {
		return nil, appErr.New(appErr.InvalidParams).WithMessage("command is empty after expansion")
	}
	return fields, nil
}
