package lang

import (
	"path/filepath"
	"reflect"
	"testing"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
)

func TestLookupUnknownLanguage(t *testing.T) {
	r := NewRegistry(nil)
	if _, err := r.Lookup("brainfuck"); !appErr.Is(err, appErr.LanguageNotSupported) {
		t.Fatalf("expected LanguageNotSupported, got %v", err)
	}
}

func TestDefaultsRegistered(t *testing.T) {
	r := NewRegistry(nil)
	for _, id := range []string{"py", "c", "cpp", "java"} {
		if !r.Supported(id) {
			t.Fatalf("default language %s missing", id)
		}
	}
}

func TestBuildCommandExpandsPlaceholders(t *testing.T) {
	spec := Spec{SourceFile: "main.c", BinaryFile: "main.out"}
	argv, err := BuildCommand("gcc {src} -O2 -o {bin}", spec, "/tmp/work")
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	want := []string{"gcc", filepath.Join("/tmp/work", "main.c"), "-O2", "-o", filepath.Join("/tmp/work", "main.out")}
	if !reflect.DeepEqual(argv, want) {
		t.Fatalf("argv mismatch: got %v want %v", argv, want)
	}
}

func TestBuildCommandQuotedArgs(t *testing.T) {
	argv, err := BuildCommand(`sh -c "echo hi"`, Spec{}, "/tmp")
	if err != nil {
		t.Fatalf("BuildCommand: %v", err)
	}
	if len(argv) != 3 || argv[2] != "echo hi" {
		t.Fatalf("quoted argument not preserved: %v", argv)
	}
}

func TestBuildCommandEmptyTemplate(t *testing.T) {
	if _, err := BuildCommand("  ", Spec{}, "/tmp"); err == nil {
		t.Fatal("expected error for empty template")
	}
}
