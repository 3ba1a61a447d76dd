package problem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeProblemFile(t *testing.T, dir, name string, problems []*Problem) {
	t.Helper()
	data, err := json.Marshal(problems)
	if err != nil {
		t.Fatalf("marshal problems: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), data, 0644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestFileStoreLoadsMatchingFiles(t *testing.T) {
	dir := t.TempDir()
	writeProblemFile(t, dir, "problems_1_20.json", []*Problem{
		{ID: 1, Name: "Sum", Category: "Math", Level: "Easy"},
		{ID: 2, Name: "Mul", Category: "Math", Level: "Medium"},
	})
	writeProblemFile(t, dir, "problems_21_40.json", []*Problem{
		{ID: 21, Name: "Sort", Category: "Arrays", Level: "Hard"},
	})
	// files without the prefix are ignored
	writeProblemFile(t, dir, "notes.json", []*Problem{{ID: 99}})

	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if got := len(s.ListAll()); got != 3 {
		t.Fatalf("expected 3 problems, got %d", got)
	}
	if _, ok := s.FindByID(99); ok {
		t.Fatal("unprefixed file must be ignored")
	}
}

func TestFileStoreMissingDirIsEmpty(t *testing.T) {
	s, err := NewFileStore(filepath.Join(t.TempDir(), "nope"))
	if err != nil {
		t.Fatalf("missing dir must not fail: %v", err)
	}
	if len(s.ListAll()) != 0 {
		t.Fatal("expected empty store")
	}
}

func TestFileStoreListSorted(t *testing.T) {
	dir := t.TempDir()
	writeProblemFile(t, dir, "problems_1_20.json", []*Problem{
		{ID: 5}, {ID: 1}, {ID: 3},
	})
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	ids := []int{}
	for _, p := range s.ListAll() {
		ids = append(ids, p.ID)
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] > ids[i] {
			t.Fatalf("not sorted: %v", ids)
		}
	}
}

func TestFileStoreReload(t *testing.T) {
	dir := t.TempDir()
	writeProblemFile(t, dir, "problems_1_20.json", []*Problem{{ID: 1}})
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	writeProblemFile(t, dir, "problems_1_20.json", []*Problem{{ID: 1}, {ID: 2}})
	if err := s.Reload(); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if _, ok := s.FindByID(2); !ok {
		t.Fatal("reload did not pick up new problem")
	}
}

func TestGrouped(t *testing.T) {
	dir := t.TempDir()
	writeProblemFile(t, dir, "problems_1_20.json", []*Problem{
		{ID: 1, Category: "Math", Level: "Easy"},
		{ID: 2, Category: "Math", Level: "Easy"},
		{ID: 3, Category: "Math", Level: "Hard"},
		{ID: 4},
	})
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	grouped := s.Grouped()
	if len(grouped["Math"]["Easy"]) != 2 {
		t.Fatalf("Math/Easy wrong: %v", grouped)
	}
	if len(grouped["Uncategorized"]["Unknown"]) != 1 {
		t.Fatalf("defaults for empty category/level missing: %v", grouped)
	}
}

func TestSummarizeHidesTestCases(t *testing.T) {
	p := &Problem{ID: 1, Title: "Fallback", TestCases: []TestCase{{Input: "1", Output: "2"}}}
	s := Summarize(p)
	if s.Name != "Fallback" {
		t.Fatalf("title fallback broken: %q", s.Name)
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) == "" || containsTestCases(data) {
		t.Fatalf("summary must not leak test cases: %s", data)
	}
}

func containsTestCases(data []byte) bool {
	var raw map[string]interface{}
	_ = json.Unmarshal(data, &raw)
	_, ok := raw["test_cases"]
	return ok
}
