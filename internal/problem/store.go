package problem

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"
)

const problemFilePrefix = "problems_"

// FileStore loads problems from problems_*.json files in one directory and
// serves them from memory. Reload re-reads the directory; reads and reloads
// are safe to interleave.
type FileStore struct {
	dir string

	mu       sync.RWMutex
	problems map[int]*Problem
}

// NewFileStore creates a store and loads the directory. A missing directory is
// not an error: the store is simply empty.
func NewFileStore(dir string) (*FileStore, error) {
	s := &FileStore{dir: dir, problems: make(map[int]*Problem)}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads all problem files from the directory.
func (s *FileStore) Reload() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return appErr.Wrapf(err, appErr.ProblemLoadFailed, "read problem dir %s failed", s.dir)
	}

	loaded := make(map[int]*Problem)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, problemFilePrefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		path := filepath.Join(s.dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return appErr.Wrapf(err, appErr.ProblemLoadFailed, "read %s failed", path)
		}
		var problems []*Problem
		if err := json.Unmarshal(data, &problems); err != nil {
			return appErr.Wrapf(err, appErr.ProblemLoadFailed, "parse %s failed", path)
		}
		for _, p := range problems {
			loaded[p.ID] = p
		}
	}

	s.mu.Lock()
	s.problems = loaded
	s.mu.Unlock()
	return nil
}

// FindByID returns the problem with the given id.
func (s *FileStore) FindByID(id int) (*Problem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.problems[id]
	return p, ok
}

// ListAll returns every problem sorted by id ascending.
func (s *FileStore) ListAll() []*Problem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Problem, 0, len(s.problems))
	for _, p := range s.problems {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Grouped returns problems nested by category and level, for the listing view.
func (s *FileStore) Grouped() map[string]map[string][]*Problem {
	grouped := make(map[string]map[string][]*Problem)
	for _, p := range s.ListAll() {
		category := p.Category
		if category == "" {
			category = "Uncategorized"
		}
		level := p.Level
		if level == "" {
			level = "Unknown"
		}
		if grouped[category] == nil {
			grouped[category] = make(map[string][]*Problem)
		}
		grouped[category][level] = append(grouped[category][level], p)
	}
	return grouped
}
