// Package problem provides the read-only problem store. Problems live in
// problems_<a>_<b>.json files, twenty per file, and are owned by whoever
// maintains that directory; the core never writes them.
package problem

// TestCase is one (input, expected output) pair. Test cases are hidden: they
// are never serialized to callers outside the judging core.
type TestCase struct {
	Input  string `json:"input"`
	Output string `json:"output"`
}

// Problem is one judgeable task.
type Problem struct {
	ID                   int        `json:"id"`
	Name                 string     `json:"name"`
	Title                string     `json:"title,omitempty"`
	Category             string     `json:"category"`
	Level                string     `json:"level"`
	Points               int        `json:"points"`
	Statement            string     `json:"statement,omitempty"`
	AllowUnorderedOutput bool       `json:"allow_unordered_output"`
	TestCases            []TestCase `json:"test_cases"`
}

// DisplayName prefers the name field and falls back to title.
func (p *Problem) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	if p.Title != "" {
		return p.Title
	}
	return "Unknown Problem"
}

// Summary is the caller-visible view of a problem, with test cases stripped.
type Summary struct {
	ID                   int    `json:"id"`
	Name                 string `json:"name"`
	Category             string `json:"category"`
	Level                string `json:"level"`
	Points               int    `json:"points"`
	Statement            string `json:"statement,omitempty"`
	AllowUnorderedOutput bool   `json:"allow_unordered_output"`
}

// Summarize strips the hidden test cases from a problem.
func Summarize(p *Problem) Summary {
	return Summary{
		ID:                   p.ID,
		Name:                 p.DisplayName(),
		Category:             p.Category,
		Level:                p.Level,
		Points:               p.Points,
		Statement:            p.Statement,
		AllowUnorderedOutput: p.AllowUnorderedOutput,
	}
}

// Store is the read-only lookup interface consumed by the core.
type Store interface {
	FindByID(id int) (*Problem, bool)
	ListAll() []*Problem
}
