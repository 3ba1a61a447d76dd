package user

import (
	"context"
	"sort"
	"sync"

	appErr "github.com/mashrafi141/my-judge-webapp2/pkg/errors"

	mapset "github.com/deckarep/golang-set/v2"
)

type memRecord struct {
	id              string
	username        string
	gmail           string
	registeredAt    string
	rating          int
	totalPoints     int
	submissionCount int
	submissions     []SubmissionRecord
	accepted        mapset.Set[int]
	wrong           mapset.Set[int]
}

// MemoryStore is an in-process Store. It backs tests and single-node runs
// without Redis; the same invariants hold under one mutex.
type MemoryStore struct {
	mu        sync.Mutex
	records   map[string]*memRecord
	usernames map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records:   make(map[string]*memRecord),
		usernames: make(map[string]string),
	}
}

func (s *MemoryStore) ensureLocked(id string) *memRecord {
	rec, ok := s.records[id]
	if !ok {
		rec = &memRecord{
			id:       id,
			accepted: mapset.NewThreadUnsafeSet[int](),
			wrong:    mapset.NewThreadUnsafeSet[int](),
		}
		s.records[id] = rec
	}
	return rec
}

// Register creates a named record for the user.
func (s *MemoryStore) Register(ctx context.Context, id, username, gmail string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if owner, taken := s.usernames[username]; taken && owner != id {
		return appErr.New(appErr.UsernameExists)
	}
	if rec, ok := s.records[id]; ok && rec.username != "" {
		return appErr.New(appErr.AlreadyRegistered)
	}

	rec := s.ensureLocked(id)
	rec.username = username
	rec.gmail = gmail
	rec.registeredAt = Now()
	s.usernames[username] = id
	return nil
}

// IsRegistered reports whether the user has a username and gmail on record.
func (s *MemoryStore) IsRegistered(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	return ok && rec.username != "" && rec.gmail != "", nil
}

// EnsureUser creates a zero-valued record if the user is unknown.
func (s *MemoryStore) EnsureUser(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(id)
	return nil
}

// Get returns a copy of the user's record.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.records[id]
	if !ok {
		return nil, appErr.Newf(appErr.RecordNotFound, "user %s not found", id)
	}
	return rec.export(), nil
}

// List returns copies of every record.
func (s *MemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.export())
	}
	return out, nil
}

// ApplyVerdict applies one judged submission under the store lock.
func (s *MemoryStore) ApplyVerdict(ctx context.Context, id string, upd VerdictUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.ensureLocked(id)
	rec.submissionCount++
	rec.submissions = append(rec.submissions, upd.Submission)

	if upd.Accepted {
		if !rec.accepted.Contains(upd.ProblemID) {
			rec.rating += upd.Points
			rec.totalPoints += upd.Points
			rec.accepted.Add(upd.ProblemID)
			rec.wrong.Remove(upd.ProblemID)
		}
		return nil
	}

	if !rec.accepted.Contains(upd.ProblemID) && !rec.wrong.Contains(upd.ProblemID) {
		rec.wrong.Add(upd.ProblemID)
	}
	return nil
}

func (rec *memRecord) export() *Record {
	submissions := make([]SubmissionRecord, len(rec.submissions))
	copy(submissions, rec.submissions)
	return &Record{
		ID:              rec.id,
		Username:        rec.username,
		Gmail:           rec.gmail,
		RegisteredAt:    rec.registeredAt,
		Rating:          rec.rating,
		TotalPoints:     rec.totalPoints,
		SubmissionCount: rec.submissionCount,
		Submissions:     submissions,
		Accepted:        sortedInts(rec.accepted),
		Wrong:           sortedInts(rec.wrong),
	}
}

func sortedInts(set mapset.Set[int]) []int {
	out := set.ToSlice()
	sort.Ints(out)
	return out
}
