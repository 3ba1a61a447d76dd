// Package ranking orders user records for the leaderboard.
package ranking

import (
	"sort"
	"time"

	"github.com/mashrafi141/my-judge-webapp2/internal/user"
)

// Entry is one leaderboard row. Users with equal rating, wrong count and
// registration time share a rank; the next distinct user gets their 1-based
// position, competition style.
type Entry struct {
	Rank int          `json:"rank"`
	User *user.Record `json:"user"`
}

type sortKey struct {
	rating       int
	wrongCount   int
	registeredAt time.Time
	unparsable   bool
}

func keyOf(rec *user.Record) sortKey {
	k := sortKey{rating: rec.Rating, wrongCount: len(rec.Wrong)}
	t, err := time.Parse(user.TimeLayout, rec.RegisteredAt)
	if err != nil {
		k.unparsable = true
		return k
	}
	k.registeredAt = t
	return k
}

func (k sortKey) less(o sortKey) bool {
	if k.rating != o.rating {
		return k.rating > o.rating
	}
	if k.wrongCount != o.wrongCount {
		return k.wrongCount < o.wrongCount
	}
	if k.unparsable != o.unparsable {
		return !k.unparsable
	}
	if k.unparsable {
		return false
	}
	return k.registeredAt.Before(o.registeredAt)
}

func (k sortKey) equal(o sortKey) bool {
	return !k.less(o) && !o.less(k)
}

// Rank sorts the records and assigns competition ranks. The input slice is
// not modified.
func Rank(records []*user.Record) []Entry {
	sorted := make([]*user.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return keyOf(sorted[i]).less(keyOf(sorted[j]))
	})

	entries := make([]Entry, 0, len(sorted))
	var prev sortKey
	rank := 0
	for i, rec := range sorted {
		k := keyOf(rec)
		if i == 0 || !k.equal(prev) {
			rank = i + 1
		}
		prev = k
		entries = append(entries, Entry{Rank: rank, User: rec})
	}
	return entries
}
