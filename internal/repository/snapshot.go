package repository

import (
	"errors"
	"time"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
)

// ErrSlugNotFound is returned when a slug resolves to no question in the
// snapshot. Consumers render a not-found outcome; it is never a crash.
var ErrSlugNotFound = errors.New("question slug not found")

// Snapshot is an immutable point-in-time view of all normalized questions
// from one fetch cycle. A refresh builds a wholly new snapshot and swaps the
// reference; nothing ever mutates an existing one, so readers can keep using
// a snapshot across a swap.
type Snapshot struct {
	questions     []domain.Question
	bySlug        map[string]int
	categoryCount int

	fetchSeq  uint64
	fetchedAt time.Time
	stale     bool
}

// BuildSnapshot indexes questions in O(n), preserving input order as the
// snapshot's source order. The normalizer guarantees unique slugs; should a
// collision slip through anyway, the first occurrence keeps the index slot.
func BuildSnapshot(questions []domain.Question, fetchSeq uint64, fetchedAt time.Time) *Snapshot {
	s := &Snapshot{
		questions: questions,
		bySlug:    make(map[string]int, len(questions)),
		fetchSeq:  fetchSeq,
		fetchedAt: fetchedAt,
	}

	categories := make(map[string]struct{})
	for i, q := range questions {
		if _, ok := s.bySlug[q.Slug]; !ok {
			s.bySlug[q.Slug] = i
		}
		categories[q.Category] = struct{}{}
	}
	s.categoryCount = len(categories)

	return s
}

// All returns the questions in source order. Callers must treat the slice
// as read-only.
func (s *Snapshot) All() []domain.Question {
	return s.questions
}

// FindBySlug resolves a slug against the snapshot.
func (s *Snapshot) FindBySlug(slug string) (domain.Question, error) {
	i, ok := s.bySlug[slug]
	if !ok {
		return domain.Question{}, ErrSlugNotFound
	}
	return s.questions[i], nil
}

// HasSlug reports whether the slug resolves in this snapshot.
func (s *Snapshot) HasSlug(slug string) bool {
	_, ok := s.bySlug[slug]
	return ok
}

// Slugs enumerates all slugs in source order, for static generation and
// sitemap consumers.
func (s *Snapshot) Slugs() []string {
	slugs := make([]string, len(s.questions))
	for i, q := range s.questions {
		slugs[i] = q.Slug
	}
	return slugs
}

// QuestionCount returns the number of questions. O(1).
func (s *Snapshot) QuestionCount() int {
	return len(s.questions)
}

// CategoryCount returns the number of distinct categories present. O(1),
// precomputed at build time.
func (s *Snapshot) CategoryCount() int {
	return s.categoryCount
}

// FetchSeq is the fetch cycle number that produced this snapshot.
func (s *Snapshot) FetchSeq() uint64 {
	return s.fetchSeq
}

// FetchedAt is when the fetch producing this snapshot completed.
func (s *Snapshot) FetchedAt() time.Time {
	return s.fetchedAt
}

// Stale reports whether this snapshot was restored from the cache rather
// than fetched live. Stale data is served, but marked as such.
func (s *Snapshot) Stale() bool {
	return s.stale
}

// Restamp returns a copy of the snapshot carrying the given fetch sequence.
// A cache-restored snapshot keeps the sequence of the process that saved it,
// which may exceed the current process's counter and block later live swaps;
// restamping aligns it with the current counter while preserving everything
// else, the stale flag included.
func (s *Snapshot) Restamp(fetchSeq uint64) *Snapshot {
	c := *s
	c.fetchSeq = fetchSeq
	return &c
}
