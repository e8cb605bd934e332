// Package query derives ordered views over a repository snapshot. Every
// function here is pure: no I/O, no mutation of the snapshot, safe to call
// on every keystroke.
package query

import (
	"sort"
	"strings"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
)

// Params selects the derived view over a snapshot.
type Params struct {
	Search   string
	Category string
	Sort     domain.SortOption
}

// Apply composes search, category filter, and sort — always in that order —
// over the snapshot's source-ordered questions. It re-derives the view from
// scratch on every call rather than patching a previous result. It never
// fails: an unknown category or a search with no hits yields an empty
// slice, and a nil snapshot yields nil.
func Apply(snap *repository.Snapshot, p Params) []domain.Question {
	if snap == nil {
		return nil
	}

	questions := snap.All()
	filtered := make([]domain.Question, 0, len(questions))
	search := strings.ToLower(p.Search)

	for _, q := range questions {
		if search != "" && !matchesSearch(q, search) {
			continue
		}
		if p.Category != "" && !matchesCategory(q, p.Category) {
			continue
		}
		filtered = append(filtered, q)
	}

	sortQuestions(filtered, p.Sort)
	return filtered
}

// matchesSearch checks title, excerpt, and tags for a case-insensitive
// substring hit. The body is deliberately not searched.
func matchesSearch(q domain.Question, search string) bool {
	if strings.Contains(strings.ToLower(q.Title), search) {
		return true
	}
	if strings.Contains(strings.ToLower(q.Excerpt), search) {
		return true
	}
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// matchesCategory treats the filter value as either a category key or a
// tag: the UI exposes both through one control.
func matchesCategory(q domain.Question, filter string) bool {
	return strings.EqualFold(q.Category, filter) || q.HasTag(filter)
}

// sortQuestions orders in place. All sorts are stable so that equal keys
// keep their snapshot order; there is no defined secondary key.
func sortQuestions(questions []domain.Question, sortBy domain.SortOption) {
	switch sortBy {
	case domain.SortOldest:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].PublishedAt.Before(questions[j].PublishedAt)
		})
	case domain.SortVotes:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].NetVotes() > questions[j].NetVotes()
		})
	default:
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].PublishedAt.After(questions[j].PublishedAt)
		})
	}
}
