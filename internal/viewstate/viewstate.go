// Package viewstate keeps the open-question and filter state consistent
// with the URL. The URL is the source of truth on load and navigation; user
// actions go through a pure reducer and the resulting state serializes back
// to the URL. Rendering subscribes to the state — nothing here reads or
// writes ambient globals.
package viewstate

import (
	"net/url"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
)

// URL query parameters owned by the synchronizer.
const (
	ParamSearch   = "search"
	ParamCategory = "category"
	ParamOpen     = "q"
)

// Resolver answers whether a slug exists in the current snapshot.
type Resolver interface {
	HasSlug(slug string) bool
}

// State is the tuple of filter/sort/open-question values that fully
// determines what the UI shows.
type State struct {
	SearchQuery    string            `json:"search_query,omitempty"`
	CategoryFilter string            `json:"category_filter,omitempty"`
	SortBy         domain.SortOption `json:"sort_by"`
	OpenSlug       string            `json:"open_slug,omitempty"`
}

// Open reports whether a question modal/detail is showing.
func (s State) Open() bool {
	return s.OpenSlug != ""
}

// Parse reads a URL query into a State. The q parameter only opens a
// question when it resolves against the snapshot; a stale deep link
// degrades to the closed state instead of failing.
func Parse(values url.Values, r Resolver) State {
	s := State{
		SearchQuery:    values.Get(ParamSearch),
		CategoryFilter: values.Get(ParamCategory),
		SortBy:         domain.DefaultSort,
	}

	if slug := values.Get(ParamOpen); slug != "" && r != nil && r.HasSlug(slug) {
		s.OpenSlug = slug
	}

	return s
}

// Values serializes the URL-carried fields: search, category, q. Empty
// fields are omitted. Sort mirrors the listing tabs and is session state,
// deliberately outside the URL contract, so reloading a serialized state
// reproduces the same view with the default ordering.
func (s State) Values() url.Values {
	v := url.Values{}
	if s.SearchQuery != "" {
		v.Set(ParamSearch, s.SearchQuery)
	}
	if s.CategoryFilter != "" {
		v.Set(ParamCategory, s.CategoryFilter)
	}
	if s.OpenSlug != "" {
		v.Set(ParamOpen, s.OpenSlug)
	}
	return v
}

// Event is an input to Reduce: either a browser navigation or an in-page
// user action.
type Event interface {
	isEvent()
}

// QuestionOpened fires when the user clicks a question in the listing.
type QuestionOpened struct{ Slug string }

// ModalClosed fires when the user dismisses the open question.
type ModalClosed struct{}

// EscapePressed is equivalent to ModalClosed while a question is open.
type EscapePressed struct{}

// SearchChanged fires on every search input change.
type SearchChanged struct{ Query string }

// CategoryChanged fires when a category or tag is picked; an empty value
// clears the filter.
type CategoryChanged struct{ Category string }

// SortChanged fires when a sort tab is picked.
type SortChanged struct{ Sort domain.SortOption }

// LocationChanged fires on back/forward navigation or an externally
// supplied URL.
type LocationChanged struct{ Query url.Values }

// SnapshotSwapped fires after a refresh installs a new snapshot.
type SnapshotSwapped struct{}

func (QuestionOpened) isEvent()  {}
func (ModalClosed) isEvent()     {}
func (EscapePressed) isEvent()   {}
func (SearchChanged) isEvent()   {}
func (CategoryChanged) isEvent() {}
func (SortChanged) isEvent()     {}
func (LocationChanged) isEvent() {}
func (SnapshotSwapped) isEvent() {}

// Reduce applies one event and returns the next state. It is pure: URL
// writes and re-rendering happen outside, driven by the returned state.
// Filter and sort changes never implicitly close an open question; only
// close events and a snapshot that dropped the open slug do.
func Reduce(s State, e Event, r Resolver) State {
	switch ev := e.(type) {
	case QuestionOpened:
		if r != nil && r.HasSlug(ev.Slug) {
			s.OpenSlug = ev.Slug
		}
	case ModalClosed:
		s.OpenSlug = ""
	case EscapePressed:
		s.OpenSlug = ""
	case SearchChanged:
		s.SearchQuery = ev.Query
	case CategoryChanged:
		s.CategoryFilter = ev.Category
	case SortChanged:
		if domain.IsValidSort(string(ev.Sort)) {
			s.SortBy = ev.Sort
		}
	case LocationChanged:
		// Sort survives navigation; it is not URL-carried.
		sortBy := s.SortBy
		s = Parse(ev.Query, r)
		s.SortBy = sortBy
	case SnapshotSwapped:
		if s.OpenSlug != "" && (r == nil || !r.HasSlug(s.OpenSlug)) {
			s.OpenSlug = ""
		}
	}
	return s
}
