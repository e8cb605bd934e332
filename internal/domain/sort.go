package domain

// SortOption selects the ordering of a question listing.
type SortOption string

// Supported sort options.
const (
	SortNewest SortOption = "newest"
	SortOldest SortOption = "oldest"
	SortVotes  SortOption = "votes"
)

// DefaultSort is the ordering used when a listing names none.
const DefaultSort = SortNewest

// ValidSortOptions contains all valid sort options.
var ValidSortOptions = []SortOption{SortNewest, SortOldest, SortVotes}

// IsValidSort checks if a sort option is valid.
func IsValidSort(s string) bool {
	for _, opt := range ValidSortOptions {
		if s == string(opt) {
			return true
		}
	}
	return false
}
