package domain

// CategoryUncategorized is the key assigned to rows whose category column
// names no known category.
const CategoryUncategorized = "uncategorized"

// Categories maps category keys to display labels. The set is closed: the
// normalizer maps anything outside it to CategoryUncategorized instead of
// rejecting the row.
var Categories = map[string]string{
	"fees":                "Fees & Pricing",
	"placements":          "Placements & Jobs",
	"curriculum":          "Curriculum & Learning",
	"admissions":          "Admissions Process",
	"reviews":             "Reviews & Experiences",
	"comparisons":         "Comparisons",
	"general":             "General",
	CategoryUncategorized: "Uncategorized",
}

// IsValidCategory checks if a key belongs to the closed category set.
func IsValidCategory(key string) bool {
	_, ok := Categories[key]
	return ok
}
