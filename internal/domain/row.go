package domain

// RawRow is one unvalidated row from the external source, keyed by
// lower-cased column name.
type RawRow map[string]string

// Get returns the value for a column, or "" when the column is absent.
func (r RawRow) Get(column string) string {
	return r[column]
}

// Rejection records why a raw row was excluded from a snapshot. Rejections
// are data, not errors: a malformed row never fails the fetch it arrived in.
type Rejection struct {
	Row    int    `json:"row"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Rejection reasons shared across packages. Field-level validation reasons
// (title_required, invalid_slug_format, ...) come from the validator.
const (
	ReasonInvalidDate   = "invalid_date"
	ReasonDuplicateSlug = "duplicate_slug"
)
