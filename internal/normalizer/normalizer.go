// Package normalizer converts raw sheet rows into validated Question
// entities. Malformed rows become Rejections; they never abort the fetch
// they arrived in, so the repository stays constructible even when the
// sheet carries garbage.
package normalizer

import (
	"strconv"
	"strings"
	"time"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/validator"
)

// excerptLength caps a derived excerpt, matching the listing card length.
const excerptLength = 155

// dateFormats are the accepted published_at layouts, tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Result holds the outcome of normalizing one fetch cycle's rows.
type Result struct {
	Questions  []domain.Question
	Rejections []domain.Rejection
}

// Normalizer turns raw rows into Questions.
type Normalizer struct {
	validator *validator.Validator
}

// New creates a Normalizer.
func New() *Normalizer {
	return &Normalizer{validator: validator.NewValidator()}
}

// Normalize converts raw rows into validated questions, preserving source
// order. Row numbers in rejections are 1-based positions within the fetch.
// Slug collisions keep the first occurrence and reject later duplicates.
func (n *Normalizer) Normalize(rows []domain.RawRow) Result {
	result := Result{
		Questions: make([]domain.Question, 0, len(rows)),
	}
	seen := make(map[string]struct{}, len(rows))

	for i, row := range rows {
		rowNum := i + 1

		q, rejections := n.normalizeRow(rowNum, row)
		if len(rejections) > 0 {
			result.Rejections = append(result.Rejections, rejections...)
			continue
		}

		if _, dup := seen[q.Slug]; dup {
			result.Rejections = append(result.Rejections, domain.Rejection{
				Row:    rowNum,
				Field:  "slug",
				Reason: domain.ReasonDuplicateSlug,
			})
			continue
		}
		seen[q.Slug] = struct{}{}

		result.Questions = append(result.Questions, q)
	}

	return result
}

// normalizeRow maps one raw row onto a Question and validates it.
func (n *Normalizer) normalizeRow(rowNum int, row domain.RawRow) (domain.Question, []domain.Rejection) {
	q := domain.Question{
		ID:        row.Get("id"),
		Slug:      strings.ToLower(row.Get("slug")),
		Title:     row.Get("title"),
		Body:      row.Get("body"),
		Excerpt:   row.Get("excerpt"),
		Category:  strings.ToLower(row.Get("category")),
		Tags:      parseTags(row.Get("tags")),
		Upvotes:   parseCount(row.Get("upvotes")),
		Downvotes: parseCount(row.Get("downvotes")),
		Answer: domain.Answer{
			Body:      row.Get("answer"),
			Resources: parseResources(row.Get("resources")),
		},
	}

	// The slug is the stable identity when the sheet has no id column.
	if q.ID == "" {
		q.ID = q.Slug
	}

	// Unknown categories are kept, not rejected.
	if q.Category != "" && !domain.IsValidCategory(q.Category) {
		q.Category = domain.CategoryUncategorized
	}

	if raw := row.Get("published_at"); raw != "" {
		ts, err := parseDate(raw)
		if err != nil {
			return domain.Question{}, []domain.Rejection{{
				Row:    rowNum,
				Field:  "published_at",
				Reason: domain.ReasonInvalidDate,
			}}
		}
		q.PublishedAt = ts
	}

	if q.Excerpt == "" {
		q.Excerpt = deriveExcerpt(q.Body)
	}

	if err := n.validator.ValidateQuestion(&q); err != nil {
		return domain.Question{}, validator.ConvertValidationErrors(rowNum, err)
	}

	return q, nil
}

// parseDate accepts the layouts the sheet is known to emit.
func parseDate(raw string) (time.Time, error) {
	var err error
	for _, layout := range dateFormats {
		var ts time.Time
		ts, err = time.Parse(layout, raw)
		if err == nil {
			return ts, nil
		}
	}
	return time.Time{}, err
}

// parseTags splits the comma-delimited tag cell, trimming and dropping
// empties. Display order is preserved; no dedup beyond exact equality
// is attempted.
func parseTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	return tags
}

// parseCount reads a vote count cell. Vote counts are non-critical, so
// absent, non-numeric, or negative values become 0 instead of rejecting
// the row.
func parseCount(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parseResources reads the "Title|URL;Title|URL" resource cell. Malformed
// pairs are dropped.
func parseResources(raw string) []domain.Resource {
	if raw == "" {
		return nil
	}
	var resources []domain.Resource
	for _, pair := range strings.Split(raw, ";") {
		parts := strings.SplitN(pair, "|", 2)
		if len(parts) != 2 {
			continue
		}
		title := strings.TrimSpace(parts[0])
		url := strings.TrimSpace(parts[1])
		if title == "" || url == "" {
			continue
		}
		resources = append(resources, domain.Resource{Title: title, URL: url})
	}
	return resources
}

// deriveExcerpt truncates the body for listing cards.
func deriveExcerpt(body string) string {
	runes := []rune(body)
	if len(runes) <= excerptLength {
		return body
	}
	return strings.TrimSpace(string(runes[:excerptLength]))
}
