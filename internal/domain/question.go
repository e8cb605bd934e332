package domain

import (
	"strings"
	"time"
)

// Resource is a supporting link attached to an answer.
type Resource struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Answer is the single accepted answer nested in a question.
type Answer struct {
	Body      string     `json:"body"`
	Resources []Resource `json:"resources,omitempty"`
}

// Question represents a normalized Q&A record. Values are immutable once
// built; a refresh produces a new snapshot rather than patching old values.
type Question struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	Excerpt     string    `json:"excerpt,omitempty"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags,omitempty"`
	Upvotes     int       `json:"upvotes"`
	Downvotes   int       `json:"downvotes"`
	PublishedAt time.Time `json:"published_at"`
	Answer      Answer    `json:"answer"`
}

// NetVotes returns upvotes minus downvotes. May be negative.
func (q Question) NetVotes() int {
	return q.Upvotes - q.Downvotes
}

// HasTag reports whether the question carries the tag, case-insensitively.
func (q Question) HasTag(tag string) bool {
	for _, t := range q.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
