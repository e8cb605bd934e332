package validator

import (
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
)

var slugRegex = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// validCategories is derived from the closed category set in domain.
var validCategories = func() []interface{} {
	keys := make([]interface{}, 0, len(domain.Categories))
	for key := range domain.Categories {
		keys = append(keys, key)
	}
	return keys
}()

// Validator provides validation methods for domain entities.
type Validator struct{}

// NewValidator creates a new Validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateQuestion validates a normalized Question. The normalizer maps
// unknown categories to the uncategorized key before calling this, so a
// category outside the closed set here means a programming error upstream.
func (v *Validator) ValidateQuestion(q *domain.Question) error {
	err := validation.ValidateStruct(q,
		validation.Field(&q.Slug,
			validation.Required.Error("slug_required"),
			validation.Match(slugRegex).Error("invalid_slug_format"),
		),
		validation.Field(&q.Title,
			validation.Required.Error("title_required"),
		),
		validation.Field(&q.Body,
			validation.Required.Error("body_required"),
		),
		validation.Field(&q.Category,
			validation.Required.Error("category_required"),
			validation.In(validCategories...).Error("invalid_category"),
		),
		validation.Field(&q.PublishedAt,
			validation.Required.Error("published_at_required"),
		),
		validation.Field(&q.Upvotes,
			validation.Min(0).Error("negative_upvotes"),
		),
		validation.Field(&q.Downvotes,
			validation.Min(0).Error("negative_downvotes"),
		),
	)
	if err != nil {
		return err
	}

	// The answer is a nested entity with exactly one required field.
	if strings.TrimSpace(q.Answer.Body) == "" {
		return validation.Errors{
			"answer": validation.NewError("answer_required", "answer_required"),
		}
	}

	for _, res := range q.Answer.Resources {
		if res.Title == "" || res.URL == "" {
			return validation.Errors{
				"resources": validation.NewError("invalid_resource", "invalid_resource"),
			}
		}
	}

	return nil
}

// ConvertValidationErrors converts ozzo validation errors to domain Rejections.
func ConvertValidationErrors(rowNum int, err error) []domain.Rejection {
	var rejections []domain.Rejection

	if ve, ok := err.(validation.Errors); ok {
		for field, fieldErr := range ve {
			rejections = append(rejections, domain.Rejection{
				Row:    rowNum,
				Field:  field,
				Reason: fieldErr.Error(),
			})
		}
	} else if err != nil {
		rejections = append(rejections, domain.Rejection{
			Row:    rowNum,
			Field:  "unknown",
			Reason: err.Error(),
		})
	}

	return rejections
}
