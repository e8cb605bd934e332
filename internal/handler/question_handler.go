package handler

import (
	"errors"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/middleware"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/query"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/viewstate"
)

// QuestionHandler serves the question browsing API from the current snapshot.
// Every request reads one snapshot reference and works against it for the
// whole request, so a concurrent swap never produces a torn response.
type QuestionHandler struct {
	store *repository.Store
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(store *repository.Store) *QuestionHandler {
	return &QuestionHandler{store: store}
}

// QuestionListResponse represents the response for the question list endpoint.
type QuestionListResponse struct {
	ViewState viewstate.State   `json:"view_state"`
	Total     int               `json:"total"`
	Stale     bool              `json:"stale"`
	FetchedAt string            `json:"fetched_at"`
	Questions []domain.Question `json:"questions"`
}

// CategoryResponse represents one category with its question count.
type CategoryResponse struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// List handles GET /api/v1/questions.
// Query parameters mirror the browsing URL: search, category, q (open slug),
// plus sort which is session state and never round-trips through share URLs.
func (h *QuestionHandler) List(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	state := viewstate.Parse(c.Request.URL.Query(), snap)
	if s := c.Query("sort"); domain.IsValidSort(s) {
		state.SortBy = domain.SortOption(s)
	}

	questions := query.Apply(snap, query.Params{
		Search:   state.SearchQuery,
		Category: state.CategoryFilter,
		Sort:     state.SortBy,
	})

	c.JSON(http.StatusOK, QuestionListResponse{
		ViewState: state,
		Total:     len(questions),
		Stale:     snap.Stale(),
		FetchedAt: snap.FetchedAt().Format(TimeFormat),
		Questions: questions,
	})
}

// Get handles GET /api/v1/questions/:slug.
func (h *QuestionHandler) Get(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	q, err := snap.FindBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, repository.ErrSlugNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, q)
}

// Categories handles GET /api/v1/categories. All known categories are
// returned, zero-count ones included, so the filter UI stays complete even
// when a category is momentarily empty.
func (h *QuestionHandler) Categories(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	counts := make(map[string]int)
	for _, q := range snap.All() {
		counts[q.Category]++
	}

	categories := make([]CategoryResponse, 0, len(domain.Categories))
	for key, label := range domain.Categories {
		categories = append(categories, CategoryResponse{
			Key:   key,
			Label: label,
			Count: counts[key],
		})
	}
	sort.Slice(categories, func(i, j int) bool {
		return categories[i].Key < categories[j].Key
	})

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

// Slugs handles GET /api/v1/slugs, the enumeration used by static page
// generation and sitemaps.
func (h *QuestionHandler) Slugs(c *gin.Context) {
	snap, ok := h.snapshot(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"slugs": snap.Slugs()})
}

// snapshot loads the current snapshot, answering 503 when the service has
// not completed its first refresh yet.
func (h *QuestionHandler) snapshot(c *gin.Context) (*repository.Snapshot, bool) {
	snap := h.store.Load()
	if snap == nil {
		middleware.GetLogger(c).Warn("request before first snapshot",
			"path", c.FullPath())
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "snapshot not ready"})
		return nil, false
	}
	return snap, true
}
