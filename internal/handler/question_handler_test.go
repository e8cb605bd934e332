package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/domain"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testQuestions() []domain.Question {
	return []domain.Question{
		{
			ID:          "q1",
			Slug:        "fees-breakdown",
			Title:       "What are the fees?",
			Body:        "Full fee structure explained",
			Excerpt:     "Full fee structure explained",
			Category:    "fees",
			Tags:        []string{"fees", "cost"},
			Upvotes:     5,
			Downvotes:   1,
			PublishedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			Answer:      domain.Answer{Body: "It depends on the program"},
		},
		{
			ID:          "q2",
			Slug:        "is-it-worth-it",
			Title:       "Is the program worth it?",
			Body:        "Honest review wanted",
			Excerpt:     "Honest review wanted",
			Category:    "reviews",
			Tags:        []string{"worth"},
			Upvotes:     2,
			Downvotes:   0,
			PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
			Answer:      domain.Answer{Body: "Mostly yes"},
		},
	}
}

func newTestRouter(questions []domain.Question) (*gin.Engine, *repository.Store) {
	store := repository.NewStore()
	if questions != nil {
		store.Swap(repository.BuildSnapshot(questions, 1, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)))
	}

	h := NewQuestionHandler(store)
	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.GET("/questions", h.List)
		v1.GET("/questions/:slug", h.Get)
		v1.GET("/categories", h.Categories)
		v1.GET("/slugs", h.Slugs)
	}
	return router, store
}

func doRequest(t *testing.T, router *gin.Engine, path string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w, body
}

func TestListQuestions_Defaults(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), body["total"])
	assert.Equal(t, false, body["stale"])

	// Default sort is newest first.
	questions := body["questions"].([]interface{})
	require.Len(t, questions, 2)
	first := questions[0].(map[string]interface{})
	assert.Equal(t, "is-it-worth-it", first["slug"])

	state := body["view_state"].(map[string]interface{})
	assert.Equal(t, "newest", state["sort_by"])
	assert.Empty(t, state["open_slug"])
}

func TestListQuestions_SearchFilter(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?search=FEES")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	questions := body["questions"].([]interface{})
	require.Len(t, questions, 1)
	assert.Equal(t, "fees-breakdown", questions[0].(map[string]interface{})["slug"])
}

func TestListQuestions_CategoryFilter(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?category=reviews")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])
	assert.Equal(t, "reviews", body["view_state"].(map[string]interface{})["category_filter"])
}

func TestListQuestions_SortParam(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?sort=votes")

	require.Equal(t, http.StatusOK, w.Code)
	questions := body["questions"].([]interface{})
	require.Len(t, questions, 2)
	// fees-breakdown has net +4, is-it-worth-it +2.
	assert.Equal(t, "fees-breakdown", questions[0].(map[string]interface{})["slug"])
	assert.Equal(t, "votes", body["view_state"].(map[string]interface{})["sort_by"])
}

func TestListQuestions_InvalidSortIgnored(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?sort=bogus")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "newest", body["view_state"].(map[string]interface{})["sort_by"])
}

func TestListQuestions_OpenSlug(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?q=fees-breakdown")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fees-breakdown", body["view_state"].(map[string]interface{})["open_slug"])

	// A q value that resolves to nothing degrades to a closed modal.
	w, body = doRequest(t, router, "/api/v1/questions?q=deleted-question")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["view_state"].(map[string]interface{})["open_slug"])
}

func TestListQuestions_NoMatchesReturnsEmptyList(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions?search=zzz-no-such")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["total"])
	questions, ok := body["questions"].([]interface{})
	require.True(t, ok, "questions must be a JSON array, not null")
	assert.Empty(t, questions)
}

func TestListQuestions_NotReady(t *testing.T) {
	router, _ := newTestRouter(nil)

	w, body := doRequest(t, router, "/api/v1/questions")

	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "snapshot not ready", body["error"])
}

func TestGetQuestion(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions/fees-breakdown")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "fees-breakdown", body["slug"])
	assert.Equal(t, "What are the fees?", body["title"])
	answer := body["answer"].(map[string]interface{})
	assert.Equal(t, "It depends on the program", answer["body"])
}

func TestGetQuestion_NotFound(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/questions/no-such-slug")

	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "question not found", body["error"])
}

func TestCategories(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/categories")
	require.Equal(t, http.StatusOK, w.Code)

	categories := body["categories"].([]interface{})
	require.Len(t, categories, len(domain.Categories))

	byKey := make(map[string]map[string]interface{})
	for _, c := range categories {
		entry := c.(map[string]interface{})
		byKey[entry["key"].(string)] = entry
	}

	assert.Equal(t, float64(1), byKey["fees"]["count"])
	assert.Equal(t, "Fees & Pricing", byKey["fees"]["label"])
	assert.Equal(t, float64(1), byKey["reviews"]["count"])
	assert.Equal(t, float64(0), byKey["placements"]["count"], "empty categories still appear")
}

func TestSlugs(t *testing.T) {
	router, _ := newTestRouter(testQuestions())

	w, body := doRequest(t, router, "/api/v1/slugs")

	require.Equal(t, http.StatusOK, w.Code)
	slugs := body["slugs"].([]interface{})
	require.Len(t, slugs, 2)
	// Source order, not sorted.
	assert.Equal(t, "fees-breakdown", slugs[0])
	assert.Equal(t, "is-it-worth-it", slugs[1])
}

func TestList_ReflectsSnapshotSwap(t *testing.T) {
	router, store := newTestRouter(testQuestions())

	_, body := doRequest(t, router, "/api/v1/questions")
	assert.Equal(t, float64(2), body["total"])

	require.True(t, store.Swap(repository.BuildSnapshot(testQuestions()[:1], 2, time.Now())))

	_, body = doRequest(t, router, "/api/v1/questions")
	assert.Equal(t, float64(1), body["total"])
}
