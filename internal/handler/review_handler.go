package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/15-040-GianIvander/tugas-individu3/internal/analysis"
	"github.com/15-040-GianIvander/tugas-individu3/internal/model"
)

const TotalCountHeader = "X-Total-Count"

type ReviewStore interface {
	SaveReview(ctx context.Context, review *model.Review) error
	GetReviews(ctx context.Context, limit, offset int) ([]model.Review, error)
	GetReviewByID(ctx context.Context, id int64) (*model.Review, error)
	GetReviewTotal(ctx context.Context) (int, error)
	Ping(ctx context.Context) error
}

type Analyzer interface {
	Analyze(ctx context.Context, input analysis.ReviewInput) analysis.Result
}

// Requeuer schedules a review for another analysis attempt.
type Requeuer interface {
	Requeue(ctx context.Context, reviewID int64) error
}

// RetryPolicy decides whether another analysis could improve a result.
type RetryPolicy interface {
	Retryable(res analysis.Result) bool
}

type ReviewHandler struct {
	repository ReviewStore
	analyzer   Analyzer
	requeuer   Requeuer
	retry      RetryPolicy
	maxChars   int
}

// NewReviewHandler wires the review endpoints. requeuer may be nil, in which
// case retryable results are stored as they are.
func NewReviewHandler(repository ReviewStore, analyzer Analyzer, requeuer Requeuer, retry RetryPolicy, maxChars int) *ReviewHandler {
	return &ReviewHandler{
		repository: repository,
		analyzer:   analyzer,
		requeuer:   requeuer,
		retry:      retry,
		maxChars:   maxChars,
	}
}

func toReviewResponse(r model.Review) ReviewResponse {
	return ReviewResponse{
		ID:        r.ID,
		Text:      r.Text,
		Sentiment: r.Sentiment,
		KeyPoints: r.KeyPoints,
		CreatedAt: r.CreatedAt.Format(time.RFC3339),
	}
}

func (h *ReviewHandler) AnalyzeReview(c *gin.Context) {
	ctx := c.Request.Context()

	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review text is required"})
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review text is required"})
		return
	}

	if h.maxChars > 0 && utf8.RuneCountInString(req.Text) > h.maxChars {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Review text is too long"})
		return
	}

	slog.InfoContext(ctx, "analyze request received", "chars", utf8.RuneCountInString(req.Text))

	result := h.analyzer.Analyze(ctx, analysis.ReviewInput{Text: req.Text})

	review := model.Review{
		Text:      req.Text,
		Sentiment: string(result.Sentiment),
		KeyPoints: result.KeyPoints,
	}

	if err := h.repository.SaveReview(ctx, &review); err != nil {
		slog.ErrorContext(ctx, "error saving review", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	slog.InfoContext(ctx, "review saved", "review_id", review.ID, "sentiment", review.Sentiment)

	if h.requeuer != nil && h.retry.Retryable(result) {
		if err := h.requeuer.Requeue(ctx, review.ID); err != nil {
			slog.WarnContext(ctx, "error queueing review for reanalysis", "review_id", review.ID, "error", err)
		}
	}

	c.JSON(http.StatusOK, toReviewResponse(review))
}

func (h *ReviewHandler) GetReviews(c *gin.Context) {
	ctx := c.Request.Context()

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	reviews, err := h.repository.GetReviews(ctx, limit, offset)
	if err != nil {
		slog.ErrorContext(ctx, "error fetching reviews", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.repository.GetReviewTotal(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "error fetching review total", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	c.Header(TotalCountHeader, strconv.Itoa(total))

	res := make([]ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		res = append(res, toReviewResponse(r))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReviewHandler) GetReview(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("id")

	reviewID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "invalid review id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review id"})
		return
	}

	review, err := h.repository.GetReviewByID(ctx, reviewID)
	if err != nil {
		slog.ErrorContext(ctx, "error fetching review", "error", err, "review_id", reviewID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if review == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Review not found"})
		return
	}

	c.JSON(http.StatusOK, toReviewResponse(*review))
}

func (h *ReviewHandler) GetHealth(c *gin.Context) {
	if err := h.repository.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 50
		maxLimit     = 500
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
