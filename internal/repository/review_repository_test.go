package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-playground/assert/v2"

	"github.com/15-040-GianIvander/tugas-individu3/internal/model"
)

func newMockRepo(t *testing.T) (*ReviewRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewReviewRepository(db), mock
}

var reviewColumns = []string{"id", "text", "sentiment", "key_points", "created_at", "updated_at"}

func TestSaveReview(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO review(text, sentiment, key_points)")).
		WithArgs("Great product.", "positive", "- Great product").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(7), now, now))

	rv := &model.Review{Text: "Great product.", Sentiment: "positive", KeyPoints: "- Great product"}
	err := repo.SaveReview(context.Background(), rv)

	assert.Equal(t, nil, err)
	assert.Equal(t, int64(7), rv.ID)
	assert.Equal(t, now, rv.CreatedAt)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

func TestSaveReview_Error(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO review")).
		WillReturnError(errors.New("connection reset"))

	err := repo.SaveReview(context.Background(), &model.Review{Text: "x"})
	assert.NotEqual(t, nil, err)
}

func TestGetReviews(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM review")).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows(reviewColumns).
			AddRow(int64(2), "second", "negative", "- b", now, now).
			AddRow(int64(1), "first", "positive", "- a", now, now))

	reviews, err := repo.GetReviews(context.Background(), 10, 0)

	assert.Equal(t, nil, err)
	assert.Equal(t, 2, len(reviews))
	assert.Equal(t, int64(2), reviews[0].ID)
	assert.Equal(t, "negative", reviews[0].Sentiment)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

func TestGetReviewByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(sqlmock.NewRows(reviewColumns))

	rv, err := repo.GetReviewByID(context.Background(), 42)

	assert.Equal(t, nil, err)
	assert.Equal(t, true, rv == nil)
}

func TestGetReviewByID_Found(t *testing.T) {
	repo, mock := newMockRepo(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = $1")).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(reviewColumns).AddRow(int64(3), "text", "unknown", "- t", now, now))

	rv, err := repo.GetReviewByID(context.Background(), 3)

	assert.Equal(t, nil, err)
	assert.Equal(t, "unknown", rv.Sentiment)
}

func TestUpdateAnalysis(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE review SET sentiment = $1, key_points = $2")).
		WithArgs("positive", "- a", int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateAnalysis(context.Background(), 5, "positive", "- a")

	assert.Equal(t, nil, err)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

func TestSaveErrorAndCount(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO analysis_error")).
		WithArgs(int64(5), "sentiment unknown", model.ErrorTypeDegraded).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM analysis_error")).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	assert.Equal(t, nil, repo.SaveError(context.Background(), 5, "sentiment unknown", model.ErrorTypeDegraded))

	n, err := repo.GetErrorCount(context.Background(), 5)
	assert.Equal(t, nil, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}

func TestGetReviewTotal(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM review")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	total, err := repo.GetReviewTotal(context.Background())

	assert.Equal(t, nil, err)
	assert.Equal(t, 12, total)
	assert.Equal(t, nil, mock.ExpectationsWereMet())
}
