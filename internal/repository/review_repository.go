package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/15-040-GianIvander/tugas-individu3/internal/model"
)

type ReviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) *ReviewRepository {
	return &ReviewRepository{db: db}
}

func (r *ReviewRepository) SaveReview(ctx context.Context, review *model.Review) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO review(text, sentiment, key_points)
		VALUES($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, review.Text, review.Sentiment, review.KeyPoints).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *ReviewRepository) GetReviews(ctx context.Context, limit, offset int) ([]model.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, text, COALESCE(sentiment, ''), COALESCE(key_points, ''), created_at, updated_at
		FROM review
		ORDER BY id DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []model.Review
	for rows.Next() {
		var rv model.Review
		err := rows.Scan(&rv.ID, &rv.Text, &rv.Sentiment, &rv.KeyPoints, &rv.CreatedAt, &rv.UpdatedAt)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, rv)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reviews, nil
}

func (r *ReviewRepository) GetReviewByID(ctx context.Context, id int64) (*model.Review, error) {
	var rv model.Review
	err := r.db.QueryRowContext(ctx, `
		SELECT id, text, COALESCE(sentiment, ''), COALESCE(key_points, ''), created_at, updated_at
		FROM review
		WHERE id = $1
	`, id).Scan(&rv.ID, &rv.Text, &rv.Sentiment, &rv.KeyPoints, &rv.CreatedAt, &rv.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &rv, nil
}

func (r *ReviewRepository) GetReviewTotal(ctx context.Context) (int, error) {
	var total int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM review`).Scan(&total)
	return total, err
}

func (r *ReviewRepository) UpdateAnalysis(ctx context.Context, id int64, sentiment, keyPoints string) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE review SET sentiment = $1, key_points = $2, updated_at = NOW() WHERE id = $3
	`, sentiment, keyPoints, id)
	return err
}

func (r *ReviewRepository) SaveError(ctx context.Context, reviewID int64, errMsg string, errType string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO analysis_error(review_id, error_message, error_type)
		VALUES($1, $2, $3)
	`, reviewID, errMsg, errType)
	return err
}

func (r *ReviewRepository) GetErrorCount(ctx context.Context, reviewID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM analysis_error
		WHERE review_id = $1
	`, reviewID).Scan(&count)
	return count, err
}

func (r *ReviewRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
