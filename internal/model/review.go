package model

import "time"

const (
	ErrorTypeDegraded = "degraded_result"
)

type Review struct {
	ID        int64
	Text      string
	Sentiment string
	KeyPoints string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type AnalysisError struct {
	ID           int64
	ReviewID     int64
	ErrorMessage string
	ErrorType    string
	CreatedAt    time.Time
}
