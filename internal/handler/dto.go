package handler

type AnalyzeRequest struct {
	Text string `json:"text" binding:"required"`
}

type ReviewResponse struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	Sentiment string `json:"sentiment"`
	KeyPoints string `json:"key_points"`
	CreatedAt string `json:"created_at"`
}
