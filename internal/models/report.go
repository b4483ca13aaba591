package models

import "time"

// Report is an approved analysis saved alongside the essay it grades.
// Reports are immutable once created.
type Report struct {
	StudentName string `json:"studentName"`
	EssayTitle  string `json:"essayTitle"`
	EssayText   string `json:"essayText"`
	Feedback    string `json:"feedback"`
	Score       int    `json:"score"`
	CreatedAt   int64  `json:"createdAt"`
}

// CreatedTime converts the millisecond timestamp to a UTC time.
func (r Report) CreatedTime() time.Time {
	return time.UnixMilli(r.CreatedAt).UTC()
}
