package domain

import "time"

type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusSucceeded BatchStatus = "succeeded"
	BatchStatusFailed    BatchStatus = "failed"
)

type ItemFailure struct {
	Index  int
	Update QuoteUpdate
	Error  string
}

type BatchResult struct {
	BatchID    string
	Status     BatchStatus
	Total      int
	Succeeded  int
	Failed     int
	Failures   []ItemFailure
	AcceptedAt time.Time
	FinishedAt time.Time
}
