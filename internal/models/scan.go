package models

import "time"

// ScanResult represents the outcome of extracting a single scorecard file
type ScanResult struct {
	FilePath  string         `json:"file_path"`
	Size      int64          `json:"size"`
	ScoreCard *ScoreCardData `json:"scorecard,omitempty"`
	Error     error          `json:"-"` // Internal error tracking
	ErrorMsg  string         `json:"error,omitempty"`
	ScanTime  time.Duration  `json:"scan_time"`
	Timestamp time.Time      `json:"timestamp"`
}

// Job represents a file to be extracted by a worker
type Job struct {
	FilePath string
}
