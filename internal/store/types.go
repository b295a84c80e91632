package store

import "time"

// Account is the mutable registry row for one tracked subscription.
// ID is derived by the scraper (session cookie, email local-part, or display
// name) and stays stable across readings.
type Account struct {
	ID          string `json:"id"`
	AccountName string `json:"accountName,omitempty"`
	Email       string `json:"email,omitempty"`
	Plan        string `json:"plan,omitempty"`
	LastUpdated string `json:"lastUpdated"`
	SortOrder   int    `json:"sortOrder"`
}

// AccountSummary is an Account annotated with its most recent primary percent.
type AccountSummary struct {
	Account
	LatestPercent *float64 `json:"latestPercent"`
}

// Reading is one timestamped observation of usage percentages. Each percent
// is independently optional: nil means "not observed this reading", not zero.
type Reading struct {
	ID                  int64     `json:"id"`
	AccountID           string    `json:"accountId"`
	Timestamp           time.Time `json:"timestamp"`
	PrimaryPercent      *float64  `json:"primaryPercent"`
	SessionPercent      *float64  `json:"sessionPercent"`
	WeeklyAllPercent    *float64  `json:"weeklyAllPercent"`
	WeeklySonnetPercent *float64  `json:"weeklySonnetPercent"`
	SessionReset        string    `json:"sessionReset,omitempty"`
	WeeklyReset         string    `json:"weeklyReset,omitempty"`
	RawData             string    `json:"rawData,omitempty"`
	IsSynthetic         bool      `json:"isSynthetic"`
}
