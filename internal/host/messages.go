package host

import (
	"encoding/json"

	"github.com/quotabar/quotabar/internal/store"
)

// Message kinds accepted over the native-messaging wire.
const (
	TypeRecordReading  = "record-reading"
	TypeFetchAccounts  = "fetch-accounts"
	TypeFetchHistory   = "fetch-history"
	TypeReorderAccount = "reorder-account"
)

// DefaultAccountID is used when the extension could not identify the session.
const DefaultAccountID = "default"

// Request is the decoded inbound message. Data stays raw so the verbatim
// payload can be persisted for forensics before any interpretation happens.
type Request struct {
	Type      string          `json:"type"`
	AccountID string          `json:"accountId"`
	Limit     int             `json:"limit"`
	Data      json.RawMessage `json:"data"`
}

// ReadingPayload is the flexible shape of a record-reading data object. All
// percent fields are optional; Sections and RawText feed the fallback
// extraction strategies when the flattened fields are absent.
type ReadingPayload struct {
	AccountName         string    `json:"accountName"`
	Email               string    `json:"email"`
	Plan                string    `json:"plan"`
	Timestamp           string    `json:"timestamp"`
	PrimaryPercent      *float64  `json:"primaryPercent"`
	SessionPercent      *float64  `json:"sessionPercent"`
	WeeklyAllPercent    *float64  `json:"weeklyAllPercent"`
	WeeklySonnetPercent *float64  `json:"weeklySonnetPercent"`
	SessionReset        string    `json:"sessionReset"`
	WeeklyReset         string    `json:"weeklyReset"`
	Sections            []Section `json:"sections"`
	RawText             string    `json:"rawText"`
}

type Section struct {
	Type        string   `json:"type"`
	PercentUsed *float64 `json:"percentUsed"`
	ResetTime   string   `json:"resetTime"`
}

const (
	sectionAllModels  = "all_models"
	sectionSonnetOnly = "sonnet_only"
)

// Response is the single reply frame. Exactly one is written per invocation,
// success or failure.
type Response struct {
	Success       bool             `json:"success"`
	Error         string           `json:"error,omitempty"`
	AccountID     string           `json:"accountId,omitempty"`
	Percent       *float64         `json:"percent,omitempty"`
	ResetDetected *bool            `json:"resetDetected,omitempty"`
	DBPath        string           `json:"dbPath,omitempty"`
	Data          *AccountsPayload `json:"data,omitempty"`
	History       *[]store.Reading `json:"history,omitempty"`
}

type AccountsPayload struct {
	Accounts []store.AccountSummary `json:"accounts"`
	DBPath   string                 `json:"dbPath"`
}

func Failure(msg string) Response {
	return Response{Success: false, Error: msg}
}
