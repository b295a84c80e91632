// Package host interprets one native-messaging request and produces exactly
// one response. The process serving it is spawned fresh per message by the
// browser, so there is no session state to manage here.
package host

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/quotabar/quotabar/internal/reset"
	"github.com/quotabar/quotabar/internal/store"
)

const defaultHistoryLimit = 100

type Router struct {
	store    *store.Store
	detector *reset.Detector
	dbPath   string
	now      func() time.Time
}

func NewRouter(st *store.Store, detector *reset.Detector, dbPath string) *Router {
	return &Router{store: st, detector: detector, dbPath: dbPath, now: time.Now}
}

// Handle dispatches a decoded frame. Every outcome, including a payload that
// does not parse, comes back as a Response: the caller is blocked on stdout
// and silence is indistinguishable from a hang.
func (rt *Router) Handle(ctx context.Context, raw json.RawMessage) Response {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return Failure(fmt.Sprintf("parse message: %v", err))
	}

	switch req.Type {
	case TypeRecordReading:
		return rt.handleRecordReading(ctx, req)
	case TypeFetchAccounts:
		return rt.handleFetchAccounts(ctx)
	case TypeFetchHistory:
		return rt.handleFetchHistory(ctx, req)
	case TypeReorderAccount:
		return rt.handleReorderAccount(ctx, req)
	default:
		return Failure("Unknown message type")
	}
}

func (rt *Router) handleRecordReading(ctx context.Context, req Request) Response {
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		accountID = DefaultAccountID
	}

	var payload ReadingPayload
	if len(req.Data) > 0 {
		if err := json.Unmarshal(req.Data, &payload); err != nil {
			return Failure(fmt.Sprintf("parse reading data: %v", err))
		}
	}

	ts := rt.readingTimestamp(payload.Timestamp)
	if err := rt.store.UpsertAccount(ctx, accountID, payload.AccountName, payload.Email, payload.Plan, ts); err != nil {
		return Failure(err.Error())
	}

	fields := extractReadingFields(payload)
	reading := store.Reading{
		AccountID:           accountID,
		Timestamp:           ts,
		PrimaryPercent:      payload.PrimaryPercent,
		SessionPercent:      fields.SessionPercent,
		WeeklyAllPercent:    fields.WeeklyAllPercent,
		WeeklySonnetPercent: fields.WeeklySonnetPercent,
		SessionReset:        fields.SessionReset,
		WeeklyReset:         fields.WeeklyReset,
		RawData:             string(req.Data),
	}

	detected, err := rt.detector.Process(ctx, reading)
	if err != nil {
		return Failure(err.Error())
	}
	if err := rt.store.InsertReading(ctx, reading); err != nil {
		return Failure(err.Error())
	}
	if detected {
		log.Printf("[host] reset detected for %s at %s", accountID, ts.UTC().Format(time.RFC3339))
	}

	return Response{
		Success:       true,
		AccountID:     accountID,
		Percent:       payload.PrimaryPercent,
		ResetDetected: &detected,
		DBPath:        rt.dbPath,
	}
}

func (rt *Router) handleFetchAccounts(ctx context.Context) Response {
	accounts, err := rt.store.AllAccounts(ctx)
	if err != nil {
		return Failure(err.Error())
	}
	return Response{
		Success: true,
		Data:    &AccountsPayload{Accounts: accounts, DBPath: rt.dbPath},
	}
}

func (rt *Router) handleFetchHistory(ctx context.Context, req Request) Response {
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		accountID = DefaultAccountID
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	history, err := rt.store.History(ctx, accountID, limit)
	if err != nil {
		return Failure(err.Error())
	}
	if history == nil {
		history = []store.Reading{}
	}
	// A pointer so the key is always present for this kind, even when the
	// list is empty, and absent for every other kind.
	return Response{Success: true, History: &history}
}

func (rt *Router) handleReorderAccount(ctx context.Context, req Request) Response {
	accountID := strings.TrimSpace(req.AccountID)
	if accountID == "" {
		return Failure("accountId required")
	}

	ids, err := rt.store.AccountIDs(ctx)
	if err != nil {
		return Failure(err.Error())
	}
	if !lo.Contains(ids, accountID) {
		return Failure(fmt.Sprintf("unknown account %q", accountID))
	}

	if err := rt.store.ReorderToFront(ctx, accountID); err != nil {
		return Failure(err.Error())
	}
	return Response{Success: true, AccountID: accountID}
}

// readingTimestamp parses the scraper-supplied timestamp, falling back to
// the host clock when it is absent or malformed.
func (rt *Router) readingTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return rt.now().UTC()
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return rt.now().UTC()
}
