package host

import "testing"

func floatPtr(v float64) *float64 { return &v }

func TestExtract_FlattenedFieldsWin(t *testing.T) {
	payload := ReadingPayload{
		SessionPercent:   floatPtr(12),
		WeeklyAllPercent: floatPtr(34),
		WeeklyReset:      "Thu 10:00 AM",
		Sections: []Section{
			{Type: "all_models", PercentUsed: floatPtr(99), ResetTime: "in 1 hr"},
		},
	}

	fields := extractReadingFields(payload)
	if fields.WeeklyAllPercent == nil || *fields.WeeklyAllPercent != 34 {
		t.Fatalf("weekly percent = %v, want flattened 34", fields.WeeklyAllPercent)
	}
	if fields.WeeklyReset != "Thu 10:00 AM" {
		t.Fatalf("weekly reset = %q, want flattened value", fields.WeeklyReset)
	}
}

func TestExtract_SectionsFallback(t *testing.T) {
	payload := ReadingPayload{
		Sections: []Section{
			{Type: "all_models", PercentUsed: floatPtr(61), ResetTime: "Thu 10:00 AM"},
			{Type: "sonnet_only", PercentUsed: floatPtr(22), ResetTime: "Thu 10:00 AM"},
			{Type: "opus_only", PercentUsed: floatPtr(99)},
		},
	}

	fields := extractReadingFields(payload)
	if fields.WeeklyAllPercent == nil || *fields.WeeklyAllPercent != 61 {
		t.Fatalf("weekly percent = %v, want 61", fields.WeeklyAllPercent)
	}
	if fields.WeeklySonnetPercent == nil || *fields.WeeklySonnetPercent != 22 {
		t.Fatalf("sonnet percent = %v, want 22", fields.WeeklySonnetPercent)
	}
	if fields.WeeklyReset != "Thu 10:00 AM" {
		t.Fatalf("weekly reset = %q", fields.WeeklyReset)
	}
	if fields.SessionPercent != nil {
		t.Fatalf("session percent = %v, want nil", fields.SessionPercent)
	}
}

func TestExtract_RawTextLastResort(t *testing.T) {
	payload := ReadingPayload{
		RawText: "Session usage · Resets in 3 hr 15 min",
	}

	fields := extractReadingFields(payload)
	if fields.SessionReset != "in 3 hr 15 min" {
		t.Fatalf("session reset = %q, want extracted phrase", fields.SessionReset)
	}
	if fields.WeeklyAllPercent != nil {
		t.Fatalf("weekly percent = %v, want nil", fields.WeeklyAllPercent)
	}
}

func TestExtract_NothingYieldsEmptyFields(t *testing.T) {
	fields := extractReadingFields(ReadingPayload{RawText: "no usage info here"})
	if !fields.empty() {
		t.Fatalf("fields = %+v, want empty", fields)
	}
}
