package host

import (
	"github.com/quotabar/quotabar/internal/parsers"
)

// readingFields is the interpreted slice of a payload: the percent and reset
// values that feed reset detection and charting. primaryPercent is not here;
// it is always taken verbatim from the payload regardless of strategy.
type readingFields struct {
	SessionPercent      *float64
	WeeklyAllPercent    *float64
	WeeklySonnetPercent *float64
	SessionReset        string
	WeeklyReset         string
}

func (f readingFields) empty() bool {
	return f.SessionPercent == nil &&
		f.WeeklyAllPercent == nil &&
		f.WeeklySonnetPercent == nil &&
		f.SessionReset == "" &&
		f.WeeklyReset == ""
}

// extractionStrategies are tried in order; the first one that yields any
// field wins. Keeping each one pure makes new payload shapes a one-line
// addition instead of another branch in the router.
var extractionStrategies = []func(ReadingPayload) readingFields{
	extractFlattened,
	extractSections,
	extractRawText,
}

func extractReadingFields(p ReadingPayload) readingFields {
	for _, strategy := range extractionStrategies {
		if fields := strategy(p); !fields.empty() {
			return fields
		}
	}
	return readingFields{}
}

// extractFlattened reads the preferred shape: fields directly on the payload.
func extractFlattened(p ReadingPayload) readingFields {
	return readingFields{
		SessionPercent:      p.SessionPercent,
		WeeklyAllPercent:    p.WeeklyAllPercent,
		WeeklySonnetPercent: p.WeeklySonnetPercent,
		SessionReset:        p.SessionReset,
		WeeklyReset:         p.WeeklyReset,
	}
}

// extractSections reads the scraper's section list, keyed by quota bucket.
func extractSections(p ReadingPayload) readingFields {
	var fields readingFields
	for _, section := range p.Sections {
		switch section.Type {
		case sectionAllModels:
			fields.WeeklyAllPercent = section.PercentUsed
			fields.WeeklyReset = section.ResetTime
		case sectionSonnetOnly:
			fields.WeeklySonnetPercent = section.PercentUsed
		}
	}
	return fields
}

// extractRawText is the last resort: fish a session reset phrase out of the
// raw scraped page text.
func extractRawText(p ReadingPayload) readingFields {
	return readingFields{SessionReset: parsers.ExtractSessionReset(p.RawText)}
}
