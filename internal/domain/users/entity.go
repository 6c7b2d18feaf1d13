package users

import (
	"strings"
	"time"
)

// DateLayout is the stored entry timestamp format: UTC, microsecond
// precision, no zone suffix.
const DateLayout = "2006-01-02T15:04:05.000000"

// Timestamp marshals as a microsecond-precision UTC ISO-8601 string.
type Timestamp time.Time

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Time(t).UTC().Format(DateLayout) + `"`), nil
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	parsed, err := time.Parse(DateLayout, s)
	if err != nil {
		// zone-suffixed values can show up when records come from a SQL driver
		parsed, err = time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
	}
	*t = Timestamp(parsed.UTC())
	return nil
}

func (t Timestamp) Time() time.Time { return time.Time(t) }

// Analysis is one stored resume-to-roles analysis result. Entries are
// immutable once appended; the analysis text is kept verbatim as the model
// returned it.
type Analysis struct {
	FileName string    `json:"file_name"`
	Date     Timestamp `json:"date"`
	Analysis string    `json:"analysis"`
}

// User aggregates a person's identity and their append-ordered analysis
// history. The record is keyed by the normalized email; Name keeps the value
// from the first submission.
type User struct {
	Name     string     `json:"name"`
	Email    string     `json:"email"`
	Analyses []Analysis `json:"cv_analysis"`
}

// NormalizeEmail lower-cases an email address for use as a storage key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
