package users

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "jane@example.com", NormalizeEmail("Jane@Example.com"))
	assert.Equal(t, "jane@example.com", NormalizeEmail("  jane@example.com "))
	assert.Equal(t, "jane@example.com", NormalizeEmail("jane@example.com"))
}

func TestTimestampMarshalsAsMicrosecondUTC(t *testing.T) {
	ts := Timestamp(time.Date(2026, 8, 30, 9, 15, 42, 123456000, time.UTC))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2026-08-30T09:15:42.123456"`, string(data))
}

func TestTimestampRoundTrip(t *testing.T) {
	orig := Timestamp(time.Date(2026, 1, 2, 3, 4, 5, 678901000, time.UTC))

	data, err := json.Marshal(orig)
	require.NoError(t, err)

	var parsed Timestamp
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.True(t, orig.Time().Equal(parsed.Time()))
}

func TestTimestampAcceptsRFC3339(t *testing.T) {
	var parsed Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2026-08-30T09:15:42.123456Z"`), &parsed))
	assert.Equal(t, 2026, parsed.Time().Year())
}

func TestAnalysisJSONFieldNames(t *testing.T) {
	u := User{
		Name:  "Jane Doe",
		Email: "Jane@Example.com",
		Analyses: []Analysis{
			{FileName: "cv.pdf", Date: Timestamp(time.Now()), Analysis: "looks good"},
		},
	}

	data, err := json.Marshal(u)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "cv_analysis")

	entries := doc["cv_analysis"].([]any)
	entry := entries[0].(map[string]any)
	assert.Contains(t, entry, "file_name")
	assert.Contains(t, entry, "date")
	assert.Contains(t, entry, "analysis")
}
