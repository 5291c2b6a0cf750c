package socrata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRawRecord_StrProbesAliasesInOrder(t *testing.T) {
	rec := RawRecord{
		"courtindexnumber": "legacy-123",
	}

	// Primary name missing, legacy fallback present.
	assert.Equal(t, "legacy-123", rec.Str("court_index_number", "courtindexnumber"))

	rec["court_index_number"] = "primary-456"
	assert.Equal(t, "primary-456", rec.Str("court_index_number", "courtindexnumber"))
}

func TestRawRecord_StrSkipsEmptyValues(t *testing.T) {
	rec := RawRecord{
		"boroid": "",
		"boro":   "3",
	}

	assert.Equal(t, "3", rec.Str("boroid", "boro"))
	assert.Equal(t, "", rec.Str("missing", "alsomissing"))
}

func TestRawRecord_StrHandlesNumericValues(t *testing.T) {
	rec := RawRecord{"block": float64(1500)}

	assert.Equal(t, "1500", rec.Str("block"))
}

func TestRawRecord_Int(t *testing.T) {
	tests := []struct {
		name     string
		value    interface{}
		expected *int
	}{
		{"plain integer string", "42", intPtr(42)},
		{"decimal string truncates", "42.9", intPtr(42)},
		{"json number", float64(7), intPtr(7)},
		{"garbage", "n/a", nil},
		{"empty", "", nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := RawRecord{"field": tt.value}
			got := rec.Int("field")
			if tt.expected == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, *tt.expected, *got)
		})
	}
}

func TestRawRecord_Float(t *testing.T) {
	rec := RawRecord{"latitude": "40.7128"}

	got := rec.Float("latitude")
	require.NotNil(t, got)
	assert.InDelta(t, 40.7128, *got, 0.0001)

	assert.Nil(t, rec.Float("longitude"))
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  *time.Time
	}{
		{"socrata timestamp", "2023-06-15T10:30:00.000", timePtr(2023, 6, 15)},
		{"date only", "2023-06-15", timePtr(2023, 6, 15)},
		{"zoned", "2023-06-15T10:30:00Z", timePtr(2023, 6, 15)},
		{"empty", "", nil},
		{"garbage", "not a date", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.input)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assert.Equal(t, tt.want.Year(), got.Year())
			assert.Equal(t, tt.want.Month(), got.Month())
			assert.Equal(t, tt.want.Day(), got.Day())
		})
	}
}

func intPtr(n int) *int { return &n }

func timePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}
