package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FieldVariants(t *testing.T) {
	tests := []struct {
		name   string
		record RawRecord
		check  func(t *testing.T, s Sample)
	}{
		{
			name:   "primary names",
			record: RawRecord{"do": 6.2, "bod": 2.1, "ph": 7.4, "total_coliform": 120.0},
			check: func(t *testing.T, s Sample) {
				require.Equal(t, 4, s.Completeness())
				assert.Equal(t, 6.2, *s.DO)
				assert.Equal(t, 2.1, *s.BOD)
				assert.Equal(t, 7.4, *s.PH)
				assert.Equal(t, 120.0, *s.Coliforms)
			},
		},
		{
			name:   "alternate names",
			record: RawRecord{"Dissolved_Oxygen": "5.8", "B_O_D": "3", "P_H": "7.1", "Coliform": "900"},
			check: func(t *testing.T, s Sample) {
				require.Equal(t, 4, s.Completeness())
				assert.Equal(t, 5.8, *s.DO)
				assert.Equal(t, 3.0, *s.BOD)
				assert.Equal(t, 7.1, *s.PH)
				assert.Equal(t, 900.0, *s.Coliforms)
			},
		},
		{
			name:   "case and whitespace in keys",
			record: RawRecord{" DO ": "4.0", "PH": 8.0},
			check: func(t *testing.T, s Sample) {
				require.NotNil(t, s.DO)
				assert.Equal(t, 4.0, *s.DO)
				require.NotNil(t, s.PH)
				assert.Equal(t, 8.0, *s.PH)
				assert.Nil(t, s.BOD)
				assert.Nil(t, s.Coliforms)
			},
		},
		{
			name:   "first variant wins over later ones",
			record: RawRecord{"do": "6", "dissolved_oxygen": "99"},
			check: func(t *testing.T, s Sample) {
				require.NotNil(t, s.DO)
				assert.Equal(t, 6.0, *s.DO)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, Normalize(tt.record))
		})
	}
}

func TestNormalize_NumericCoercion(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  *float64
	}{
		{"plain float", 6.5, f(6.5)},
		{"integer", 7, f(7)},
		{"string with unit", "6.5 mg/l", f(6.5)},
		{"string with thousands separator", "1,600", f(1600)},
		{"scientific notation", "1.6e3", f(1600)},
		{"negative value", "-2", f(-2)},
		{"sentinel NA", "NA", nil},
		{"empty string", "", nil},
		{"garbage after scrub", "++--", nil},
		{"nil value", nil, nil},
		{"boolean", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Normalize(RawRecord{"do": tt.value})
			if tt.want == nil {
				assert.Nil(t, s.DO)
				return
			}
			require.NotNil(t, s.DO)
			assert.Equal(t, *tt.want, *s.DO)
		})
	}
}

func TestNormalize_Timestamp(t *testing.T) {
	s := Normalize(RawRecord{"sample_date": " 2024-03-12 ", "do": "6"})
	assert.Equal(t, "2024-03-12", s.Timestamp)

	s = Normalize(RawRecord{"date": "Jan-2024", "sample_date": "ignored"})
	assert.Equal(t, "Jan-2024", s.Timestamp, "date outranks sample_date")

	s = Normalize(RawRecord{"do": "6"})
	assert.Empty(t, s.Timestamp)
}

func TestSelectBest_MostCompleteWins(t *testing.T) {
	records := []RawRecord{
		{"do": "6.0"},
		{"do": "5.0", "bod": "2.0", "ph": "7.2"},
		{"ph": "7.0", "bod": "1.0"},
	}

	best, ok := SelectBest(records)
	require.True(t, ok)
	assert.Equal(t, 3, best.Completeness())
	assert.Equal(t, 5.0, *best.DO)
}

func TestSelectBest_TieGoesToFirstSeen(t *testing.T) {
	records := []RawRecord{
		{"do": "6.0", "ph": "7.0"},
		{"bod": "2.0", "total_coliform": "50"},
	}

	best, ok := SelectBest(records)
	require.True(t, ok)
	assert.NotNil(t, best.DO, "first record should win the tie")
	assert.Nil(t, best.BOD)
}

func TestSelectBest_EmptyInput(t *testing.T) {
	_, ok := SelectBest(nil)
	assert.False(t, ok)
}

func TestSelectBest_AllFieldsUnparsable(t *testing.T) {
	best, ok := SelectBest([]RawRecord{{"do": "NA", "station": "Kanpur"}})
	require.True(t, ok)
	assert.Equal(t, 0, best.Completeness())
}

func f(v float64) *float64 { return &v }
