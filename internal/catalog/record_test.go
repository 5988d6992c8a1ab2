package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseYear(t *testing.T) {
	tests := []struct {
		released string
		want     int
		wantOK   bool
	}{
		{released: "2016", want: 2016, wantOK: true},
		{released: "2016-03-04", want: 2016, wantOK: true},
		{released: "1975-00-00", want: 1975, wantOK: true},
		{released: "  1999 ", want: 1999, wantOK: true},
		{released: "", wantOK: false},
		{released: "0", wantOK: false},
		{released: "Unknown", wantOK: false},
		{released: "20160304", wantOK: false},
		{released: "1850", wantOK: false},
		{released: "2100", wantOK: false},
		{released: "c. 1970", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.released, func(t *testing.T) {
			got, ok := ParseYear(tt.released)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestStripDisambiguation(t *testing.T) {
	tests := map[string]string{
		"Grimes (4)":         "Grimes",
		"Grimes":             "Grimes",
		" Nirvana (2) ":      "Nirvana",
		"The Band (Live)":    "The Band (Live)",
		"Prince (12) (3)":    "Prince (12)",
		"(1)":                "(1)",
		"Sufjan Stevens (1)": "Sufjan Stevens",
	}
	for in, want := range tests {
		assert.Equal(t, want, StripDisambiguation(in), in)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "grimes", Normalize("  GRIMES\t"))
	assert.Equal(t, "", Normalize("   "))
}

func TestRecord_String(t *testing.T) {
	rec := Record{Artist: "Grimes", Title: "Visions", Label: "4AD", Released: "2012-01-31"}
	assert.Equal(t, "Grimes - Visions (4AD, 2012-01-31)", rec.String())

	empty := Record{Artist: "Grimes", Title: "Visions"}
	assert.Equal(t, "Grimes - Visions (, )", empty.String())
	assert.NotContains(t, empty.String(), "None")
	assert.NotContains(t, empty.String(), "null")
}
