package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	// MinYear and MaxYear bound the release years accepted from the Released column.
	MinYear = 1900
	MaxYear = 2099
)

// disambiguationSuffix matches the numeric suffix Discogs appends to
// same-named artists, e.g. "Grimes (4)".
var disambiguationSuffix = regexp.MustCompile(`\s+\(\d+\)$`)

// Record is one entry of the collection export.
// Absent columns leave the corresponding field empty.
type Record struct {
	// Row is the 1-based data row the record was read from. It identifies the
	// record even when two rows share a release id.
	Row int `json:"row"`

	CatalogNumber   string `json:"catalog_number"`
	Artist          string `json:"artist"`
	Title           string `json:"title"`
	Label           string `json:"label"`
	Format          string `json:"format"`
	Rating          string `json:"rating"`
	Released        string `json:"released"`
	ReleaseID       string `json:"release_id"`
	Folder          string `json:"collection_folder"`
	DateAdded       string `json:"date_added"`
	MediaCondition  string `json:"media_condition"`
	SleeveCondition string `json:"sleeve_condition"`

	year int
}

// Year returns the release year parsed from Released when the record was loaded.
func (r Record) Year() (int, bool) {
	return r.year, r.year != 0
}

// String renders the record as "Artist - Title (Label, Released)".
func (r Record) String() string {
	return fmt.Sprintf("%s - %s (%s, %s)", r.Artist, r.Title, r.Label, r.Released)
}

// ParseYear extracts the release year from a Discogs Released value such as
// "2016", "2016-03-04" or "1975-00-00". The leading run of digits must be a
// four digit year within [MinYear, MaxYear].
func ParseYear(released string) (int, bool) {
	s := strings.TrimSpace(released)
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end != 4 {
		return 0, false
	}
	year, err := strconv.Atoi(s[:end])
	if err != nil || year < MinYear || year > MaxYear {
		return 0, false
	}
	return year, true
}

// Normalize prepares a value for comparison: surrounding whitespace is
// trimmed and the result lowercased.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// StripDisambiguation removes a trailing " (<digits>)" suffix from an artist name.
func StripDisambiguation(artist string) string {
	return disambiguationSuffix.ReplaceAllString(strings.TrimSpace(artist), "")
}
