package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"strings"
	"unicode"
)

// Column identifies one of the expected columns of a collection export.
type Column string

const (
	ColumnCatalogNumber   Column = "catalog_number"
	ColumnArtist          Column = "artist"
	ColumnTitle           Column = "title"
	ColumnLabel           Column = "label"
	ColumnFormat          Column = "format"
	ColumnRating          Column = "rating"
	ColumnReleased        Column = "released"
	ColumnReleaseID       Column = "release_id"
	ColumnFolder          Column = "collection_folder"
	ColumnDateAdded       Column = "date_added"
	ColumnMediaCondition  Column = "media_condition"
	ColumnSleeveCondition Column = "sleeve_condition"
)

// ExpectedColumns lists the columns the store knows how to read, in export order.
var ExpectedColumns = []Column{
	ColumnCatalogNumber,
	ColumnArtist,
	ColumnTitle,
	ColumnLabel,
	ColumnFormat,
	ColumnRating,
	ColumnReleased,
	ColumnReleaseID,
	ColumnFolder,
	ColumnDateAdded,
	ColumnMediaCondition,
	ColumnSleeveCondition,
}

// headerAliases maps a header key (lowercase letters and digits only) to its column.
// The first group are the names used by the Discogs collection export.
var headerAliases = map[string]Column{
	"catalog":                   ColumnCatalogNumber,
	"artist":                    ColumnArtist,
	"title":                     ColumnTitle,
	"label":                     ColumnLabel,
	"format":                    ColumnFormat,
	"rating":                    ColumnRating,
	"released":                  ColumnReleased,
	"releaseid":                 ColumnReleaseID,
	"collectionfolder":          ColumnFolder,
	"dateadded":                 ColumnDateAdded,
	"collectionmediacondition":  ColumnMediaCondition,
	"collectionsleevecondition": ColumnSleeveCondition,

	"catalognumber":   ColumnCatalogNumber,
	"catalogno":       ColumnCatalogNumber,
	"catno":           ColumnCatalogNumber,
	"releasedate":     ColumnReleased,
	"year":            ColumnReleased,
	"folder":          ColumnFolder,
	"mediacondition":  ColumnMediaCondition,
	"sleevecondition": ColumnSleeveCondition,
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Store is an immutable, ordered set of records plus the lookup structures
// derived from them. The zero Store is an empty collection.
type Store struct {
	records []Record
	index   []indexEntry
	artists []string
	missing []Column
	skipped int
}

// indexEntry holds the normalized comparison forms of a record.
type indexEntry struct {
	artist     string
	bareArtist string
	title      string
	label      string
}

// Load parses a collection export. The first row names the columns; unknown
// columns are ignored and missing expected columns leave their fields empty.
// Rows that cannot be parsed are skipped and counted. Input without a usable
// header fails with ErrMalformed.
func Load(data []byte) (*Store, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, malformed("no header row")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, malformed("failed to read header: %w", err)
	}

	columns := make([]Column, len(header))
	present := make(map[Column]bool)
	named := 0
	for i, name := range header {
		if strings.TrimSpace(name) == "" {
			continue
		}
		named++
		col, ok := headerAliases[headerKey(name)]
		if !ok || present[col] {
			continue
		}
		columns[i] = col
		present[col] = true
	}
	if named == 0 {
		return nil, malformed("header has no columns")
	}

	var (
		records []Record
		skipped int
		row     int
	)
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		row++
		if err != nil {
			skipped++
			continue
		}

		rec := Record{Row: row}
		for i, value := range fields {
			if i >= len(columns) || columns[i] == "" {
				continue
			}
			rec.set(columns[i], strings.TrimSpace(value))
		}
		records = append(records, rec)
	}

	s := NewStore(records...)
	s.skipped = skipped
	for _, col := range ExpectedColumns {
		if !present[col] {
			s.missing = append(s.missing, col)
		}
	}
	return s, nil
}

// NewStore builds a store from already parsed records, deriving years and
// lookup structures. The records are copied.
func NewStore(records ...Record) *Store {
	s := &Store{
		records: make([]Record, len(records)),
		index:   make([]indexEntry, len(records)),
	}

	seen := make(map[string]bool)
	for i, rec := range records {
		rec.year, _ = ParseYear(rec.Released)
		s.records[i] = rec

		artist := Normalize(rec.Artist)
		s.index[i] = indexEntry{
			artist:     artist,
			bareArtist: Normalize(StripDisambiguation(rec.Artist)),
			title:      Normalize(rec.Title),
			label:      Normalize(rec.Label),
		}

		if artist != "" && !seen[artist] {
			seen[artist] = true
			s.artists = append(s.artists, strings.TrimSpace(rec.Artist))
		}
	}
	sort.SliceStable(s.artists, func(i, j int) bool {
		return Normalize(s.artists[i]) < Normalize(s.artists[j])
	})

	return s
}

// Len returns the number of records.
func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy of all records in load order.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// MissingColumns returns the expected columns absent from the source header.
func (s *Store) MissingColumns() []Column {
	out := make([]Column, len(s.missing))
	copy(out, s.missing)
	return out
}

// HasColumn reports whether the source header provided the column.
func (s *Store) HasColumn(col Column) bool {
	for _, m := range s.missing {
		if m == col {
			return false
		}
	}
	return true
}

// SkippedRows returns the number of rows dropped because they could not be parsed.
func (s *Store) SkippedRows() int {
	return s.skipped
}

func (r *Record) set(col Column, value string) {
	switch col {
	case ColumnCatalogNumber:
		r.CatalogNumber = value
	case ColumnArtist:
		r.Artist = value
	case ColumnTitle:
		r.Title = value
	case ColumnLabel:
		r.Label = value
	case ColumnFormat:
		r.Format = value
	case ColumnRating:
		r.Rating = value
	case ColumnReleased:
		r.Released = value
	case ColumnReleaseID:
		r.ReleaseID = value
	case ColumnFolder:
		r.Folder = value
	case ColumnDateAdded:
		r.DateAdded = value
	case ColumnMediaCondition:
		r.MediaCondition = value
	case ColumnSleeveCondition:
		r.SleeveCondition = value
	}
}

// headerKey reduces a header cell to lowercase letters and digits,
// so "Catalog#", "release_id" and "Date Added" compare by their words.
func headerKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
