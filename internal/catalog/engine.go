package catalog

import (
	"sort"
	"strconv"
	"strings"
)

const (
	// MaxRecordLimit bounds Query and Filter results.
	MaxRecordLimit = 50
	// MaxArtistLimit bounds Artists results.
	MaxArtistLimit = 100
	// DefaultRecordLimit is the record limit used when a caller supplies none.
	DefaultRecordLimit = 10
	// DefaultArtistLimit is the artist limit used when a caller supplies none.
	DefaultArtistLimit = 25
	// TopN is the number of entries reported in Stats top lists.
	TopN = 5
)

// Field selects what Query matches against.
type Field string

const (
	FieldArtist Field = "artist"
	FieldTitle  Field = "title"
	FieldLabel  Field = "label"
	FieldYear   Field = "year"
	FieldAll    Field = "all"
)

// Fields lists the valid query fields.
var Fields = []Field{FieldArtist, FieldTitle, FieldLabel, FieldYear, FieldAll}

// Filter holds the optional criteria of a multi-criteria search.
// Nil or empty criteria impose no constraint.
type Filter struct {
	Artist   string
	Label    string
	YearFrom *int
	YearTo   *int
}

// ArtistCount is an entry of Stats.TopArtists.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int    `json:"count"`
}

// LabelCount is an entry of Stats.TopLabels.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats summarizes a collection.
type Stats struct {
	TotalRecords  int           `json:"total_records"`
	UniqueArtists int           `json:"unique_artists"`
	UniqueLabels  int           `json:"unique_labels"`
	YearMin       *int          `json:"year_min"`
	YearMax       *int          `json:"year_max"`
	TopArtists    []ArtistCount `json:"top_artists"`
	TopLabels     []LabelCount  `json:"top_labels"`
}

// Engine answers read-only queries over a loaded Store.
type Engine struct {
	store *Store
}

// NewEngine creates an Engine over store. A nil store behaves as empty.
func NewEngine(store *Store) *Engine {
	if store == nil {
		store = &Store{}
	}
	return &Engine{store: store}
}

// Store returns the underlying store.
func (e *Engine) Store() *Store {
	return e.store
}

// ClampLimit forces limit into [1, upper].
func ClampLimit(limit, upper int) int {
	if limit < 1 {
		return 1
	}
	if limit > upper {
		return upper
	}
	return limit
}

// Query returns records whose field matches term, in load order.
// Text fields match case-insensitive substrings; artist matching also ignores
// Discogs disambiguation suffixes. FieldYear matches the parsed year exactly
// and FieldAll matches artist, title or label. An empty term matches nothing.
func (e *Engine) Query(field Field, term string, limit int) []Record {
	limit = ClampLimit(limit, MaxRecordLimit)
	needle := Normalize(term)
	if needle == "" {
		return []Record{}
	}

	var match func(i int) bool
	switch field {
	case FieldArtist:
		match = func(i int) bool { return e.matchArtist(i, needle) }
	case FieldTitle:
		match = func(i int) bool { return strings.Contains(e.store.index[i].title, needle) }
	case FieldLabel:
		match = func(i int) bool { return strings.Contains(e.store.index[i].label, needle) }
	case FieldYear:
		year, err := strconv.Atoi(needle)
		if err != nil {
			return []Record{}
		}
		match = func(i int) bool {
			y, ok := e.store.records[i].Year()
			return ok && y == year
		}
	case FieldAll:
		match = func(i int) bool {
			entry := e.store.index[i]
			return e.matchArtist(i, needle) ||
				strings.Contains(entry.title, needle) ||
				strings.Contains(entry.label, needle)
		}
	default:
		return []Record{}
	}

	return e.collect(match, limit)
}

// Filter returns records satisfying every criterion of f, in load order.
// The year range is inclusive; records without a year fail any year bound.
func (e *Engine) Filter(f Filter, limit int) []Record {
	limit = ClampLimit(limit, MaxRecordLimit)
	artist := Normalize(f.Artist)
	label := Normalize(f.Label)

	return e.collect(func(i int) bool {
		if artist != "" && !e.matchArtist(i, artist) {
			return false
		}
		if label != "" && !strings.Contains(e.store.index[i].label, label) {
			return false
		}
		if f.YearFrom == nil && f.YearTo == nil {
			return true
		}
		year, ok := e.store.records[i].Year()
		if !ok {
			return false
		}
		if f.YearFrom != nil && year < *f.YearFrom {
			return false
		}
		if f.YearTo != nil && year > *f.YearTo {
			return false
		}
		return true
	}, limit)
}

// Artists returns distinct artist names sorted case-insensitively, optionally
// restricted to names starting with prefix. The limit applies after sorting.
func (e *Engine) Artists(prefix string, limit int) []string {
	limit = ClampLimit(limit, MaxArtistLimit)
	prefix = Normalize(prefix)

	out := make([]string, 0, limit)
	for _, name := range e.store.artists {
		if prefix != "" && !strings.HasPrefix(Normalize(name), prefix) {
			continue
		}
		out = append(out, name)
		if len(out) == limit {
			break
		}
	}
	return out
}

// Stats computes collection statistics. Every field is populated on an empty store.
func (e *Engine) Stats() Stats {
	artists := newCounter()
	labels := newCounter()
	stats := Stats{
		TotalRecords: e.store.Len(),
		TopArtists:   []ArtistCount{},
		TopLabels:    []LabelCount{},
	}

	for i, rec := range e.store.records {
		artists.add(e.store.index[i].artist, rec.Artist)
		labels.add(e.store.index[i].label, rec.Label)

		year, ok := rec.Year()
		if !ok {
			continue
		}
		if stats.YearMin == nil || year < *stats.YearMin {
			y := year
			stats.YearMin = &y
		}
		if stats.YearMax == nil || year > *stats.YearMax {
			y := year
			stats.YearMax = &y
		}
	}

	stats.UniqueArtists = artists.len()
	stats.UniqueLabels = labels.len()
	for _, c := range artists.top(TopN) {
		stats.TopArtists = append(stats.TopArtists, ArtistCount{Artist: c.name, Count: c.count})
	}
	for _, c := range labels.top(TopN) {
		stats.TopLabels = append(stats.TopLabels, LabelCount{Label: c.name, Count: c.count})
	}
	return stats
}

// matchArtist compares needle against both the stored artist and its
// disambiguation-stripped form, so "grimes" and "grimes (4)" find each other.
func (e *Engine) matchArtist(i int, needle string) bool {
	entry := e.store.index[i]
	if strings.Contains(entry.artist, needle) {
		return true
	}
	bare := Normalize(StripDisambiguation(needle))
	return bare != "" && strings.Contains(entry.bareArtist, bare)
}

func (e *Engine) collect(match func(i int) bool, limit int) []Record {
	out := make([]Record, 0, limit)
	for i := range e.store.records {
		if !match(i) {
			continue
		}
		out = append(out, e.store.records[i])
		if len(out) == limit {
			break
		}
	}
	return out
}

type nameCount struct {
	name  string
	count int
}

// counter tallies values by normalized key, remembering the first display form.
type counter struct {
	order  []string
	counts map[string]*nameCount
}

func newCounter() *counter {
	return &counter{counts: make(map[string]*nameCount)}
}

func (c *counter) add(key, display string) {
	if key == "" {
		return
	}
	if nc, ok := c.counts[key]; ok {
		nc.count++
		return
	}
	c.order = append(c.order, key)
	c.counts[key] = &nameCount{name: strings.TrimSpace(display), count: 1}
}

func (c *counter) len() int {
	return len(c.counts)
}

// top returns the n largest counts; ties are ordered by name ascending.
func (c *counter) top(n int) []nameCount {
	all := make([]nameCount, 0, len(c.order))
	for _, key := range c.order {
		all = append(all, *c.counts[key])
	}
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].count != all[j].count {
			return all[i].count > all[j].count
		}
		return strings.ToLower(all[i].name) < strings.ToLower(all[j].name)
	})
	if len(all) > n {
		all = all[:n]
	}
	return all
}
