// Package router maps free-text collection questions to tool calls using an
// ordered table of literal patterns. It needs no language model and never fails:
// a message either produces a Call or the fallback help text.
package router

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Tool names understood by the dispatcher.
const (
	ToolQuery       = "query_vinyl_collection"
	ToolFilter      = "filter_records"
	ToolListArtists = "list_artists"
	ToolStats       = "stats_summary"
)

const (
	// MaxMessageLength is the number of runes of a message considered for matching.
	MaxMessageLength = 2000
	// MaxTermLength bounds extracted search terms and prefixes.
	MaxTermLength = 200

	recordLimit = 10
	artistLimit = 25
)

// Family names a rule family of the routing table.
type Family string

const (
	FamilyYearRange   Family = "year_range"
	FamilyStats       Family = "stats"
	FamilyListArtists Family = "list_artists"
	FamilyYear        Family = "year"
	FamilyLabel       Family = "label"
	FamilyArtist      Family = "artist"
	FamilySearch      Family = "search"
	FamilyUnknown     Family = "unknown"
)

// Call is a tool invocation produced by routing.
type Call struct {
	Tool string
	Args map[string]any
}

// Result is the outcome of routing a message. Exactly one of Call and
// Fallback is set. Confidence is a static per-family value for diagnostics.
type Result struct {
	Family     Family
	Call       *Call
	Fallback   string
	Confidence float64
}

// Matched reports whether a rule produced a tool call.
func (r Result) Matched() bool {
	return r.Call != nil
}

// FallbackMessage is returned when no rule matches.
const FallbackMessage = "I'm not sure what you're looking for. Here are some example queries:\n\n" +
	"- \"What records do I have by Grimes?\"\n" +
	"- \"Do I have anything on 4AD?\"\n" +
	"- \"Show me records from 2016\"\n" +
	"- \"Records between 2010 and 2020\"\n" +
	"- \"Give me a quick stats summary\""

// rule is one row of the routing table. The first pattern that matches wins
// and its submatches are handed to extract.
type rule struct {
	family     Family
	tool       string
	confidence float64
	patterns   []*regexp.Regexp
	extract    func(m []string, message string) map[string]any
}

// Router routes messages through the rule table.
type Router struct {
	rules []rule
}

// New creates a Router with the default rule table.
func New() *Router {
	return &Router{rules: defaultRules()}
}

// Route finds the first rule matching message and builds its call.
func (r *Router) Route(message string) Result {
	msg := normalizeMessage(message)
	if msg == "" {
		return fallback()
	}

	for _, rl := range r.rules {
		for _, pattern := range rl.patterns {
			m := pattern.FindStringSubmatch(msg)
			if m == nil {
				continue
			}
			return Result{
				Family:     rl.family,
				Call:       &Call{Tool: rl.tool, Args: rl.extract(m, msg)},
				Confidence: rl.confidence,
			}
		}
	}
	return fallback()
}

// Families returns the rule families in evaluation order.
func (r *Router) Families() []Family {
	out := make([]Family, len(r.rules))
	for i, rl := range r.rules {
		out[i] = rl.family
	}
	return out
}

func fallback() Result {
	return Result{Family: FamilyUnknown, Fallback: FallbackMessage, Confidence: 0}
}

// defaultRules is the routing table, most specific family first. Keyword
// families (stats, list artists) come before the imperative artist shape
// ("show me ...") that would otherwise swallow them, years come before labels
// because "2020 releases" is also a "<label> releases" shape, and labels come
// before artists because "any records on 4ad" also fits "any <artist> records".
func defaultRules() []rule {
	return []rule{
		{
			family:     FamilyYearRange,
			tool:       ToolFilter,
			confidence: 0.9,
			patterns: compile(
				`\b(?:between|from)\s+(\d{4})\s+(?:and|to)\s+(\d{4})\b`,
				`\b(\d{4})\s*-\s*(\d{4})\b`,
			),
			extract: extractYearRange,
		},
		{
			family:     FamilyStats,
			tool:       ToolStats,
			confidence: 0.95,
			patterns: compile(
				`\bhow many\b`,
				`\bstats\b`,
				`\bstatistics\b`,
				`\bsummary\b`,
				`\btell me about my collection\b`,
				`\bwhat(?:'s| is) in my collection\b`,
			),
			extract: func([]string, string) map[string]any { return map[string]any{} },
		},
		{
			family:     FamilyListArtists,
			tool:       ToolListArtists,
			confidence: 0.9,
			patterns: compile(
				`\b(?:list|show)(?:\s+me)?(?:\s+(?:all|some))?(?:\s+of)?(?:\s+the)?(?:\s+my)?\s+artists\b`,
				`\b(?:what|which)\s+artists\b`,
				`\bwho(?:'s| is) in my collection\b`,
			),
			extract: extractListArtists,
		},
		{
			family:     FamilyYear,
			tool:       ToolQuery,
			confidence: 0.9,
			patterns: compile(
				`\b(?:records|albums|stuff|releases|music|anything)\s+(?:from|in)\s+(\d{4})\b`,
				`\b(\d{4})\s+(?:releases|records|albums)\b`,
				`\b(?:from|in)\s+(\d{4})\b`,
			),
			extract: extractYear,
		},
		{
			family:     FamilyLabel,
			tool:       ToolQuery,
			confidence: 0.9,
			patterns: compile(
				`\banything\s+on\s+(?:the\s+)?(.+?)(?:\s+label)?$`,
				`\b(?:records|albums|releases|stuff)\s+on\s+(?:the\s+)?(.+?)(?:\s+label)?$`,
				`\bwhat(?:'s| is)\s+on\s+(?:the\s+)?(.+?)(?:\s+label)?$`,
				`\b(?:on|at)\s+(?:the\s+)?(.+?)\s+label\b`,
				`^(?:(?:show me|list|do i have|have i got|i have|got)\s+)?(?:(?:any|all|my|the|of)\s+)*(.+?)\s+releases$`,
			),
			extract: extractTerm("label", labelFiller),
		},
		{
			family:     FamilyArtist,
			tool:       ToolQuery,
			confidence: 0.9,
			patterns: compile(
				`\bwhat\s+(?:do i have|records do i have|albums do i have|have i got)\s+(?:by|from)\s+(.+)`,
				`\b(?:records|albums|music|stuff|anything)\s+by\s+(.+)`,
				`\b(?:show me|find|get)\s+(.+?)(?:'s)?\s+(?:records|albums|music)\b`,
				`\b(?:do i have|got)\s+(?:any\s+)?(.+?)\s+(?:records|albums)\b`,
				`^show me\s+(.+)`,
			),
			extract: extractTerm("artist", artistFiller),
		},
		{
			family:     FamilySearch,
			tool:       ToolQuery,
			confidence: 0.7,
			patterns: compile(
				`\bsearch\s+(?:for\s+)?(.+)`,
				`\bfind\s+(.+)`,
				`\blook\s+for\s+(.+)`,
			),
			extract: extractTerm("all", nil),
		},
	}
}

var (
	artistFiller  = regexp.MustCompile(`(?:'s)?\s+(?:records|albums|music|stuff)$`)
	labelFiller   = regexp.MustCompile(`\s+label$`)
	quoteReplacer = strings.NewReplacer("\u2019", "'", "\u2018", "'", "\u201c", `"`, "\u201d", `"`)
	prefixPattern = regexp.MustCompile(`\b(?:starting|beginning|that\s+starts?|that\s+begins?|starts?|begins?)\s+with\s+(?:the\s+letter\s+|letter\s+)?["']?([\p{L}\p{N}][^"']*)`)
)

func extractYearRange(m []string, _ string) map[string]any {
	from, errFrom := strconv.Atoi(m[1])
	to, errTo := strconv.Atoi(m[2])
	args := map[string]any{"limit": recordLimit}
	if errFrom != nil || errTo != nil {
		return args
	}
	if from > to {
		from, to = to, from
	}
	args["year_from"] = from
	args["year_to"] = to
	return args
}

func extractYear(m []string, _ string) map[string]any {
	return map[string]any{
		"query_type":  "year",
		"search_term": m[1],
		"limit":       recordLimit,
	}
}

func extractListArtists(_ []string, message string) map[string]any {
	args := map[string]any{"limit": artistLimit}
	if m := prefixPattern.FindStringSubmatch(message); m != nil {
		if prefix := cleanTerm(m[1], nil); prefix != "" {
			args["starts_with"] = prefix
		}
	}
	return args
}

func extractTerm(queryType string, filler *regexp.Regexp) func(m []string, message string) map[string]any {
	return func(m []string, _ string) map[string]any {
		return map[string]any{
			"query_type":  queryType,
			"search_term": cleanTerm(m[1], filler),
			"limit":       recordLimit,
		}
	}
}

// cleanTerm trims an extracted term and drops trailing punctuation and,
// when filler is set, trailing filler words. The result is at most
// MaxTermLength runes.
func cleanTerm(term string, filler *regexp.Regexp) string {
	term = stripFiller(term, filler)
	if utf8.RuneCountInString(term) > MaxTermLength {
		term = strings.TrimSpace(string([]rune(term)[:MaxTermLength]))
	}
	return term
}

func stripFiller(term string, filler *regexp.Regexp) string {
	term = strings.TrimSpace(term)
	for {
		stripped := term
		if filler != nil {
			stripped = filler.ReplaceAllString(stripped, "")
		}
		stripped = strings.TrimSpace(strings.TrimRight(stripped, `?!.,;:"'`))
		if stripped == term {
			return term
		}
		if stripped == "" {
			return term
		}
		term = stripped
	}
}

// normalizeMessage lowercases and trims message, bounds its length and
// drops trailing punctuation so end-anchored patterns match questions.
func normalizeMessage(message string) string {
	if utf8.RuneCountInString(message) > MaxMessageLength {
		message = string([]rune(message)[:MaxMessageLength])
	}
	message = quoteReplacer.Replace(strings.ToValidUTF8(message, ""))
	message = strings.ToLower(strings.TrimSpace(message))
	message = strings.TrimRight(message, "?!.,;: \t\n")
	return strings.Join(strings.Fields(message), " ")
}

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, expr := range exprs {
		out[i] = regexp.MustCompile(expr)
	}
	return out
}
