package service

import (
	"fmt"
	"strings"

	"vinylchat/internal/catalog"
	"vinylchat/internal/tools"
)

// NoResultsAnswer is the answer for a list tool that matched nothing.
const NoResultsAnswer = "No results found."

// FormatOutput renders a tool result as the chat answer. The answer is
// Markdown: list results become bullet items.
func FormatOutput(out tools.Output) string {
	if out.Stats != nil {
		return FormatStats(*out.Stats)
	}
	if len(out.Lines) == 0 {
		return NoResultsAnswer
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d result(s):\n\n", len(out.Lines))
	for i, line := range out.Lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("- ")
		b.WriteString(line)
	}
	return b.String()
}

// FormatStats renders a collection summary. The year range is shown only when
// both ends are known.
func FormatStats(stats catalog.Stats) string {
	lines := []string{
		"Collection Statistics:",
		"",
		fmt.Sprintf("Total Records: %d", stats.TotalRecords),
		fmt.Sprintf("Unique Artists: %d", stats.UniqueArtists),
		fmt.Sprintf("Unique Labels: %d", stats.UniqueLabels),
	}
	if stats.YearMin != nil && stats.YearMax != nil {
		lines = append(lines, fmt.Sprintf("Year Range: %d - %d", *stats.YearMin, *stats.YearMax))
	}

	if len(stats.TopArtists) > 0 {
		lines = append(lines, "", "Top Artists:")
		for _, a := range stats.TopArtists {
			lines = append(lines, fmt.Sprintf("- %s: %s", a.Artist, plural(a.Count)))
		}
	}
	if len(stats.TopLabels) > 0 {
		lines = append(lines, "", "Top Labels:")
		for _, l := range stats.TopLabels {
			lines = append(lines, fmt.Sprintf("- %s: %s", l.Label, plural(l.Count)))
		}
	}
	return strings.Join(lines, "\n")
}

func plural(count int) string {
	if count == 1 {
		return "1 record"
	}
	return fmt.Sprintf("%d records", count)
}
