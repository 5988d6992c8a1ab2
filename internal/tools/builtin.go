package tools

import (
	"vinylchat/internal/catalog"
	"vinylchat/internal/router"
)

// QueryArgs are the arguments of query_vinyl_collection.
type QueryArgs struct {
	QueryType  string `json:"query_type" validate:"required,oneof=artist title label year all"`
	SearchTerm string `json:"search_term" validate:"max=200"`
	Limit      *int   `json:"limit"`
}

// FilterArgs are the arguments of filter_records.
type FilterArgs struct {
	Artist   string `json:"artist" validate:"max=200"`
	Label    string `json:"label" validate:"max=200"`
	YearFrom *int   `json:"year_from"`
	YearTo   *int   `json:"year_to"`
	Limit    *int   `json:"limit"`
}

// ListArtistsArgs are the arguments of list_artists.
type ListArtistsArgs struct {
	StartsWith string `json:"starts_with" validate:"max=200"`
	Limit      *int   `json:"limit"`
}

// StatsArgs is empty; stats_summary takes no arguments.
type StatsArgs struct{}

func limitOr(limit *int, def int) int {
	if limit == nil {
		return def
	}
	return *limit
}

func recordLines(records []catalog.Record) []string {
	lines := make([]string, len(records))
	for i, rec := range records {
		lines[i] = rec.String()
	}
	return lines
}

func builtinTools() []tool {
	return []tool{
		{
			descriptor: Descriptor{
				Name:        router.ToolQuery,
				Description: "Search the vinyl collection by artist, title, label, year, or all text fields.",
				InputSchema: objectSchema(map[string]any{
					"query_type": map[string]any{
						"type":        "string",
						"enum":        catalog.Fields,
						"description": "Field to search.",
					},
					"search_term": map[string]any{"type": "string", "description": "Case-insensitive text, or a four digit year."},
					"limit":       limitSchema(catalog.DefaultRecordLimit, catalog.MaxRecordLimit),
				}, "query_type"),
			},
			newArgs: func() any { return &QueryArgs{} },
			run: func(engine *catalog.Engine, args any) Output {
				a := args.(*QueryArgs)
				records := engine.Query(catalog.Field(a.QueryType), a.SearchTerm, limitOr(a.Limit, catalog.DefaultRecordLimit))
				return Output{Lines: recordLines(records)}
			},
		},
		{
			descriptor: Descriptor{
				Name:        router.ToolFilter,
				Description: "Filter records by any combination of artist, label and an inclusive year range.",
				InputSchema: objectSchema(map[string]any{
					"artist":    map[string]any{"type": "string"},
					"label":     map[string]any{"type": "string"},
					"year_from": map[string]any{"type": "integer"},
					"year_to":   map[string]any{"type": "integer"},
					"limit":     limitSchema(catalog.DefaultRecordLimit, catalog.MaxRecordLimit),
				}),
			},
			newArgs: func() any { return &FilterArgs{} },
			run: func(engine *catalog.Engine, args any) Output {
				a := args.(*FilterArgs)
				records := engine.Filter(catalog.Filter{
					Artist:   a.Artist,
					Label:    a.Label,
					YearFrom: a.YearFrom,
					YearTo:   a.YearTo,
				}, limitOr(a.Limit, catalog.DefaultRecordLimit))
				return Output{Lines: recordLines(records)}
			},
		},
		{
			descriptor: Descriptor{
				Name:        router.ToolListArtists,
				Description: "List distinct artists in the collection, optionally by name prefix.",
				InputSchema: objectSchema(map[string]any{
					"starts_with": map[string]any{"type": "string"},
					"limit":       limitSchema(catalog.DefaultArtistLimit, catalog.MaxArtistLimit),
				}),
			},
			newArgs: func() any { return &ListArtistsArgs{} },
			run: func(engine *catalog.Engine, args any) Output {
				a := args.(*ListArtistsArgs)
				return Output{Lines: engine.Artists(a.StartsWith, limitOr(a.Limit, catalog.DefaultArtistLimit))}
			},
		},
		{
			descriptor: Descriptor{
				Name:        router.ToolStats,
				Description: "Summarize the collection: totals, year range, top artists and labels.",
				InputSchema: objectSchema(map[string]any{}),
			},
			newArgs: func() any { return &StatsArgs{} },
			run: func(engine *catalog.Engine, _ any) Output {
				stats := engine.Stats()
				return Output{Stats: &stats}
			},
		},
	}
}

func objectSchema(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func limitSchema(def, upper int) map[string]any {
	return map[string]any{
		"type":    "integer",
		"default": def,
		"minimum": 1,
		"maximum": upper,
	}
}
