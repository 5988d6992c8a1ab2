package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultHistoryLimit is used by callers that do not choose a limit.
	DefaultHistoryLimit = 20
	// MaxHistoryLimit bounds Recent.
	MaxHistoryLimit = 100

	// timeLayout has a fixed width so that created_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z"
)

// ChatLogRepo reads and writes the chat_log table.
type ChatLogRepo struct {
	db *sql.DB
}

// NewChatLogRepo creates a new ChatLogRepo.
func NewChatLogRepo(db *sql.DB) *ChatLogRepo {
	return &ChatLogRepo{db: db}
}

// Insert stores entry. A missing ID is generated and a zero CreatedAt is set to now.
func (r *ChatLogRepo) Insert(ctx context.Context, entry ChatLogEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	var args sql.NullString
	if entry.ToolArgs != nil {
		raw, err := json.Marshal(entry.ToolArgs)
		if err != nil {
			return fmt.Errorf("failed to encode tool args: %w", err)
		}
		args = sql.NullString{String: string(raw), Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO chat_log (id, request_id, session_id, message, intent, tool_name, tool_args, result_count, confidence, routed_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.ID, entry.RequestID, entry.SessionID, entry.Message, entry.Intent, entry.ToolName,
		args, entry.ResultCount, entry.Confidence, entry.RoutedBy, entry.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chat log entry: %w", err)
	}
	return nil
}

// Recent returns the newest entries first. limit is clamped to [1, MaxHistoryLimit].
func (r *ChatLogRepo) Recent(ctx context.Context, limit int) ([]ChatLogEntry, error) {
	limit = max(1, min(limit, MaxHistoryLimit))

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, request_id, session_id, message, intent, tool_name, tool_args, result_count, confidence, routed_by, created_at
		 FROM chat_log ORDER BY created_at DESC, rowid DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat log: %w", err)
	}
	defer rows.Close()

	entries := []ChatLogEntry{}
	for rows.Next() {
		var (
			entry     ChatLogEntry
			args      sql.NullString
			createdAt string
		)
		if err := rows.Scan(&entry.ID, &entry.RequestID, &entry.SessionID, &entry.Message, &entry.Intent,
			&entry.ToolName, &args, &entry.ResultCount, &entry.Confidence, &entry.RoutedBy, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat log entry: %w", err)
		}
		if args.Valid {
			if err := json.Unmarshal([]byte(args.String), &entry.ToolArgs); err != nil {
				return nil, fmt.Errorf("failed to decode tool args: %w", err)
			}
		}
		entry.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at timestamp: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read chat log: %w", err)
	}
	return entries, nil
}
