package storage

import "time"

// ChatLogEntry is one routed chat message.
type ChatLogEntry struct {
	ID          string         `json:"id"`
	RequestID   string         `json:"requestId"`
	SessionID   string         `json:"sessionId,omitempty"`
	Message     string         `json:"message"`
	Intent      string         `json:"intent"`
	ToolName    string         `json:"toolName,omitempty"`
	ToolArgs    map[string]any `json:"toolArgs,omitempty"`
	ResultCount int            `json:"resultCount"`
	Confidence  float64        `json:"confidence"`
	RoutedBy    string         `json:"routedBy"`
	CreatedAt   time.Time      `json:"createdAt"`
}
