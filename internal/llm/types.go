package llm

// Message is a single message in a chat conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatParams holds parameters for chat completion requests.
type ChatParams struct {
	// Model overrides the client's default model when set.
	Model string

	// MaxTokens limits the reply length. Zero means no limit.
	MaxTokens int

	// Temperature controls randomness. Tool selection uses 0.
	Temperature float32
}
