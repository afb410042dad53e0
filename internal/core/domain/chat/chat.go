package chat

// Role identifies the author of a conversation message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a running conversation.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SourceTypeURL marks citations that point at a web page. Generators may
// also return other citation kinds which callers are free to ignore.
const SourceTypeURL = "url"

// Source is a typed citation attached to generated text.
type Source struct {
	Type  string `json:"sourceType"`
	URL   string `json:"url,omitempty"`
	Title string `json:"title,omitempty"`
}

// SearchContextSize hints how much web search context the generator should
// gather before answering.
type SearchContextSize string

const (
	SearchContextLow    SearchContextSize = "low"
	SearchContextMedium SearchContextSize = "medium"
	SearchContextHigh   SearchContextSize = "high"
)

// GenerateRequest is a single-shot text generation call.
type GenerateRequest struct {
	Prompt            string
	SearchContextSize SearchContextSize
}

// GenerateResult carries the generated text plus its citations.
type GenerateResult struct {
	Text    string
	Sources []Source
}

// StreamRequest is a streaming conversation call. Reasoning selects the
// slower reasoning model variant.
type StreamRequest struct {
	System    string
	Messages  []Message
	Reasoning bool
}

// StreamEventType discriminates incremental stream events.
type StreamEventType string

const (
	EventText   StreamEventType = "text"
	EventSource StreamEventType = "source"
	EventError  StreamEventType = "error"
	EventDone   StreamEventType = "done"
)

// StreamEvent is one chunk of a streamed response, forwarded in arrival
// order with no buffering.
type StreamEvent struct {
	Type   StreamEventType `json:"type"`
	Text   string          `json:"text,omitempty"`
	Source *Source         `json:"source,omitempty"`
	Error  string          `json:"error,omitempty"`
}
