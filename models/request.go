package models

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Query string `json:"query" binding:"required,min=1"`
	TopK  int    `json:"top_k" binding:"omitempty,min=1,max=10"`
}

// ChatMessage is a single prior conversation turn. The timestamp is accepted
// for client convenience but never interpreted by the server.
type ChatMessage struct {
	Role      string `json:"role" binding:"required"`
	Content   string `json:"content" binding:"required"`
	Timestamp string `json:"timestamp,omitempty"`
}

// ChatRequest is the body of POST /chat: a query plus ordered history.
type ChatRequest struct {
	Query   string        `json:"query" binding:"required,min=1"`
	TopK    int           `json:"top_k" binding:"omitempty,min=1,max=10"`
	History []ChatMessage `json:"history"`
}
