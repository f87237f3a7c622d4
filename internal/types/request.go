package types

// PushRequest represents a push request body
type PushRequest struct {
	Value int32 `json:"value"`
}

// CapacityRequest represents a capacity reconfiguration request
type CapacityRequest struct {
	Capacity int64 `json:"capacity"`
}

// ExecuteRequest represents a service execution request
type ExecuteRequest struct {
	ToolID   string                 `json:"tool_id" binding:"required"`
	Params   map[string]interface{} `json:"params"`
	ClientID *string                `json:"client_id,omitempty"`
}

// WSMessage represents a WebSocket message
type WSMessage struct {
	Type string `json:"type"`
}
