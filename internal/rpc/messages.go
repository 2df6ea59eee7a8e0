package rpc

// RunTaskRequest is the top-level request for starting a tutoring task.
type RunTaskRequest struct {
	SessionID     string `json:"session_id"`
	CorrelationID string `json:"correlation_id,omitempty"`
	Task          string `json:"task"` // explain | generate-tests | bug-hunt
	Source        string `json:"source"`
	Language      string `json:"language,omitempty"`
	TestCount     int    `json:"test_count,omitempty"`
}

// RunTaskEvent streams back progress from the daemon.
type RunTaskEvent struct {
	Type          string         `json:"type"` // message|chunk|result|error|done
	SessionID     string         `json:"session_id,omitempty"`
	CorrelationID string         `json:"correlation_id,omitempty"`
	Chunk         string         `json:"chunk,omitempty"`
	Message       string         `json:"message,omitempty"`
	Error         string         `json:"error,omitempty"`
	Result        map[string]any `json:"result,omitempty"`
	Step          int            `json:"step,omitempty"`
	Done          bool           `json:"done,omitempty"`
}

// RunTaskStreamRequest is the bidirectional stream payload for Connect RPC.
// The first message must contain the Run task; subsequent messages can carry
// control signals.
type RunTaskStreamRequest struct {
	Run           *RunTaskRequest `json:"run,omitempty"`
	Cancel        bool            `json:"cancel,omitempty"`
	SessionID     string          `json:"session_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"`
}
