package ws

const (
	typeInitialCode = "initial_code"
	typeCodeUpdate  = "code_update"
)

const defaultLanguage = "python"

// EditMessage is what a client sends per edit: the full buffer, no diff.
// Frames that do not parse as this shape are dropped silently.
type EditMessage struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// SyncMessage is pushed server → client, both for the one-time initial
// snapshot and for sibling edit broadcasts.
type SyncMessage struct {
	Type     string `json:"type"`
	Code     string `json:"code"`
	Language string `json:"language"`
}

// Snapshot is a room's current buffer state.
type Snapshot struct {
	Code     string
	Language string
}
