package types

// Event is the wire representation of a state change emitted by the engine.
type Event struct {
	Type       string            `json:"type"`
	Attributes map[string]string `json:"attributes"`
}
