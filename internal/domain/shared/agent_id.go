package shared

import "strings"

// AgentID is a value object identifying a colonist/agent.
// The zero value means "no agent" and is used wherever an agent is optional
// (unpinned tasks, storage-only availability checks).
type AgentID struct {
	value string
}

// NewAgentID creates a new AgentID value object
func NewAgentID(id string) (AgentID, error) {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return AgentID{}, NewValidationError("agent_id", id, "cannot be empty")
	}
	if strings.ContainsAny(trimmed, " \t\n") {
		return AgentID{}, NewValidationError("agent_id", id, "cannot contain whitespace")
	}
	id = trimmed
	return AgentID{value: id}, nil
}

// MustNewAgentID creates a new AgentID, panicking if invalid.
// Use this only when the ID is known to be valid (fixtures, catalog data).
func MustNewAgentID(id string) AgentID {
	agentID, err := NewAgentID(id)
	if err != nil {
		panic(err)
	}
	return agentID
}

// NoAgent is the explicit "unset" agent
var NoAgent = AgentID{}

// Value returns the string value of the AgentID
func (a AgentID) Value() string {
	return a.value
}

// String returns a string representation of the AgentID
func (a AgentID) String() string {
	return a.value
}

// Equals checks if two AgentIDs are equal
func (a AgentID) Equals(other AgentID) bool {
	return a.value == other.value
}

// IsZero checks if the AgentID is unset
func (a AgentID) IsZero() bool {
	return a.value == ""
}
