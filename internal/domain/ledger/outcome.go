package ledger

import "fmt"

// Outcome is how a crafting task ended
type Outcome string

const (
	// OutcomeCompleted - the task manufactured its result item
	OutcomeCompleted Outcome = "COMPLETED"

	// OutcomeCancelled - the task was removed without a result
	OutcomeCancelled Outcome = "CANCELLED"
)

// AllOutcomes returns all valid outcomes
func AllOutcomes() []Outcome {
	return []Outcome{OutcomeCompleted, OutcomeCancelled}
}

func (o Outcome) String() string {
	return string(o)
}

// IsValid checks if the outcome is known
func (o Outcome) IsValid() bool {
	for _, valid := range AllOutcomes() {
		if o == valid {
			return true
		}
	}
	return false
}

// ParseOutcome converts a string to an Outcome
func ParseOutcome(s string) (Outcome, error) {
	o := Outcome(s)
	if !o.IsValid() {
		return "", fmt.Errorf("invalid outcome: %s", s)
	}
	return o, nil
}
