// internal/game/types.go
//
// Core type definitions shared by the scoring engine and the session model.
// Defines:
//   - Status: per-position result of a guess (correct/present/absent).
//   - Cell: one scored position.
//   - SyllableMarks: pinyin sub-scores for one idiom position.
//   - Variant / Outcome enums.

package game

// Status is the evaluation result for a single position of a guess.
//   - "correct": symbol is in the answer at this position.
//   - "present": symbol is in the answer at a different position.
//   - "absent":  symbol has no unclaimed occurrence in the answer.
type Status string

const (
	StatusCorrect Status = "correct"
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"

	// statusPending only exists between the two scoring passes.
	statusPending Status = "pending"
)

// Cell is a single scored position of a guess.
type Cell struct {
	Symbol string `json:"symbol"`
	Status Status `json:"status"`
}

// SyllableMarks holds the independent initial/final/tone statuses of one
// idiom position.
type SyllableMarks struct {
	Initial Status `json:"initial"`
	Final   Status `json:"final"`
	Tone    Status `json:"tone"`
}

// Variant selects the game type. Immutable once a session exists.
type Variant string

const (
	VariantLetter   Variant = "letter"
	VariantEquation Variant = "equation"
	VariantIdiom    Variant = "idiom"
)

// Valid reports whether v is a known variant.
func (v Variant) Valid() bool {
	switch v {
	case VariantLetter, VariantEquation, VariantIdiom:
		return true
	}
	return false
}

// Outcome is how a finished session ended. Empty while the session is active.
type Outcome string

const (
	OutcomeNone      Outcome = ""
	OutcomeWin       Outcome = "win"
	OutcomeLoss      Outcome = "loss"
	OutcomeAbandoned Outcome = "abandoned"
)
