// Package domain holds card flags and the moderation state derived from them.
package domain

import (
	"time"

	content "onboardflow/internal/content/domain"
	"onboardflow/internal/platform/errkind"
)

var (
	ErrInvalidReason = errkind.New(errkind.Moderation, "flag reason must be INCORRECT, OUTDATED or INAPPROPRIATE")
	ErrDuplicateFlag = errkind.New(errkind.Moderation, "flag submission was already recorded")
	ErrMissingCardID = errkind.New(errkind.Moderation, "card id is required")
)

// Reason is why a reader flagged a card.
type Reason string

const (
	ReasonIncorrect     Reason = "INCORRECT"
	ReasonOutdated      Reason = "OUTDATED"
	ReasonInappropriate Reason = "INAPPROPRIATE"
)

// Valid reports whether r is an accepted reason.
func (r Reason) Valid() bool {
	switch r {
	case ReasonIncorrect, ReasonOutdated, ReasonInappropriate:
		return true
	}
	return false
}

// QuarantineThreshold is the flag count at which a card leaves the feed.
const QuarantineThreshold = content.QuarantineThreshold

// Flag is one recorded submission. Flags are never deleted.
type Flag struct {
	SubmissionID string    `json:"submission_id"`
	CardID       string    `json:"card_id"`
	UserID       string    `json:"user_id"`
	Reason       Reason    `json:"reason"`
	CreatedAt    time.Time `json:"created_at"`
}

// State is the moderation view of one card, derived from its flags.
type State struct {
	CardID     string `json:"card_id"`
	FlagCount  int    `json:"flag_count"`
	Flagged    bool   `json:"flagged"`
	LastReason Reason `json:"last_reason,omitempty"`
}

// IsQuarantined is computed on every read; it is true for good once FlagCount reaches the threshold.
func (s State) IsQuarantined() bool {
	return s.FlagCount >= QuarantineThreshold
}

// Derive builds the state for cardID from its flags in submission order.
func Derive(cardID string, flags []Flag) State {
	st := State{CardID: cardID}
	for _, f := range flags {
		if f.CardID != cardID {
			continue
		}
		st.FlagCount++
		st.Flagged = true
		st.LastReason = f.Reason
	}
	return st
}
