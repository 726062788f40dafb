package swap

import (
	"github.com/erazemk/rewear/internal/apperr"
	"github.com/erazemk/rewear/internal/events"
	"github.com/erazemk/rewear/internal/model"
)

// role is the set of participants allowed to apply a transition.
type role uint8

const (
	roleProposer role = 1 << iota
	roleReceiver

	roleEither = roleProposer | roleReceiver
)

// rule is one edge of the swap state machine.
type rule struct {
	from, to string
	allowed  role
	// itemStatus is what both items become; empty leaves them unchanged.
	itemStatus string
	event      string
}

var rules = []rule{
	{model.SwapStatusPending, model.SwapStatusAccepted, roleReceiver, "", events.SwapAccepted},
	{model.SwapStatusPending, model.SwapStatusDeclined, roleReceiver, model.ItemStatusActive, events.SwapDeclined},
	{model.SwapStatusAccepted, model.SwapStatusMeetupPending, roleEither, "", events.SwapMeetupPending},
	{model.SwapStatusMeetupPending, model.SwapStatusCompleted, roleEither, model.ItemStatusSwapped, events.SwapCompleted},
	{model.SwapStatusPending, model.SwapStatusCancelled, roleProposer, model.ItemStatusActive, events.SwapCancelled},
	{model.SwapStatusAccepted, model.SwapStatusCancelled, roleProposer, model.ItemStatusActive, events.SwapCancelled},
}

func findRule(from, to string) (rule, bool) {
	for _, r := range rules {
		if r.from == from && r.to == to {
			return r, true
		}
	}
	return rule{}, false
}

// roleOf returns the participant role of userID in s, or 0.
func roleOf(s *model.Swap, userID int64) role {
	switch userID {
	case s.ProposerID:
		return roleProposer
	case s.ReceiverID:
		return roleReceiver
	}
	return 0
}

// checkTransition returns the rule that moves s to target on behalf of
// actorID, or the domain error explaining why it may not.
func checkTransition(s *model.Swap, actorID int64, target string) (rule, error) {
	actor := roleOf(s, actorID)
	if actor == 0 {
		return rule{}, apperr.Newf(apperr.CodeUnauthorized, "user %d is not a participant in swap %d", actorID, s.ID)
	}

	r, ok := findRule(s.Status, target)
	if !ok {
		return rule{}, apperr.Newf(apperr.CodeInvalidTransition, "swap %d cannot move from %q to %q", s.ID, s.Status, target)
	}

	if r.allowed&actor == 0 {
		return rule{}, apperr.Newf(apperr.CodeUnauthorized, "user %d may not move swap %d to %q", actorID, s.ID, target)
	}
	return r, nil
}

// NextStatuses returns the statuses userID may move s to.
func NextStatuses(s *model.Swap, userID int64) []string {
	actor := roleOf(s, userID)
	var next []string
	for _, r := range rules {
		if r.from == s.Status && r.allowed&actor != 0 {
			next = append(next, r.to)
		}
	}
	return next
}
