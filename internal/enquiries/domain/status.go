// Package domain provides the enquiry record and its status workflow.
package domain

import (
	"fmt"

	"tentquote_backend/platform/apperr"
)

// Status is where an enquiry sits in staff triage.
type Status string

const (
	StatusNew          Status = "new"
	StatusInDiscussion Status = "in_discussion"
	StatusQuoteSent    Status = "quote_sent"
	StatusConfirmed    Status = "confirmed"
	StatusCancelled    Status = "cancelled"
)

// InitialStatus is given to every submitted enquiry.
const InitialStatus = StatusNew

// AllStatuses lists statuses in workflow order.
var AllStatuses = []Status{StatusNew, StatusInDiscussion, StatusQuoteSent, StatusConfirmed, StatusCancelled}

// ParseStatus validates a raw status value.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Valid() {
		return "", apperr.Validation(fmt.Sprintf("unknown status %q", raw)).WithOp("enquiry.parse_status")
	}
	return s, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusInDiscussion, StatusQuoteSent, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether s ends the workflow.
func (s Status) Terminal() bool {
	return s == StatusConfirmed || s == StatusCancelled
}

// TransitionPolicy decides which status changes staff may make.
type TransitionPolicy int

const (
	// PolicyPermissive lets staff move an enquiry to any status.
	PolicyPermissive TransitionPolicy = iota
	// PolicyStrict follows new, in_discussion, quote_sent, confirmed, with
	// cancelled reachable from any non-terminal status.
	PolicyStrict
)

func (p TransitionPolicy) String() string {
	if p == PolicyStrict {
		return "strict"
	}
	return "permissive"
}

var strictNext = map[Status]Status{
	StatusNew:          StatusInDiscussion,
	StatusInDiscussion: StatusQuoteSent,
	StatusQuoteSent:    StatusConfirmed,
}

// Workflow applies a TransitionPolicy.
type Workflow struct {
	policy TransitionPolicy
}

// NewWorkflow returns a workflow using policy.
func NewWorkflow(policy TransitionPolicy) Workflow {
	return Workflow{policy: policy}
}

// Policy returns the active policy.
func (w Workflow) Policy() TransitionPolicy { return w.policy }

// CanTransition reports whether from -> to is allowed. Setting the current
// status again is always allowed.
func (w Workflow) CanTransition(from, to Status) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to || w.policy == PolicyPermissive {
		return true
	}
	if from.Terminal() {
		return false
	}
	return to == StatusCancelled || strictNext[from] == to
}

// Transition returns a status transition error when from -> to is refused.
func (w Workflow) Transition(from, to Status) error {
	if !to.Valid() {
		return apperr.Validation(fmt.Sprintf("unknown status %q", to)).WithOp("enquiry.set_status")
	}
	if w.CanTransition(from, to) {
		return nil
	}
	return apperr.Conflict(fmt.Sprintf("cannot move enquiry from %s to %s", from, to)).
		WithOp("enquiry.set_status").
		WithDetails(map[string]any{"from": from, "to": to, "allowed": w.Next(from)})
}

// Next lists the statuses reachable from s, excluding s itself.
func (w Workflow) Next(from Status) []Status {
	next := make([]Status, 0, len(AllStatuses))
	for _, s := range AllStatuses {
		if s != from && w.CanTransition(from, s) {
			next = append(next, s)
		}
	}
	return next
}
