package utils

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailAlreadyExists = errors.New("email already exists")

	ErrChatNotFound    = errors.New("chat not found")
	ErrRequestNotFound = errors.New("upgrade request not found")

	// ErrInvalidStateTransition is returned when resolving a request that is
	// no longer pending. Reported to the admin surface, never silently
	// ignored.
	ErrInvalidStateTransition = errors.New("invalid state transition")

	// ErrPlanNotEligible is returned when requesting a plan that does not
	// require approval (or does not exist).
	ErrPlanNotEligible = errors.New("plan not eligible for upgrade request")

	// ErrSendInFlight is returned when a chat already has a send in flight.
	ErrSendInFlight = errors.New("a send is already in flight for this chat")

	ErrRelayFailure  = errors.New("inference relay failure")
	ErrDatabaseError = errors.New("database error")
)

// QuotaExceededError carries the limit kind and its numeric threshold so the
// caller can tell the user exactly which limit was hit.
type QuotaExceededError struct {
	Kind  string // DAILY_CHAT_LIMIT | CHAT_RESPONSE_LIMIT
	Limit int
}

func (e *QuotaExceededError) Error() string {
	switch e.Kind {
	case "DAILY_CHAT_LIMIT":
		return fmt.Sprintf("daily chat limit reached (%d chats)", e.Limit)
	case "CHAT_RESPONSE_LIMIT":
		return fmt.Sprintf("chat response limit reached (%d responses)", e.Limit)
	}
	return fmt.Sprintf("quota exceeded (%s=%d)", e.Kind, e.Limit)
}
