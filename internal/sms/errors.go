package sms

import "errors"

// FailKind identifies which rule rejected a request.
type FailKind int

const (
	MissingFields FailKind = iota
	InvalidUserID
	MessageTooLong
	InvalidPhoneFormat
	UserNotFound
	NoRecipients
)

func (k FailKind) String() string {
	switch k {
	case MissingFields:
		return "missing required fields"
	case InvalidUserID:
		return "invalid user_id format"
	case MessageTooLong:
		return "message exceeds byte limit"
	case InvalidPhoneFormat:
		return "invalid phone number format"
	case UserNotFound:
		return "no record for user"
	case NoRecipients:
		return "no recipients to send to"
	default:
		return "unknown"
	}
}

// ValidationError rejects a request before any send happens. The kind goes
// to the log; callers only ever see the opaque code the api layer maps it to.
type ValidationError struct {
	Kind FailKind
}

func (e *ValidationError) Error() string {
	return e.Kind.String()
}

// ErrNotAuthorized reports a source IP outside the user's allowlist.
var ErrNotAuthorized = errors.New("source address not in allowlist")
