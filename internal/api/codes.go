package api

import (
	"errors"
	"net/http"

	"sms-gateway/internal/sms"
)

// Opaque outcome codes. Response bodies carry one of these and nothing else;
// the underlying reason is written to the log only.
const (
	codeOK             = "20000"
	codeMissingFields  = "40001"
	codeBadUserID      = "40002"
	codeMessageTooLong = "40003"
	codeBadPhone       = "40004"
	codeUserNotFound   = "40005"
	codeNoRecipients   = "40006"
	codeNotAllowed     = "41801"
	codeInternal       = "50001"
)

// outcomeResponse maps a Handle result to an HTTP status and opaque code.
// The 418 on an allowlist miss is deliberate: it avoids signalling that an
// access-control boundary was hit.
func outcomeResponse(err error) (int, string) {
	if err == nil {
		return http.StatusOK, codeOK
	}
	var verr *sms.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, validationCode(verr.Kind)
	case errors.Is(err, sms.ErrNotAuthorized):
		return http.StatusTeapot, codeNotAllowed
	default:
		return http.StatusInternalServerError, codeInternal
	}
}

func validationCode(kind sms.FailKind) string {
	switch kind {
	case sms.MissingFields:
		return codeMissingFields
	case sms.InvalidUserID:
		return codeBadUserID
	case sms.MessageTooLong:
		return codeMessageTooLong
	case sms.InvalidPhoneFormat:
		return codeBadPhone
	case sms.UserNotFound:
		return codeUserNotFound
	case sms.NoRecipients:
		return codeNoRecipients
	default:
		return codeMissingFields
	}
}
