package sms

import (
	"regexp"
	"strings"

	"sms-gateway/internal/models"
)

var userIDPattern = regexp.MustCompile(`^[0-9]{8,12}$`)

// maxMessageBytes bounds the UTF-8 encoded message body. 80 bytes passes,
// 81 does not.
const maxMessageBytes = 80

// validate runs the format checks in a fixed order and returns the first
// failure. It is pure: nothing external is called before a request clears it.
func validate(req models.SendRequest, allowedPrefixes []string) error {
	if req.UserID == "" || req.Message == "" {
		return &ValidationError{Kind: MissingFields}
	}
	if !userIDPattern.MatchString(req.UserID) {
		return &ValidationError{Kind: InvalidUserID}
	}
	if len(req.Message) > maxMessageBytes {
		return &ValidationError{Kind: MessageTooLong}
	}
	for _, pn := range req.PhoneNumbers {
		if !hasAllowedPrefix(pn, allowedPrefixes) {
			return &ValidationError{Kind: InvalidPhoneFormat}
		}
	}
	return nil
}

func hasAllowedPrefix(number string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(number, p) {
			return true
		}
	}
	return false
}
