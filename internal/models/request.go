package models

// SendRequest is the inbound body of a send call. The caller's source IP is
// supplied by the transport layer, not the body.
type SendRequest struct {
	UserID       string   `json:"user_id"`
	Message      string   `json:"message"`
	PhoneNumbers []string `json:"phone_numbers,omitempty"`
}

// UserRecord is the per-user configuration stored as one JSON object per
// user. Read-only here.
type UserRecord struct {
	AllowedIPs   []string `json:"allowed_ips"`
	PhoneNumbers []string `json:"phone_numbers"`
}
