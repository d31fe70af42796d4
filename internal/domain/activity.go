package domain

import "time"

type ActivityLog struct {
	ID         int32     `json:"id"`
	Action     string    `json:"action"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Details    string    `json:"details,omitempty"`
	IPAddress  string    `json:"ip_address"`
	RequestID  string    `json:"request_id"`
	CreatedAt  time.Time `json:"created_at"`
}
