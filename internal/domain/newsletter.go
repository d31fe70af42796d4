package domain

import "time"

type NewsletterStatus string

const (
	NewsletterStatusPending NewsletterStatus = "pending"
	NewsletterStatusSent    NewsletterStatus = "sent"
	NewsletterStatusFailed  NewsletterStatus = "failed"
)

type Newsletter struct {
	ID              int32            `json:"id"`
	EtablissementID int32            `json:"etablissement_id"`
	Subject         string           `json:"subject"`
	Content         string           `json:"content"`
	ContentType     string           `json:"content_type"`
	RecipientEmails []string         `json:"recipient_emails"`
	Status          NewsletterStatus `json:"status"`
	ErrorMessage    string           `json:"error_message,omitempty"`
	SentAt          *time.Time       `json:"sent_at,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
}
