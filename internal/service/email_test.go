package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestEmailService_SendInvoice(t *testing.T) {
	ctx := context.Background()

	t.Run("Disabled without SMTP host", func(t *testing.T) {
		svc := NewEmailService("", 0, "", "", "hotel@example.com")
		err := svc.SendInvoice(ctx, "guest@example.com", "", "RES-1", []byte("%PDF"))
		assert.ErrorIs(t, err, ErrMailDisabled)
	})

	t.Run("Sends with headers", func(t *testing.T) {
		d := &recordingDialer{}
		svc := &emailService{dialer: d, from: "hotel@example.com"}

		err := svc.SendInvoice(ctx, "guest@example.com", "Paul Martin", "RES-1", []byte("%PDF"))
		require.NoError(t, err)
		require.Len(t, d.sent, 1)
		assert.Equal(t, []string{"guest@example.com"}, d.sent[0].GetHeader("To"))
		assert.Equal(t, []string{"Facture RES-1"}, d.sent[0].GetHeader("Subject"))
	})

	t.Run("Wraps dialer errors", func(t *testing.T) {
		d := &recordingDialer{err: errors.New("connection refused")}
		svc := &emailService{dialer: d, from: "hotel@example.com"}

		err := svc.SendInvoice(ctx, "guest@example.com", "", "RES-1", nil)
		assert.ErrorContains(t, err, "connection refused")
	})
}
