package service

import (
	"context"
	"fmt"
	"io"

	"sejour-pms/internal/logger"

	"gopkg.in/gomail.v2"
)

// mailSender is satisfied by *gomail.Dialer.
type mailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer mailSender
	from   string
}

func NewEmailService(host string, port int, username, password, from string) EmailService {
	if host == "" {
		return &emailService{from: from}
	}
	return &emailService{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *emailService) SendInvoice(ctx context.Context, to, clientName, numero string, pdf []byte) error {
	if s.dialer == nil {
		return ErrMailDisabled
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("Facture %s", numero))

	name := clientName
	if name == "" {
		name = "Madame, Monsieur"
	}
	body := fmt.Sprintf("Bonjour %s,\n\nVeuillez trouver ci-joint la facture %s de votre séjour.\n\nMerci pour votre confiance!", name, numero)
	m.SetBody("text/plain", body)
	m.Attach(fmt.Sprintf("facture_%s.pdf", numero), gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(pdf)
		return err
	}))

	logger.ExternalServiceCall("SMTP", "SendInvoice", "to", to, "numero", numero)
	err := s.dialer.DialAndSend(m)
	logger.ExternalServiceResult("SMTP", "SendInvoice", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send invoice email: %w", err)
	}
	return nil
}
