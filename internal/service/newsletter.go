package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/logger"
	"sejour-pms/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var newsletterTemplate = template.Must(template.New("newsletter").Parse(`<!DOCTYPE html>
<html lang="fr">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Subject}}</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px; background-color: #f5f5f5; }
        .email-container { background-color: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1); }
        h1, h2, h3 { color: #1a1a1a; }
        a { color: #3b82f6; text-decoration: none; }
        .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; font-size: 0.875rem; color: #6b7280; text-align: center; }
        img { max-width: 100%; height: auto; }
    </style>
</head>
<body>
    <div class="email-container">
        {{.Content}}
        <div class="footer">
            <p>Envoyé par {{.FromName}}</p>
        </div>
    </div>
</body>
</html>
`))

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// RenderNewsletter converts the body to HTML when it is markdown and wraps it
// in the mail layout.
func RenderNewsletter(subject, content, contentType, fromName string) (string, error) {
	body := content
	if contentType != "html" {
		var buf bytes.Buffer
		if err := markdown.Convert([]byte(content), &buf); err != nil {
			return "", fmt.Errorf("failed to convert markdown: %w", err)
		}
		body = buf.String()
	}

	var out bytes.Buffer
	err := newsletterTemplate.Execute(&out, struct {
		Subject  string
		Content  template.HTML
		FromName string
	}{subject, template.HTML(body), fromName})
	if err != nil {
		return "", err
	}
	return out.String(), nil
}

type sendgridSender struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendGridSender(apiKey, fromEmail, fromName string) NewsletterSender {
	return &sendgridSender{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

func (s *sendgridSender) Send(ctx context.Context, to, subject, plainText, htmlContent string) error {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	message := mail.NewSingleEmail(from, subject, mail.NewEmail("", to), plainText, htmlContent)

	logger.ExternalServiceCall("SendGrid", "Send", "to", to)
	response, err := s.client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("SendGrid", "Send", err, "to", to)
	if err != nil {
		return fmt.Errorf("failed to send email via sendgrid: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid returned status %d: %s", response.StatusCode, response.Body)
	}
	return nil
}

type newsletterService struct {
	repo     repository.NewsletterRepository
	sender   NewsletterSender
	fromName string
	validate *validator.Validate
}

// NewNewsletterService builds the newsletter service. A nil sender disables
// sending.
func NewNewsletterService(repo repository.NewsletterRepository, sender NewsletterSender, fromName string) NewsletterService {
	return &newsletterService{
		repo:     repo,
		sender:   sender,
		fromName: fromName,
		validate: validator.New(),
	}
}

func (s *newsletterService) SendNewsletter(ctx context.Context, n *domain.Newsletter) error {
	logger.EnterMethod("newsletterService.SendNewsletter", "recipients", len(n.RecipientEmails))

	if s.sender == nil {
		return ErrMailDisabled
	}
	n.Subject = strings.TrimSpace(n.Subject)
	if n.Subject == "" || strings.TrimSpace(n.Content) == "" {
		return fmt.Errorf("%w: subject and content are required", ErrValidation)
	}
	if len(n.RecipientEmails) == 0 {
		return fmt.Errorf("%w: at least one recipient is required", ErrValidation)
	}
	for _, e := range n.RecipientEmails {
		if err := s.validate.Var(e, "required,email"); err != nil {
			return fmt.Errorf("%w: invalid recipient %q", ErrValidation, e)
		}
	}
	if n.ContentType == "" {
		n.ContentType = "markdown"
	}
	if n.ContentType != "markdown" && n.ContentType != "html" {
		return fmt.Errorf("%w: content_type must be markdown or html", ErrValidation)
	}

	htmlContent, err := RenderNewsletter(n.Subject, n.Content, n.ContentType, s.fromName)
	if err != nil {
		return err
	}

	n.Status = domain.NewsletterStatusPending
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}

	plain := n.Content
	if n.ContentType == "html" {
		plain = n.Subject
	}
	var failures []string
	for _, to := range n.RecipientEmails {
		if err := s.sender.Send(ctx, to, n.Subject, plain, htmlContent); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", to, err))
		}
	}

	if len(failures) > 0 {
		n.Status = domain.NewsletterStatusFailed
		n.ErrorMessage = strings.Join(failures, "\n")
	} else {
		n.Status = domain.NewsletterStatusSent
	}
	if err := s.repo.UpdateStatus(ctx, n.ID, n.Status, n.ErrorMessage); err != nil {
		logger.Error("Failed to record newsletter status", "newsletter_id", n.ID, "error", err)
	}

	if len(failures) > 0 {
		err := fmt.Errorf("%w: %d of %d recipient(s) failed", ErrDeliveryFailed, len(failures), len(n.RecipientEmails))
		logger.ExitMethodWithError("newsletterService.SendNewsletter", err, "newsletter_id", n.ID)
		return err
	}
	logger.ExitMethod("newsletterService.SendNewsletter", "newsletter_id", n.ID)
	return nil
}

func (s *newsletterService) ListNewsletters(ctx context.Context, etablissementID int32) ([]domain.Newsletter, error) {
	list, err := s.repo.List(ctx, etablissementID)
	if err != nil {
		return nil, err
	}
	if list == nil {
		list = []domain.Newsletter{}
	}
	return list, nil
}
