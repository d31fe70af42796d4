package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"sejour-pms/internal/domain"
	"sejour-pms/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRenderNewsletter(t *testing.T) {
	t.Run("Markdown", func(t *testing.T) {
		out, err := service.RenderNewsletter("Offres d'été", "# Bienvenue\n\nProfitez de **-20%**", "markdown", "Riad Atlas")
		require.NoError(t, err)
		assert.Contains(t, out, `<html lang="fr">`)
		assert.Contains(t, out, "<h1>Bienvenue</h1>")
		assert.Contains(t, out, "<strong>-20%</strong>")
		assert.Contains(t, out, "Envoyé par Riad Atlas")
	})

	t.Run("HTML is kept as is and the subject escaped", func(t *testing.T) {
		out, err := service.RenderNewsletter("<b>x</b>", "<p>Bonjour</p>", "html", "Riad")
		require.NoError(t, err)
		assert.Contains(t, out, "<p>Bonjour</p>")
		assert.Contains(t, out, "<title>&lt;b&gt;x&lt;/b&gt;</title>")
	})
}

func TestNewsletterService_SendNewsletter(t *testing.T) {
	ctx := context.Background()

	t.Run("Sent to every recipient", func(t *testing.T) {
		repo := new(MockNewsletterRepo)
		sender := new(MockNewsletterSender)
		n := &domain.Newsletter{Subject: "Promo", Content: "Hello", RecipientEmails: []string{"a@example.com", "b@example.com"}}
		repo.On("Create", ctx, n).Run(func(args mock.Arguments) { args.Get(1).(*domain.Newsletter).ID = 9 }).Return(nil)
		sender.On("Send", ctx, mock.AnythingOfType("string"), "Promo", "Hello", mock.MatchedBy(func(html string) bool {
			return strings.Contains(html, "<p>Hello</p>")
		})).Return(nil)
		repo.On("UpdateStatus", ctx, int32(9), domain.NewsletterStatusSent, "").Return(nil)

		svc := service.NewNewsletterService(repo, sender, "Riad")
		require.NoError(t, svc.SendNewsletter(ctx, n))
		assert.Equal(t, domain.NewsletterStatusSent, n.Status)
		assert.Equal(t, "markdown", n.ContentType)
		sender.AssertNumberOfCalls(t, "Send", 2)
		repo.AssertExpectations(t)
	})

	t.Run("Failure is recorded", func(t *testing.T) {
		repo := new(MockNewsletterRepo)
		sender := new(MockNewsletterSender)
		n := &domain.Newsletter{Subject: "Promo", Content: "Hello", RecipientEmails: []string{"a@example.com"}}
		repo.On("Create", ctx, n).Return(nil)
		sender.On("Send", ctx, "a@example.com", "Promo", "Hello", mock.Anything).Return(errors.New("403 forbidden"))
		repo.On("UpdateStatus", ctx, int32(0), domain.NewsletterStatusFailed, "a@example.com: 403 forbidden").Return(nil)

		svc := service.NewNewsletterService(repo, sender, "Riad")
		err := svc.SendNewsletter(ctx, n)
		assert.ErrorIs(t, err, service.ErrDeliveryFailed)
		assert.Equal(t, domain.NewsletterStatusFailed, n.Status)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid recipient", func(t *testing.T) {
		repo := new(MockNewsletterRepo)
		svc := service.NewNewsletterService(repo, new(MockNewsletterSender), "Riad")
		err := svc.SendNewsletter(ctx, &domain.Newsletter{Subject: "s", Content: "c", RecipientEmails: []string{"not-an-email"}})
		assert.ErrorIs(t, err, service.ErrValidation)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Disabled without sender", func(t *testing.T) {
		svc := service.NewNewsletterService(new(MockNewsletterRepo), nil, "Riad")
		err := svc.SendNewsletter(ctx, &domain.Newsletter{Subject: "s", Content: "c", RecipientEmails: []string{"a@example.com"}})
		assert.ErrorIs(t, err, service.ErrMailDisabled)
	})
}
