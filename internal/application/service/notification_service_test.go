package service

import (
	"context"
	"net/smtp"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/laundry-pos/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailNotifier_SendsReadyMail(t *testing.T) {
	var to []string
	var body string
	svc := email.NewEmailService(email.EmailConfig{SMTPHost: "smtp.test", SMTPPort: 25, FromEmail: "desk@freshfold.test", StoreName: "Fresh Fold"}).
		WithSender(func(addr string, a smtp.Auth, from string, rcpt []string, msg []byte) error {
			to = rcpt
			body = string(msg)
			return nil
		})

	order := sampleOrder(time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
	order.Customer.Email = strPtr("jane@example.com")

	require.NoError(t, NewEmailNotifier(svc).OrderReady(context.Background(), order))

	assert.Equal(t, []string{"jane@example.com"}, to)
	assert.Contains(t, body, "LND-SAMPLE01")
	assert.Contains(t, body, "1063.50")
}

func TestEmailNotifier_SkipsWithoutAddressOrSMTP(t *testing.T) {
	calls := 0
	sender := func(addr string, a smtp.Auth, from string, rcpt []string, msg []byte) error {
		calls++
		return nil
	}
	order := sampleOrder(time.Now())

	configured := email.NewEmailService(email.EmailConfig{SMTPHost: "smtp.test"}).WithSender(sender)
	require.NoError(t, NewEmailNotifier(configured).OrderReady(context.Background(), order))

	order.Customer.Email = strPtr("jane@example.com")
	unconfigured := email.NewEmailService(email.EmailConfig{}).WithSender(sender)
	require.NoError(t, NewEmailNotifier(unconfigured).OrderReady(context.Background(), order))

	assert.Zero(t, calls)
}

func TestFormatCents(t *testing.T) {
	assert.Equal(t, "0.05", formatCents(5))
	assert.Equal(t, "1475.00", formatCents(147500))
	assert.True(t, strings.HasPrefix(formatCents(-250), "-2.50"))
}
