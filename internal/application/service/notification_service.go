package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sangkips/laundry-pos/internal/domain/entity"
	"github.com/sangkips/laundry-pos/pkg/email"
)

// Notifier tells a customer about changes to their order
type Notifier interface {
	OrderReady(ctx context.Context, order *entity.Order) error
}

// EmailNotifier sends order notifications by e-mail
type EmailNotifier struct {
	email *email.EmailService
}

// NewEmailNotifier creates a notifier backed by SMTP
func NewEmailNotifier(svc *email.EmailService) *EmailNotifier {
	return &EmailNotifier{email: svc}
}

// OrderReady e-mails the customer that the order can be collected. Customers
// without an e-mail address and an unconfigured SMTP server are skipped.
func (n *EmailNotifier) OrderReady(ctx context.Context, order *entity.Order) error {
	if order.Customer == nil || order.Customer.Email == nil || *order.Customer.Email == "" {
		return nil
	}

	data := email.OrderReadyData{
		CustomerName:   order.Customer.Name,
		OrderNo:        order.OrderNo,
		CollectionDate: order.CollectionDate.Format("2006-01-02"),
		Total:          formatCents(order.Total),
	}
	if order.Due > 0 {
		data.Due = formatCents(order.Due)
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, email.OrderReadyLine{Name: item.Name, Quantity: item.Quantity})
	}

	err := n.email.SendOrderReadyEmail(*order.Customer.Email, data)
	if errors.Is(err, email.ErrNotConfigured) {
		log.Printf("notify: smtp not configured, skipping ready e-mail for %s", order.OrderNo)
		return nil
	}
	return err
}

func formatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}
