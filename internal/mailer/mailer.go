// Package mailer sends transactional mail for order confirmations. The
// Resend HTTP API is used when RESEND_API_KEY is set; otherwise a log-only
// mailer stands in so checkout never depends on an external service.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"
)

type Mailer interface {
	SendOrderConfirmation(ctx context.Context, toEmail string, orderID int, total float64) error
}

// FakeMailer is a function-field fake for tests.
type FakeMailer struct {
	SendOrderConfirmationFn func(ctx context.Context, toEmail string, orderID int, total float64) error
}

func (f *FakeMailer) SendOrderConfirmation(ctx context.Context, toEmail string, orderID int, total float64) error {
	if f.SendOrderConfirmationFn != nil {
		return f.SendOrderConfirmationFn(ctx, toEmail, orderID, total)
	}
	panic("unexpected SendOrderConfirmation")
}

// LogMailer writes the confirmation to the process log instead of sending.
type LogMailer struct{}

func (LogMailer) SendOrderConfirmation(_ context.Context, toEmail string, orderID int, total float64) error {
	log.Printf("order confirmation for %s: order #%d, total %.2f", toEmail, orderID, total)
	return nil
}

type ResendMailer struct {
	apiKey  string
	from    string
	client  *http.Client
	baseURL string
}

func NewResendMailer(from string) (*ResendMailer, error) {
	key := os.Getenv("RESEND_API_KEY")
	if key == "" {
		return nil, errors.New("RESEND_API_KEY not set")
	}

	return &ResendMailer{
		apiKey: key,
		from:   from,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
		baseURL: "https://api.resend.com",
	}, nil
}

type sendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

func (m *ResendMailer) SendOrderConfirmation(ctx context.Context, toEmail string, orderID int, total float64) error {
	body := sendRequest{
		From:    m.from,
		To:      []string{toEmail},
		Subject: fmt.Sprintf("Order #%d confirmed", orderID),
		HTML: fmt.Sprintf(`
			<p>Thanks for your order!</p>
			<p>Order <strong>#%d</strong> was received and is now pending.</p>
			<p>Total: %.2f</p>
		`, orderID, total),
	}

	b, _ := json.Marshal(body)

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/emails",
		bytes.NewBuffer(b),
	)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(resp.Body)
		return errors.New("failed to send order confirmation: " + string(msg))
	}

	return nil
}
