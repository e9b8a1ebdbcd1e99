package mail

import (
	"fmt"
	"net/smtp"

	"github.com/gofiber/fiber/v2/log"

	"github.com/FelixBrandt/StackDroid/internal/pkg/env"
)

// SendMail sends one HTML email via the configured SMTP relay.
func SendMail(to string, subject string, body string) error {
	host := env.GetEnv("SMTP_HOST", "")
	port := env.GetEnv("SMTP_PORT", "")
	username := env.GetEnv("SMTP_USERNAME", "")
	password := env.GetEnv("SMTP_PASSWORD", "")
	sender := env.GetEnv("SMTP_SENDER", "")

	if host == "" {
		return fmt.Errorf("SMTP_HOST is not configured")
	}
	if sender == "" {
		sender = "no-reply@localhost"
		log.Warnf("SMTP_SENDER not set, using default sender: %s", sender)
	}

	var auth smtp.Auth
	if username != "" && password != "" {
		auth = smtp.PlainAuth("", username, password, host)
	}

	addr := fmt.Sprintf("%s:%s", host, port)

	msg := []byte(
		fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n", sender, to, subject) +
			"MIME-Version: 1.0\r\n" +
			"Content-Type: text/html; charset=UTF-8\r\n\r\n" +
			body,
	)

	if err := smtp.SendMail(addr, auth, sender, []string{to}, msg); err != nil {
		log.Errorf("SMTP send to %s failed: %v", to, err)
		return err
	}
	return nil
}

// SendPurchaseReceipt mails a completion receipt. Best-effort: callers
// treat a failure as a logging matter, never a purchase failure.
func SendPurchaseReceipt(to, productName, mode string, amountCents int64) error {
	subject := fmt.Sprintf("Your StackDroid receipt for %s", productName)
	body := fmt.Sprintf(
		"<p>Thanks for your purchase.</p>"+
			"<p><strong>%s</strong> (%s)<br>Amount: $%d.%02d USD</p>"+
			"<p>Your purchase is active in your account dashboard.</p>",
		productName, mode, amountCents/100, amountCents%100,
	)
	return SendMail(to, subject, body)
}
