// Package notification holds the NotificationChannel adapters: SMTP email,
// an HTTP SMS gateway, and a scripted channel for tests.
package notification

import (
	"context"
	"fmt"

	"toolbox/contexts/safety-training/talk-service/domain/entities"

	mail "gopkg.in/mail.v2"
)

type EmailChannel struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewEmailChannel(host string, port int, username, password, from string) *EmailChannel {
	return &EmailChannel{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (c *EmailChannel) Medium() entities.Channel {
	return entities.ChannelEmail
}

func (c *EmailChannel) Send(ctx context.Context, address string, subject string, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	message := mail.NewMessage()
	message.SetHeader("From", c.from)
	message.SetHeader("To", address)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)

	dialer := mail.NewDialer(c.host, c.port, c.username, c.password)
	if err := dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
