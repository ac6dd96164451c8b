package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
)

// SMSChannel posts messages to a JSON-over-HTTP SMS gateway. The client
// carries its own timeout so a stuck gateway reports failure instead of
// blocking the distribution batch.
type SMSChannel struct {
	gatewayURL string
	apiKey     string
	from       string
	client     *http.Client
}

func NewSMSChannel(gatewayURL, apiKey, from string) *SMSChannel {
	return &SMSChannel{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		from:       from,
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *SMSChannel) Medium() entities.Channel {
	return entities.ChannelSMS
}

type smsRequest struct {
	To   string `json:"to"`
	From string `json:"from"`
	Body string `json:"body"`
}

func (c *SMSChannel) Send(ctx context.Context, address string, _ string, body string) error {
	payload, err := json.Marshal(smsRequest{To: address, From: c.from, Body: body})
	if err != nil {
		return fmt.Errorf("marshal sms request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send sms request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("sms gateway error: %s", resp.Status)
	}
	return nil
}
