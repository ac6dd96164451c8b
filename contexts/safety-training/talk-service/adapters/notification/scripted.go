package notification

import (
	"context"
	"fmt"
	"sync"

	"toolbox/contexts/safety-training/talk-service/domain/entities"
)

type ScriptedSend struct {
	Address string
	Subject string
	Body    string
}

// ScriptedChannel is the in-memory channel used by tests and local wiring.
// It succeeds by default; individual addresses can be scripted to fail.
type ScriptedChannel struct {
	medium entities.Channel

	mu     sync.Mutex
	failed map[string]bool
	sent   []ScriptedSend
}

func NewScriptedChannel(medium entities.Channel) *ScriptedChannel {
	return &ScriptedChannel{
		medium: medium,
		failed: make(map[string]bool),
	}
}

func (c *ScriptedChannel) Medium() entities.Channel {
	return c.medium
}

// FailAddress makes every send to address fail until PassAddress.
func (c *ScriptedChannel) FailAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed[address] = true
}

func (c *ScriptedChannel) PassAddress(address string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.failed, address)
}

// Sent returns a copy of every delivered message, in order.
func (c *ScriptedChannel) Sent() []ScriptedSend {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ScriptedSend(nil), c.sent...)
}

func (c *ScriptedChannel) Send(_ context.Context, address string, subject string, body string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failed[address] {
		return fmt.Errorf("%s delivery refused for %s", c.medium, address)
	}
	c.sent = append(c.sent, ScriptedSend{Address: address, Subject: subject, Body: body})
	return nil
}
