// Package discord delivers webhook messages with embeds.
package discord

import (
	"context"
	"fmt"
	"time"

	"bookitnow-backend/lib/telemetry"

	"github.com/go-resty/resty/v2"
)

type Field struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type Footer struct {
	Text string `json:"text"`
}

type Embed struct {
	Description string  `json:"description,omitempty"`
	Color       int     `json:"color,omitempty"`
	Footer      *Footer `json:"footer,omitempty"`
	Fields      []Field `json:"fields,omitempty"`
}

type Message struct {
	Content string  `json:"content,omitempty"`
	Embeds  []Embed `json:"embeds,omitempty"`
}

type Webhook struct {
	url  string
	http *resty.Client
}

func NewWebhook(url string) *Webhook {
	client := resty.New()
	client.SetTimeout(time.Second * 30)
	telemetry.InstrumentResty(client, "discord/webhook")

	return &Webhook{
		url:  url,
		http: client,
	}
}

func (w *Webhook) Send(ctx context.Context, msg Message) error {
	res, err := w.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(msg).
		Post(w.url)
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("webhook delivery failed: %s: %s", res.Status(), res.String())
	}
	return nil
}
