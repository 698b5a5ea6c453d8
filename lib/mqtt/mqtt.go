// Package mqtt publishes scraper results as Home Assistant device state.
package mqtt

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	topicRoot         = "homeassistant/switch/bookitnow"
	availabilityTopic = topicRoot + "/available"
)

type Config struct {
	BrokerAddress string `json:"broker_address"`
	BrokerPort    int    `json:"broker_port"`
	Username      string `json:"username"`
	Password      string `json:"password"`
}

type Client struct {
	client paho.Client
}

func NewClient(cfg Config) (*Client, error) {
	opts := paho.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.BrokerAddress, cfg.BrokerPort))
	opts.SetClientID(uuid.NewString())
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetCleanSession(true)

	client := paho.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to mqtt broker: %w", token.Error())
	}

	c := &Client{client: client}
	c.publish(availabilityTopic, []byte("ONLINE"))
	return c, nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
}

// SetDeviceState flips a named switch ON or OFF. Fire-and-forget:
// broker errors are logged here, never surfaced to the scrape run.
func (c *Client) SetDeviceState(name string, on bool) {
	payload := "OFF"
	if on {
		payload = "ON"
	}
	c.publish(fmt.Sprintf("%s/%s/state", topicRoot, slug(name)), []byte(payload))
}

// PublishAttributes publishes a JSON attribute object for a named
// entity. Fire-and-forget like SetDeviceState.
func (c *Client) PublishAttributes(name string, attrs any) {
	payload, err := json.Marshal(attrs)
	if err != nil {
		slog.Error("failed to marshal mqtt attributes", "name", name, "err", err)
		return
	}
	c.publish(fmt.Sprintf("%s/%s/attributes", topicRoot, slug(name)), payload)
}

func (c *Client) publish(topic string, payload []byte) {
	token := c.client.Publish(topic, 0, true, payload)
	go func() {
		if token.Wait() && token.Error() != nil {
			slog.Error("mqtt publish failed", "topic", topic, "err", token.Error())
		}
	}()
}

func slug(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
}
