package callerid

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
)

const (
	mqttConnectTimeout = 10 * time.Second
	mqttPublishTimeout = 5 * time.Second
)

var ErrMQTTTimeout = errors.New("mqtt publish timed out")

// MQTTPublisher sends received caller ID to a broker, one JSON object
// per message, on <topic_prefix>/<channel>/callerid.
type MQTTPublisher struct {
	client mqtt.Client
	config MQTTConfig
}

func NewMQTTPublisher(config MQTTConfig) (*MQTTPublisher, error) {
	var opts = mqtt.NewClientOptions()
	opts.AddBroker(config.Broker)
	opts.SetClientID("callerid_" + uuid.NewString()[:8])

	if config.Username != "" {
		opts.SetUsername(config.Username)
	}
	if config.Password != "" {
		opts.SetPassword(config.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(10 * time.Second)
	opts.SetKeepAlive(60 * time.Second)

	opts.SetOnConnectHandler(func(client mqtt.Client) {
		logger.Info("mqtt connected", "broker", config.Broker)
	})
	opts.SetConnectionLostHandler(func(client mqtt.Client, err error) {
		logger.Warn("mqtt connection lost", "err", err)
	})

	var client = mqtt.NewClient(opts)

	// With connect retry the token isn't done until the broker answers.
	var token = client.Connect()
	if !token.WaitTimeout(mqttConnectTimeout) {
		logger.Warn("mqtt broker not answering, will keep trying", "broker", config.Broker)
	} else if token.Error() != nil {
		return nil, fmt.Errorf("connect to mqtt broker %s: %w", config.Broker, token.Error())
	}

	return &MQTTPublisher{client: client, config: config}, nil
}

func mqttTopic(prefix string, ev Event) string {
	var channel = IfThenElse(ev.Channel == "", "0", ev.Channel)

	return fmt.Sprintf("%s/%s/callerid", prefix, channel)
}

func eventPayload(ev Event) ([]byte, error) {
	return json.Marshal(ev) //nolint:wrapcheck
}

func (p *MQTTPublisher) Publish(ev Event) error {
	var data, err = eventPayload(ev)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	var topic = mqttTopic(p.config.TopicPrefix, ev)

	var token = p.client.Publish(topic, p.config.QoS, p.config.Retain, data)
	if !token.WaitTimeout(mqttPublishTimeout) {
		return fmt.Errorf("%w: %s", ErrMQTTTimeout, topic)
	}

	if token.Error() != nil {
		return fmt.Errorf("publish to %s: %w", topic, token.Error())
	}

	return nil
}

func (p *MQTTPublisher) Close() {
	if p.client != nil && p.client.IsConnected() {
		p.client.Disconnect(250)
	}
}
