package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"github.com/motormate/motormate/internal/models"
)

// MQTT topics shared between the simulator and the subscribers.
const (
	TopicPosition = "motormate/position"
	TopicOBD      = "motormate/obd"
)

const connectTimeout = 10 * time.Second

// ConnectMQTT dials the broker and waits for the session to come up.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(connectTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("mqtt connect to %s timed out", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("mqtt connect to %s: %w", broker, err)
	}
	return client, nil
}

// deliveryGate serializes handler deliveries against channel close. Paho may
// still invoke a handler after Unsubscribe returns, so the gate refuses sends
// once closed instead of trusting the unsubscribe to quiesce them.
type deliveryGate struct {
	mu     sync.Mutex
	closed bool
}

// send delivers v unless the gate is closed, dropping it when the consumer is
// behind.
func send[T any](g *deliveryGate, out chan T, v T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return
	}
	select {
	case out <- v:
	default: // consumer is behind, drop the sample
	}
}

// close closes out once no delivery holds the gate.
func closeGated[T any](g *deliveryGate, out chan T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
	close(out)
}

// MQTTPositionSource consumes GPS samples published on TopicPosition.
type MQTTPositionSource struct {
	client mqtt.Client
}

// NewMQTTPositionSource wraps a connected client.
func NewMQTTPositionSource(client mqtt.Client) *MQTTPositionSource {
	return &MQTTPositionSource{client: client}
}

// Watch implements PositionSource. The subscription is released and the
// channel closed when ctx is cancelled; deliveries still in flight after the
// unsubscribe are discarded rather than sent.
func (s *MQTTPositionSource) Watch(ctx context.Context) (<-chan models.Position, error) {
	out := make(chan models.Position, 16)
	gate := &deliveryGate{}

	token := s.client.Subscribe(TopicPosition, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var pos models.Position
		if err := json.Unmarshal(msg.Payload(), &pos); err != nil {
			log.WithError(err).Warn("Dropping malformed position message")
			return
		}
		send(gate, out, pos)
	})
	if !token.WaitTimeout(connectTimeout) || token.Error() != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicPosition, token.Error())
	}

	go func() {
		<-ctx.Done()
		s.client.Unsubscribe(TopicPosition).WaitTimeout(connectTimeout)
		closeGated(gate, out)
	}()
	return out, nil
}

// Current implements PositionSource by waiting for the next published sample.
func (s *MQTTPositionSource) Current(ctx context.Context) (models.Position, error) {
	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := s.Watch(watchCtx)
	if err != nil {
		return models.Position{}, err
	}
	select {
	case pos, ok := <-stream:
		if !ok {
			return models.Position{}, ctx.Err()
		}
		return pos, nil
	case <-ctx.Done():
		return models.Position{}, ctx.Err()
	}
}

// MQTTSource consumes vehicle-bus frames published on TopicOBD.
type MQTTSource struct {
	client mqtt.Client
}

// NewMQTTSource wraps a connected client.
func NewMQTTSource(client mqtt.Client) *MQTTSource {
	return &MQTTSource{client: client}
}

// Subscribe implements Source with the same cancel discipline as Watch.
func (s *MQTTSource) Subscribe(ctx context.Context) (<-chan models.Telemetry, error) {
	out := make(chan models.Telemetry, 16)
	gate := &deliveryGate{}

	token := s.client.Subscribe(TopicOBD, 0, func(_ mqtt.Client, msg mqtt.Message) {
		var frame models.Telemetry
		if err := json.Unmarshal(msg.Payload(), &frame); err != nil {
			log.WithError(err).Warn("Dropping malformed telemetry message")
			return
		}
		send(gate, out, frame)
	})
	if !token.WaitTimeout(connectTimeout) || token.Error() != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicOBD, token.Error())
	}

	go func() {
		<-ctx.Done()
		s.client.Unsubscribe(TopicOBD).WaitTimeout(connectTimeout)
		closeGated(gate, out)
	}()
	return out, nil
}
