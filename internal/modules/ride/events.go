// README: Ride confirmation events published to Kafka.
package ride

import (
	"context"
	"encoding/json"
	"time"

	"github.com/segmentio/kafka-go"
)

const publishTimeout = 2 * time.Second

type EventPublisher interface {
	PublishRideConfirmed(ctx context.Context, r Ride) error
}

type rideConfirmedEvent struct {
	Type        string    `json:"type"`
	RideID      int64     `json:"ride_id"`
	CustomerID  string    `json:"customer_id"`
	Date        time.Time `json:"date"`
	Origin      string    `json:"origin"`
	Destination string    `json:"destination"`
	Distance    float64   `json:"distance"`
	Duration    string    `json:"duration"`
	DriverID    int64     `json:"driver_id"`
	DriverName  string    `json:"driver_name"`
	Value       float64   `json:"value"`
}

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}}
}

// PublishRideConfirmed writes one event keyed by customer id, so a customer's rides
// land on the same partition in order.
func (k *KafkaPublisher) PublishRideConfirmed(ctx context.Context, r Ride) error {
	msg, err := rideConfirmedMessage(r)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return k.writer.WriteMessages(ctx, msg)
}

func rideConfirmedMessage(r Ride) (kafka.Message, error) {
	b, err := json.Marshal(rideConfirmedEvent{
		Type:        "ride.confirmed",
		RideID:      r.ID,
		CustomerID:  r.CustomerID,
		Date:        r.Date,
		Origin:      r.Origin,
		Destination: r.Destination,
		Distance:    r.DistanceMeters,
		Duration:    r.DurationText,
		DriverID:    r.DriverID,
		DriverName:  r.DriverName,
		Value:       r.Value,
	})
	if err != nil {
		return kafka.Message{}, err
	}
	return kafka.Message{Key: []byte(r.CustomerID), Value: b}, nil
}

func (k *KafkaPublisher) Close() error {
	if k.writer == nil {
		return nil
	}
	return k.writer.Close()
}

type nopPublisher struct{}

func (nopPublisher) PublishRideConfirmed(context.Context, Ride) error { return nil }
