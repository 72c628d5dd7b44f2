package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DroughtAlertQueue receives alert events for downstream notification
// services whenever an assessment fires the insurance trigger.
const DroughtAlertQueue = "drought_alert_events"

// DroughtAlertEvent is the payload published per triggered assessment.
type DroughtAlertEvent struct {
	FarmID         uuid.UUID `json:"farm_id"`
	AssessmentID   uuid.UUID `json:"assessment_id"`
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	RiskScore      int       `json:"risk_score"`
	RiskCategory   string    `json:"risk_category"`
	TriggerReasons string    `json:"trigger_reasons"`
	ClaimNumber    string    `json:"claim_number,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// AlertPublisher publishes drought alert events to RabbitMQ
type AlertPublisher struct {
	conn              *RabbitMQConnection
	messagesPublished int64
	messagesFailed    int64
	lastPublishTime   time.Time
}

// NewAlertPublisher creates a new drought alert publisher
func NewAlertPublisher(conn *RabbitMQConnection) *AlertPublisher {
	return &AlertPublisher{
		conn:            conn,
		lastPublishTime: time.Now(),
	}
}

// PublishAlert publishes one alert event to the drought_alert_events queue
func (p *AlertPublisher) PublishAlert(ctx context.Context, event DroughtAlertEvent) error {
	// Ensure the queue exists
	_, err := p.conn.Channel.QueueDeclare(
		DroughtAlertQueue, // queue name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}

	err = p.conn.Channel.PublishWithContext(
		ctx,
		"",                // exchange
		DroughtAlertQueue, // routing key (queue name)
		false,             // mandatory
		false,             // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
	if err != nil {
		p.messagesFailed++
		return fmt.Errorf("failed to publish alert event: %w", err)
	}

	p.messagesPublished++
	p.lastPublishTime = time.Now()

	slog.Info("Drought alert published",
		"queue", DroughtAlertQueue,
		"farm_id", event.FarmID,
		"risk_category", event.RiskCategory,
	)

	return nil
}
