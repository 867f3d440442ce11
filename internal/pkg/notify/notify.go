package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gostockflow/internal/pkg/cache"
	"gostockflow/internal/pkg/clock"
	"gostockflow/internal/pkg/logger"
)

const (
	EventApproved = "stock_request.approved"
	EventRejected = "stock_request.rejected"
)

// Notifier é o destino das notificações de transição. A entrega é best-effort:
// uma falha aqui nunca desfaz a transição já confirmada.
type Notifier interface {
	NotifyApproved(ctx context.Context, requestID, managerID int64) error
	NotifyRejected(ctx context.Context, requestID, managerID int64) error
}

// Event é o payload publicado para consumidores externos (e.g. o serviço de e-mail).
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	RequestID  int64     `json:"request_id"`
	ManagerID  int64     `json:"manager_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher é o subconjunto do cliente de cache usado para pub/sub.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) error
}

var _ Publisher = (cache.Client)(nil)

// RedisPublisher publica eventos JSON num canal Redis.
type RedisPublisher struct {
	client  Publisher
	channel string
	clock   clock.Clock
}

func NewRedisPublisher(client Publisher, channel string, clk clock.Clock) *RedisPublisher {
	if clk == nil {
		clk = clock.RealClock{}
	}
	return &RedisPublisher{client: client, channel: channel, clock: clk}
}

func (p *RedisPublisher) NotifyApproved(ctx context.Context, requestID, managerID int64) error {
	return p.publish(ctx, EventApproved, requestID, managerID)
}

func (p *RedisPublisher) NotifyRejected(ctx context.Context, requestID, managerID int64) error {
	return p.publish(ctx, EventRejected, requestID, managerID)
}

func (p *RedisPublisher) publish(ctx context.Context, eventType string, requestID, managerID int64) error {
	payload, err := json.Marshal(Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		RequestID:  requestID,
		ManagerID:  managerID,
		OccurredAt: p.clock.Now(),
	})
	if err != nil {
		return fmt.Errorf("falha ao serializar evento %s: %w", eventType, err)
	}
	if err := p.client.Publish(ctx, p.channel, payload); err != nil {
		return fmt.Errorf("falha ao publicar evento %s no canal %s: %w", eventType, p.channel, err)
	}
	return nil
}

// LogNotifier apenas registra os eventos no log. Usado quando não há Redis.
type LogNotifier struct {
	log logger.Logger
}

func NewLogNotifier(log logger.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) NotifyApproved(ctx context.Context, requestID, managerID int64) error {
	n.log.Info("Notificação: requisição aprovada", map[string]interface{}{"request_id": requestID, "manager_id": managerID})
	return nil
}

func (n *LogNotifier) NotifyRejected(ctx context.Context, requestID, managerID int64) error {
	n.log.Info("Notificação: requisição rejeitada", map[string]interface{}{"request_id": requestID, "manager_id": managerID})
	return nil
}
