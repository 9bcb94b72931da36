package service

import (
	"context"
	"fmt"
	"time"

	"printcraft-service/internal/broker"
	"printcraft-service/internal/models"
	"printcraft-service/internal/store"
	"printcraft-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// defaultPrintStepDelay is the simulated duration of each print shop step
const defaultPrintStepDelay = 3 * time.Second

// fulfillmentStore is the slice of storage the fulfillment pipeline drives
type fulfillmentStore interface {
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
	IsEventProcessed(ctx context.Context, eventID string) (bool, error)
	MarkEventProcessed(ctx context.Context, eventID, eventType string) error
}

// statusPublisher publishes order status change events
type statusPublisher interface {
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
}

// Fulfillment advances orders through the print pipeline in response to
// payment events: a paid order moves into processing, then through the
// simulated DTF press cycle to printed and pressed. Failed payments fail
// the order. Shipping onward stays a manual admin step.
type Fulfillment struct {
	store          fulfillmentStore
	eventPublisher statusPublisher
	logger         *zap.Logger
	stepDelay      time.Duration
}

// NewFulfillment creates a new fulfillment handler
func NewFulfillment(store *store.Store, eventPublisher *broker.EventPublisher) *Fulfillment {
	return &Fulfillment{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		stepDelay:      defaultPrintStepDelay,
	}
}

// HandlePaymentSucceeded marks the order paid and runs it through the print
// pipeline
func (f *Fulfillment) HandlePaymentSucceeded(ctx context.Context, event *models.PaymentSucceededEvent) error {
	ctx, span := util.StartSpan(ctx, "Fulfillment.HandlePaymentSucceeded")
	defer span.End()

	processed, err := f.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		f.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	f.logger.Info("Handling payment success",
		zap.Int64("order_id", event.OrderID),
		zap.String("tx_id", event.TxID))

	if err := f.transition(ctx, event.OrderID, models.OrderStatusPaid); err != nil {
		return err
	}
	if err := f.transition(ctx, event.OrderID, models.OrderStatusProcessing); err != nil {
		f.logger.Error("Failed to queue order for processing", zap.Error(err))
		return err
	}

	f.runPrintPipeline(ctx, event.OrderID)

	if err := f.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		f.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

// HandlePaymentFailed fails the order
func (f *Fulfillment) HandlePaymentFailed(ctx context.Context, event *models.PaymentFailedEvent) error {
	ctx, span := util.StartSpan(ctx, "Fulfillment.HandlePaymentFailed")
	defer span.End()

	processed, err := f.store.IsEventProcessed(ctx, event.EventID)
	if err != nil {
		return fmt.Errorf("failed to check event processed: %w", err)
	}
	if processed {
		f.logger.Info("Event already processed", zap.String("event_id", event.EventID))
		return nil
	}

	f.logger.Warn("Handling payment failure",
		zap.Int64("order_id", event.OrderID),
		zap.String("reason", event.Reason))

	if err := f.transition(ctx, event.OrderID, models.OrderStatusFailed); err != nil {
		return err
	}

	if err := f.store.MarkEventProcessed(ctx, event.EventID, event.EventType); err != nil {
		f.logger.Error("Failed to mark event processed", zap.Error(err))
	}
	return nil
}

// runPrintPipeline simulates the DTF press cycle: the transfer prints, then
// gets heat-pressed onto the garment. Each step takes stepDelay; a failed
// transition or a cancelled context leaves the order at its current status
// for the admin surface to pick up.
func (f *Fulfillment) runPrintPipeline(ctx context.Context, orderID int64) {
	for _, status := range []string{models.OrderStatusPrinted, models.OrderStatusPressed} {
		select {
		case <-ctx.Done():
			f.logger.Warn("Print pipeline interrupted",
				zap.Int64("order_id", orderID),
				zap.String("pending_status", status))
			return
		case <-time.After(f.stepDelay):
		}

		if err := f.transition(ctx, orderID, status); err != nil {
			f.logger.Error("Print pipeline transition failed",
				zap.Int64("order_id", orderID),
				zap.String("status", status),
				zap.Error(err))
			return
		}
	}
}

// transition moves an order to a new fulfillment status and publishes the
// change
func (f *Fulfillment) transition(ctx context.Context, orderID int64, to string) error {
	order, err := f.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return err
	}

	if err := f.store.UpdateOrderStatus(ctx, orderID, to); err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}
	util.OrderStatusTransitions.WithLabelValues(to).Inc()

	event := &models.OrderStatusChangedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderStatusChanged,
			Timestamp: time.Now(),
		},
		OrderID:    orderID,
		FromStatus: order.Status,
		ToStatus:   to,
	}
	if err := f.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
		f.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
	}
	return nil
}
