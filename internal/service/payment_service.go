package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"printcraft-service/internal/broker"
	"printcraft-service/internal/models"
	"printcraft-service/internal/store"
	"printcraft-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService simulates the payment provider. Real payment processing is
// out of scope; this stands in so the order pipeline can be exercised end
// to end.
type PaymentService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
	successRate    float64
}

// NewPaymentService creates a new payment service
func NewPaymentService(store *store.Store, eventPublisher *broker.EventPublisher) *PaymentService {
	return &PaymentService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
		successRate:    0.9,
	}
}

// ProcessPayment simulates charging an order and records the outcome
func (ps *PaymentService) ProcessPayment(ctx context.Context, orderID int64, amount int64) error {
	ctx, span := util.StartSpan(ctx, "PaymentService.ProcessPayment")
	defer span.End()

	util.PaymentAttemptsTotal.Inc()

	ps.logger.Info("Processing payment",
		zap.Int64("order_id", orderID),
		zap.Int64("amount", amount))

	// Simulated provider latency.
	time.Sleep(time.Duration(100+rand.Intn(400)) * time.Millisecond)

	success := rand.Float64() < ps.successRate
	txID := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])

	if success {
		ps.logger.Info("Payment succeeded",
			zap.Int64("order_id", orderID),
			zap.String("tx_id", txID))

		if err := ps.store.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusPaid); err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}

		util.PaymentSuccessTotal.Inc()

		event := &models.PaymentSucceededEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypePaymentSucceeded,
				Timestamp: time.Now(),
			},
			OrderID: orderID,
			Amount:  amount,
			TxID:    txID,
		}
		if err := ps.eventPublisher.PublishPaymentSucceeded(ctx, event); err != nil {
			ps.logger.Error("Failed to publish PaymentSucceeded event", zap.Error(err))
		}
		return nil
	}

	ps.logger.Warn("Payment failed", zap.Int64("order_id", orderID))

	if err := ps.store.UpdatePaymentStatus(ctx, orderID, models.PaymentStatusFailed); err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}

	util.PaymentFailedTotal.Inc()

	event := &models.PaymentFailedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePaymentFailed,
			Timestamp: time.Now(),
		},
		OrderID: orderID,
		Reason:  "simulated_payment_declined",
	}
	if err := ps.eventPublisher.PublishPaymentFailed(ctx, event); err != nil {
		ps.logger.Error("Failed to publish PaymentFailed event", zap.Error(err))
	}
	return nil
}
