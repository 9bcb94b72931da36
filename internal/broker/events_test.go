package broker

import (
	"context"
	"errors"
	"testing"

	"printcraft-service/internal/models"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleMessageDropsUndecodablePayload(t *testing.T) {
	eh := NewEventHandler()

	called := false
	eh.OnPaymentSucceeded(func(ctx context.Context, event *models.PaymentSucceededEvent) error {
		called = true
		return nil
	})

	err := eh.HandleMessage(context.Background(), kafka.Message{Value: []byte("not json at all")})

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessageDropsMalformedTypedEvent(t *testing.T) {
	eh := NewEventHandler()

	called := false
	eh.OnPaymentSucceeded(func(ctx context.Context, event *models.PaymentSucceededEvent) error {
		called = true
		return nil
	})

	msg := kafka.Message{Value: []byte(`{"event_type":"PAYMENT_SUCCEEDED","order_id":"not-a-number"}`)}
	err := eh.HandleMessage(context.Background(), msg)

	assert.NoError(t, err)
	assert.False(t, called)
}

func TestHandleMessageRoutesPaymentSucceeded(t *testing.T) {
	eh := NewEventHandler()

	var gotOrderID int64
	eh.OnPaymentSucceeded(func(ctx context.Context, event *models.PaymentSucceededEvent) error {
		gotOrderID = event.OrderID
		return nil
	})

	msg := kafka.Message{Value: []byte(`{"event_type":"PAYMENT_SUCCEEDED","order_id":42,"amount":2220}`)}
	err := eh.HandleMessage(context.Background(), msg)

	require.NoError(t, err)
	assert.Equal(t, int64(42), gotOrderID)
}

func TestHandleMessagePropagatesHandlerError(t *testing.T) {
	eh := NewEventHandler()

	handlerErr := errors.New("store unavailable")
	eh.OnPaymentFailed(func(ctx context.Context, event *models.PaymentFailedEvent) error {
		return handlerErr
	})

	msg := kafka.Message{Value: []byte(`{"event_type":"PAYMENT_FAILED","order_id":7,"reason":"card declined"}`)}
	err := eh.HandleMessage(context.Background(), msg)

	assert.ErrorIs(t, err, handlerErr)
}
