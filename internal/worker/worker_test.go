package worker

import (
	"context"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
)

func TestPaymentWorkerDropsUndecodablePayload(t *testing.T) {
	pw := &PaymentWorker{}

	err := pw.handleMessage(context.Background(), kafka.Message{Value: []byte("{{{")})

	assert.NoError(t, err)
}

func TestPaymentWorkerDropsMalformedOrderCreated(t *testing.T) {
	pw := &PaymentWorker{}

	msg := kafka.Message{Value: []byte(`{"event_type":"ORDER_CREATED","order_id":"not-a-number"}`)}
	err := pw.handleMessage(context.Background(), msg)

	assert.NoError(t, err)
}

func TestPaymentWorkerIgnoresUnrelatedEvents(t *testing.T) {
	pw := &PaymentWorker{}

	msg := kafka.Message{Value: []byte(`{"event_type":"ORDER_STATUS_CHANGED","order_id":5}`)}
	err := pw.handleMessage(context.Background(), msg)

	assert.NoError(t, err)
}
