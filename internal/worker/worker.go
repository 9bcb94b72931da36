package worker

import (
	"context"
	"encoding/json"
	"log"

	"printcraft-service/internal/broker"
	"printcraft-service/internal/models"
	"printcraft-service/internal/service"

	"github.com/segmentio/kafka-go"
)

// FulfillmentWorker advances orders through the print pipeline in response
// to payment events
type FulfillmentWorker struct {
	consumer     *broker.Consumer
	eventHandler *broker.EventHandler
	fulfillment  *service.Fulfillment
}

// NewFulfillmentWorker creates a new fulfillment worker
func NewFulfillmentWorker(consumer *broker.Consumer, fulfillment *service.Fulfillment) *FulfillmentWorker {
	eventHandler := broker.NewEventHandler()

	eventHandler.OnPaymentSucceeded(fulfillment.HandlePaymentSucceeded)
	eventHandler.OnPaymentFailed(fulfillment.HandlePaymentFailed)

	return &FulfillmentWorker{
		consumer:     consumer,
		eventHandler: eventHandler,
		fulfillment:  fulfillment,
	}
}

// Start starts the worker
func (w *FulfillmentWorker) Start(ctx context.Context) error {
	log.Println("Starting fulfillment worker...")
	return w.consumer.StartConsuming(ctx, w.eventHandler.HandleMessage)
}

// Stop stops the worker
func (w *FulfillmentWorker) Stop() error {
	log.Println("Stopping fulfillment worker...")
	return w.consumer.Close()
}

// PaymentWorker runs the simulated payment for every created order
type PaymentWorker struct {
	consumer       *broker.Consumer
	paymentService *service.PaymentService
}

// NewPaymentWorker creates a new payment worker
func NewPaymentWorker(consumer *broker.Consumer, paymentService *service.PaymentService) *PaymentWorker {
	return &PaymentWorker{
		consumer:       consumer,
		paymentService: paymentService,
	}
}

// Start starts the payment worker
func (pw *PaymentWorker) Start(ctx context.Context) error {
	log.Println("Starting payment worker...")
	return pw.consumer.StartConsuming(ctx, pw.handleMessage)
}

// handleMessage charges newly created orders. Undecodable payloads are
// logged and dropped so a poison message cannot block the partition.
func (pw *PaymentWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		log.Printf("Dropping undecodable event: %v", err)
		return nil
	}

	if baseEvent.EventType == models.EventTypeOrderCreated {
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Printf("Dropping malformed OrderCreated event: %v", err)
			return nil
		}

		log.Printf("Processing payment for order: %d", event.OrderID)

		return pw.paymentService.ProcessPayment(ctx, event.OrderID, event.TotalAmount)
	}

	return nil
}

// Stop stops the payment worker
func (pw *PaymentWorker) Stop() error {
	log.Println("Stopping payment worker...")
	return pw.consumer.Close()
}
