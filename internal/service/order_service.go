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

// OrderService handles order business logic
type OrderService struct {
	store          *store.Store
	eventPublisher *broker.EventPublisher
	logger         *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(store *store.Store, eventPublisher *broker.EventPublisher) *OrderService {
	return &OrderService{
		store:          store,
		eventPublisher: eventPublisher,
		logger:         util.GetLogger(),
	}
}

// CreateOrderRequest represents a checkout request: customer details plus
// the resolved cart lines
type CreateOrderRequest struct {
	CustomerName  string                        `json:"customer_name" binding:"required"`
	CustomerEmail string                        `json:"customer_email" binding:"required,email"`
	Items         []models.ProductConfiguration `json:"items" binding:"required,min=1"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	PaymentStatus string `json:"payment_status"`
	TotalAmount   int64  `json:"total_amount"`
}

// CreateOrder creates an order from resolved product configurations. The
// order starts pending/pending; the simulated payment pipeline advances it.
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*CreateOrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	var totalAmount int64
	for i := range req.Items {
		cfg := &req.Items[i]
		if cfg.GarmentQuantity < 1 || cfg.TransferQuantity < 1 {
			util.OrdersFailedTotal.WithLabelValues("invalid_items").Inc()
			return nil, fmt.Errorf("invalid quantities on item %d", i)
		}
		totalAmount += cfg.GrandTotal()
	}

	order := &models.Order{
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		Status:        models.OrderStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		TotalAmount:   totalAmount,
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		util.OrdersFailedTotal.WithLabelValues("db_error").Inc()
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	util.OrdersCreatedTotal.Inc()
	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("total_amount", totalAmount))

	eventItems := make([]models.OrderItemData, 0, len(req.Items))
	for i := range req.Items {
		cfg := &req.Items[i]
		item := &models.OrderItem{
			OrderID:          order.ID,
			GarmentID:        cfg.GarmentID,
			GarmentName:      cfg.GarmentName,
			ColorName:        cfg.ColorName,
			GarmentSize:      cfg.GarmentSize,
			Quantity:         cfg.GarmentQuantity,
			UnitPrice:        cfg.GarmentBasePrice,
			PrintSize:        cfg.PrintSize,
			Placement:        cfg.Placement,
			TransferQuantity: cfg.TransferQuantity,
			TransferTotal:    cfg.TransferTotal,
		}
		if err := s.store.CreateOrderItem(ctx, item); err != nil {
			return nil, fmt.Errorf("failed to create order item: %w", err)
		}

		eventItems = append(eventItems, models.OrderItemData{
			GarmentID:        cfg.GarmentID,
			GarmentName:      cfg.GarmentName,
			Quantity:         cfg.GarmentQuantity,
			UnitPrice:        cfg.GarmentBasePrice,
			TransferQuantity: cfg.TransferQuantity,
			TransferTotal:    cfg.TransferTotal,
		})
	}

	event := &models.OrderCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeOrderCreated,
			Timestamp: time.Now(),
		},
		OrderID:       order.ID,
		CustomerEmail: order.CustomerEmail,
		TotalAmount:   order.TotalAmount,
		Items:         eventItems,
	}

	if err := s.eventPublisher.PublishOrderCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
	}

	return &CreateOrderResponse{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		TotalAmount:   order.TotalAmount,
	}, nil
}

// GetOrder retrieves an order and its items
func (s *OrderService) GetOrder(ctx context.Context, orderID int64) (*models.Order, []models.OrderItem, error) {
	order, err := s.store.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	items, err := s.store.GetOrderItemsByOrderID(ctx, orderID)
	if err != nil {
		return nil, nil, err
	}

	return order, items, nil
}

// ListOrders lists orders, optionally filtered by fulfillment or payment
// status. Empty filters mean no filter.
func (s *OrderService) ListOrders(ctx context.Context, status, paymentStatus string) ([]models.Order, error) {
	switch {
	case status != "":
		if !models.ValidOrderStatus(status) {
			return nil, fmt.Errorf("unknown order status: %s", status)
		}
		return s.store.GetOrdersByStatus(ctx, status)
	case paymentStatus != "":
		if !models.ValidPaymentStatus(paymentStatus) {
			return nil, fmt.Errorf("unknown payment status: %s", paymentStatus)
		}
		return s.store.GetOrdersByPaymentStatus(ctx, paymentStatus)
	default:
		return s.store.ListOrders(ctx)
	}
}

// UpdateOrder applies a partial admin update, publishing a status-change
// event when the fulfillment status moves
func (s *OrderService) UpdateOrder(ctx context.Context, orderID int64, upd store.OrderUpdate) error {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	if upd.Status != nil && !models.ValidOrderStatus(*upd.Status) {
		return fmt.Errorf("unknown order status: %s", *upd.Status)
	}
	if upd.PaymentStatus != nil && !models.ValidPaymentStatus(*upd.PaymentStatus) {
		return fmt.Errorf("unknown payment status: %s", *upd.PaymentStatus)
	}

	var fromStatus string
	if upd.Status != nil {
		order, err := s.store.GetOrderByID(ctx, orderID)
		if err != nil {
			return err
		}
		fromStatus = order.Status
	}

	if err := s.store.UpdateOrder(ctx, orderID, upd); err != nil {
		return fmt.Errorf("failed to update order: %w", err)
	}

	if upd.Status != nil && *upd.Status != fromStatus {
		util.OrderStatusTransitions.WithLabelValues(*upd.Status).Inc()
		event := &models.OrderStatusChangedEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.New().String(),
				EventType: models.EventTypeOrderStatusChanged,
				Timestamp: time.Now(),
			},
			OrderID:    orderID,
			FromStatus: fromStatus,
			ToStatus:   *upd.Status,
		}
		if err := s.eventPublisher.PublishOrderStatusChanged(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderStatusChanged event", zap.Error(err))
		}
	}

	return nil
}
