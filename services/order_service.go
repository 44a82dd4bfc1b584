package services

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"shopzeo-backend/kafka"
	"shopzeo-backend/models"
	awspkg "shopzeo-backend/pkg/aws"
	"shopzeo-backend/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// OrderService defines the business logic interface for orders.
type OrderService interface {
	CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError)
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	ListOrdersByStore(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError)
	ListAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError)
	UpdateStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, *ServiceError)
	CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError)
	HandlePaymentCallback(ctx context.Context, id uuid.UUID, req *models.PaymentCallbackRequest) (*models.Order, *ServiceError)
	DeleteOrder(ctx context.Context, id uuid.UUID) *ServiceError
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	storeRepo   repository.StoreRepository
	walletRepo  repository.WalletRepository
	producer    kafka.ProducerAPI
	snsClient   awspkg.SNSPublisher
	snsTopicArn string
	logger      *zap.Logger
}

// NewOrderService creates a new OrderService. producer and snsClient may be
// nil; event publication is then skipped.
func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	storeRepo repository.StoreRepository,
	walletRepo repository.WalletRepository,
	producer kafka.ProducerAPI,
	snsClient awspkg.SNSPublisher,
	snsTopicArn string,
	logger *zap.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		storeRepo:   storeRepo,
		walletRepo:  walletRepo,
		producer:    producer,
		snsClient:   snsClient,
		snsTopicArn: snsTopicArn,
		logger:      logger,
	}
}

// generateOrderNumber builds a human-readable unique order number.
func generateOrderNumber() string {
	const alphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
	suffix := make([]byte, 6)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
		if err != nil {
			suffix[i] = alphabet[0]
			continue
		}
		suffix[i] = alphabet[n.Int64()]
	}
	return fmt.Sprintf("ORD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}

// CreateOrder validates the cart against a single approved store, captures
// current prices, decrements stock and persists the order in pending status.
func (s *orderServiceImpl) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *ServiceError) {
	storeID, err := uuid.Parse(req.StoreID)
	if err != nil {
		return nil, badRequestError("Invalid store id")
	}

	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Store not found")
		}
		s.logger.Error("Failed to load store for checkout", zap.Error(err))
		return nil, internalError("Failed to create order")
	}
	if store.Status != models.StoreStatusApproved {
		return nil, newServiceError(http.StatusForbidden, "Store is not accepting orders")
	}

	var subtotal, tax float64
	items := make([]models.OrderItem, 0, len(req.Items))

	// Stock decremented so far. Released again if the checkout fails before
	// the order row is persisted.
	type reservation struct {
		productID uuid.UUID
		qty       int
	}
	reserved := make([]reservation, 0, len(req.Items))
	restock := func() {
		for _, r := range reserved {
			if err := s.productRepo.IncrementStock(ctx, r.productID, r.qty); err != nil {
				s.logger.Error("Failed to release reserved stock",
					zap.String("product_id", r.productID.String()),
					zap.Int("quantity", r.qty),
					zap.Error(err))
			}
		}
	}

	for _, line := range req.Items {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			restock()
			return nil, badRequestError("Invalid product id: " + line.ProductID)
		}
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				restock()
				return nil, notFoundError("Product not found: " + line.ProductID)
			}
			s.logger.Error("Failed to load product for checkout", zap.Error(err))
			restock()
			return nil, internalError("Failed to create order")
		}
		if product.StoreID != storeID {
			restock()
			return nil, badRequestError("Product " + product.Code + " does not belong to the store")
		}
		if !product.IsActive {
			restock()
			return nil, badRequestError("Product " + product.Code + " is not available")
		}

		if err := s.productRepo.DecrementStock(ctx, productID, line.Quantity); err != nil {
			if errors.Is(err, repository.ErrInsufficientStock) {
				restock()
				return nil, conflictError("Insufficient stock for product " + product.Code)
			}
			s.logger.Error("Stock decrement failed", zap.String("product_id", productID.String()), zap.Error(err))
			restock()
			return nil, internalError("Failed to create order")
		}
		reserved = append(reserved, reservation{productID: productID, qty: line.Quantity})

		lineTotal := product.SellingPrice * float64(line.Quantity)
		subtotal += lineTotal
		tax += lineTotal * product.TaxRate / 100

		items = append(items, models.OrderItem{
			ProductID: productID,
			Quantity:  line.Quantity,
			Price:     product.SellingPrice,
		})
	}

	total := subtotal + tax + req.Shipping - req.Discount
	if total < 0 {
		restock()
		return nil, badRequestError("Discount exceeds order value")
	}
	commission := subtotal * store.CommissionRate
	billing := req.BillingAddress
	if billing == (models.Address{}) {
		billing = req.ShippingAddress
	}

	order := &models.Order{
		OrderNumber:     generateOrderNumber(),
		UserID:          userID,
		StoreID:         storeID,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		Subtotal:        subtotal,
		Tax:             tax,
		Shipping:        req.Shipping,
		Discount:        req.Discount,
		Total:           total,
		Commission:      commission,
		VendorPayout:    total - commission,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  billing,
		OrderItems:      items,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("Failed to persist order", zap.Error(err))
		restock()
		return nil, internalError("Failed to create order")
	}

	s.publishOrderEvent(ctx, "order.placed", order, "", order.Status)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// GetOrder retrieves one order with its items.
func (s *orderServiceImpl) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, internalError("Failed to retrieve order")
	}
	return order, nil
}

func (s *orderServiceImpl) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindByUserID(ctx, userID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list user orders", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve orders")
	}
	return orders, total, nil
}

func (s *orderServiceImpl) ListOrdersByStore(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindByStoreID(ctx, storeID, page, limit)
	if err != nil {
		s.logger.Error("Failed to list store orders", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve orders")
	}
	return orders, total, nil
}

func (s *orderServiceImpl) ListAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *ServiceError) {
	orders, total, err := s.orderRepo.FindAll(ctx, page, limit)
	if err != nil {
		s.logger.Error("Failed to list orders", zap.Error(err))
		return nil, 0, internalError("Failed to retrieve orders")
	}
	return orders, total, nil
}

// UpdateStatus moves an order through the lifecycle. The write is guarded on
// the current status so concurrent transitions cannot both win; the loser gets
// a conflict. Delivered and returned trigger the wallet side effects.
func (s *orderServiceImpl) UpdateStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, *ServiceError) {
	if !models.ValidOrderStatus(next) {
		return nil, badRequestError("Unknown order status: " + string(next))
	}

	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, internalError("Failed to update order status")
	}

	if !order.CanTransitionTo(next) {
		return nil, conflictError(fmt.Sprintf("InvalidTransition(%s -> %s)", order.Status, next))
	}

	return s.applyTransition(ctx, order, next)
}

// CancelOrder cancels an order while it is still editable.
func (s *orderServiceImpl) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, internalError("Failed to cancel order")
	}

	if !order.IsCancellable() {
		return nil, conflictError(fmt.Sprintf("Order in status %s cannot be cancelled", order.Status))
	}

	return s.applyTransition(ctx, order, models.OrderStatusCancelled)
}

// applyTransition performs the guarded write and the post-transition side
// effects. order.Status is the expected current status.
func (s *orderServiceImpl) applyTransition(ctx context.Context, order *models.Order, next models.OrderStatus) (*models.Order, *ServiceError) {
	from := order.Status

	var deliveredAt *time.Time
	if next == models.OrderStatusDelivered {
		now := time.Now().UTC()
		deliveredAt = &now
	}

	applied, err := s.orderRepo.TransitionStatus(ctx, order.ID, from, next, deliveredAt)
	if err != nil {
		s.logger.Error("Order status update failed", zap.String("order_id", order.ID.String()), zap.Error(err))
		return nil, internalError("Failed to update order status")
	}
	if !applied {
		// Somebody transitioned the order between our read and write.
		return nil, conflictError(fmt.Sprintf("InvalidTransition(%s -> %s)", from, next))
	}

	switch next {
	case models.OrderStatusDelivered:
		s.creditVendor(ctx, order)
	case models.OrderStatusReturned:
		s.debitVendor(ctx, order)
	}

	s.publishOrderEvent(ctx, "order.status_changed", order, from, next)

	updated, err := s.orderRepo.FindByID(ctx, order.ID)
	if err != nil {
		s.logger.Error("Failed to reload order after transition", zap.Error(err))
		return nil, internalError("Failed to update order status")
	}
	return updated, nil
}

// creditVendor pays the store its payout for a delivered order.
func (s *orderServiceImpl) creditVendor(ctx context.Context, order *models.Order) {
	wallet, err := s.walletRepo.FindByStoreID(ctx, order.StoreID)
	if err != nil {
		s.logger.Error("Wallet lookup failed for payout",
			zap.String("order_id", order.ID.String()),
			zap.String("store_id", order.StoreID.String()),
			zap.Error(err))
		return
	}
	orderID := order.ID
	note := "Payout for order " + order.OrderNumber
	if _, err := s.walletRepo.ApplyTransaction(ctx, wallet.ID, models.TransactionTypeCredit, order.VendorPayout, &orderID, note); err != nil {
		s.logger.Error("Vendor payout credit failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// debitVendor claws back the payout when a delivered order is returned.
func (s *orderServiceImpl) debitVendor(ctx context.Context, order *models.Order) {
	wallet, err := s.walletRepo.FindByStoreID(ctx, order.StoreID)
	if err != nil {
		s.logger.Error("Wallet lookup failed for clawback",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
		return
	}
	orderID := order.ID
	note := "Clawback for returned order " + order.OrderNumber
	if _, err := s.walletRepo.ApplyTransaction(ctx, wallet.ID, models.TransactionTypeDebit, order.VendorPayout, &orderID, note); err != nil {
		s.logger.Error("Vendor payout clawback failed",
			zap.String("order_id", order.ID.String()),
			zap.Error(err))
	}
}

// publishOrderEvent emits the event to Kafka and, best-effort, to SNS.
// Publish failures are logged but never fail the request.
func (s *orderServiceImpl) publishOrderEvent(ctx context.Context, eventType string, order *models.Order, from, to models.OrderStatus) {
	event := models.OrderStatusChangedEvent{
		EventType:   eventType,
		OrderID:     order.ID.String(),
		OrderNumber: order.OrderNumber,
		StoreID:     order.StoreID.String(),
		FromStatus:  from,
		ToStatus:    to,
		Timestamp:   time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("Failed to marshal order event", zap.Error(err))
		return
	}

	if s.producer != nil {
		if err := s.producer.Publish(ctx, []byte(order.ID.String()), payload); err != nil {
			s.logger.Error("Failed to publish order event to Kafka", zap.Error(err))
		}
	}

	if s.snsClient != nil && s.snsTopicArn != "" {
		if err := s.snsClient.Publish(ctx, s.snsTopicArn, payload); err != nil {
			s.logger.Warn("SNS publish failed", zap.Error(err))
		}
	}
}

// DeleteOrder soft deletes an order. Historical rows are retained for
// reporting.
func (s *orderServiceImpl) DeleteOrder(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.orderRepo.SoftDelete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFoundError("Order not found")
		}
		s.logger.Error("Failed to delete order", zap.Error(err))
		return internalError("Failed to delete order")
	}
	return nil
}

// HandlePaymentCallback records the gateway outcome. A successful payment on
// a pending order auto-confirms it.
func (s *orderServiceImpl) HandlePaymentCallback(ctx context.Context, id uuid.UUID, req *models.PaymentCallbackRequest) (*models.Order, *ServiceError) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFoundError("Order not found")
		}
		s.logger.Error("Failed to load order", zap.Error(err))
		return nil, internalError("Failed to process payment callback")
	}

	if err := s.orderRepo.UpdatePaymentStatus(ctx, id, req.PaymentStatus); err != nil {
		s.logger.Error("Failed to update payment status", zap.Error(err))
		return nil, internalError("Failed to process payment callback")
	}

	if req.PaymentStatus == models.PaymentStatusPaid && order.Status == models.OrderStatusPending {
		return s.applyTransition(ctx, order, models.OrderStatusConfirmed)
	}

	updated, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to reload order", zap.Error(err))
		return nil, internalError("Failed to process payment callback")
	}
	return updated, nil
}
