package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shopzeo-backend/controllers"
	"shopzeo-backend/middleware"
	"shopzeo-backend/models"
	"shopzeo-backend/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// ---- concrete mock implementing services.OrderService ----

type mockOrderSvc struct {
	order     *models.Order
	orders    []models.Order
	total     int64
	svcErr    *services.ServiceError
	deleteErr *services.ServiceError
}

func (m *mockOrderSvc) CreateOrder(ctx context.Context, userID uuid.UUID, req *models.CreateOrderRequest) (*models.Order, *services.ServiceError) {
	return m.order, m.svcErr
}
func (m *mockOrderSvc) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.order, m.svcErr
}
func (m *mockOrderSvc) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.orders, m.total, m.svcErr
}
func (m *mockOrderSvc) ListOrdersByStore(ctx context.Context, storeID uuid.UUID, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.orders, m.total, m.svcErr
}
func (m *mockOrderSvc) ListAllOrders(ctx context.Context, page, limit int) ([]models.Order, int64, *services.ServiceError) {
	return m.orders, m.total, m.svcErr
}
func (m *mockOrderSvc) UpdateStatus(ctx context.Context, id uuid.UUID, next models.OrderStatus) (*models.Order, *services.ServiceError) {
	return m.order, m.svcErr
}
func (m *mockOrderSvc) CancelOrder(ctx context.Context, id uuid.UUID) (*models.Order, *services.ServiceError) {
	return m.order, m.svcErr
}
func (m *mockOrderSvc) HandlePaymentCallback(ctx context.Context, id uuid.UUID, req *models.PaymentCallbackRequest) (*models.Order, *services.ServiceError) {
	return m.order, m.svcErr
}
func (m *mockOrderSvc) DeleteOrder(ctx context.Context, id uuid.UUID) *services.ServiceError {
	return m.deleteErr
}

// ---- helpers ----

func injectUser(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserContextKey, userID)
		c.Next()
	}
}

func setupOrderRouter(svc services.OrderService, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	oc := controllers.NewOrderController(svc, controllers.NewRequestValidator())

	auth := r.Group("/orders")
	if userID != uuid.Nil {
		auth.Use(injectUser(userID))
	}
	auth.POST("", oc.CreateOrder)
	auth.GET("/mine", oc.GetMyOrders)
	auth.GET("/:id", oc.GetOrder)
	auth.PATCH("/:id/status", oc.UpdateStatus)
	return r
}

func checkoutBody() []byte {
	b, _ := json.Marshal(models.CreateOrderRequest{
		StoreID: uuid.New().String(),
		Items: []models.CreateOrderItemRequest{
			{ProductID: uuid.New().String(), Quantity: 2},
		},
		ShippingAddress: models.Address{
			Line1: "12 Hill Road", City: "Mumbai", State: "MH", Country: "IN", Pincode: "400050",
		},
		Shipping: 50,
	})
	return b
}

// ---- tests ----

func TestCreateOrder_Success(t *testing.T) {
	svc := &mockOrderSvc{
		order: &models.Order{ID: uuid.New(), OrderNumber: "ORD-20260115-ABC234", Status: models.OrderStatusPending},
	}
	r := setupOrderRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	_ = json.Unmarshal(w.Body.Bytes(), &order)
	assert.Equal(t, "ORD-20260115-ABC234", order.OrderNumber)
}

func TestCreateOrder_Unauthenticated(t *testing.T) {
	r := setupOrderRouter(&mockOrderSvc{}, uuid.Nil)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateOrder_BadJSON(t *testing.T) {
	r := setupOrderRouter(&mockOrderSvc{}, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("not-json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrder_ServiceError(t *testing.T) {
	svc := &mockOrderSvc{
		svcErr: &services.ServiceError{StatusCode: http.StatusConflict, Message: "Insufficient stock"},
	}
	r := setupOrderRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(checkoutBody()))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "Insufficient stock", resp["error"])
}

func TestGetOrder_InvalidID(t *testing.T) {
	r := setupOrderRouter(&mockOrderSvc{}, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetMyOrders_Paginated(t *testing.T) {
	svc := &mockOrderSvc{
		orders: []models.Order{{ID: uuid.New()}, {ID: uuid.New()}},
		total:  2,
	}
	r := setupOrderRouter(svc, uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/orders/mine?page=1&limit=10", nil)
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	orders, ok := resp["orders"].([]interface{})
	assert.True(t, ok)
	assert.Len(t, orders, 2)
	assert.NotNil(t, resp["pagination"])
}

func TestUpdateStatus_InvalidTransition(t *testing.T) {
	svc := &mockOrderSvc{
		svcErr: &services.ServiceError{StatusCode: http.StatusConflict, Message: "InvalidTransition(pending -> delivered)"},
	}
	r := setupOrderRouter(svc, uuid.New())

	b, _ := json.Marshal(models.UpdateStatusRequest{Status: models.OrderStatusDelivered})
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+uuid.New().String()+"/status", bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusConflict, w.Code)
}
