package servehttp_test

import (
	"bytes"
	"cocina/bizerror"
	"cocina/domain"
	"cocina/domain/state"
	"cocina/order"
	"cocina/servehttp"
	"cocina/session"
	"cocina/testinfra"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
)

func TestPlaceOrderRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterOrderRestAPI(router)

	t.Run("should return 400 when failed to bind", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader([]byte(`bbb`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid character 'b' looking for beginning of value","data":null}`))
	})

	t.Run("should return 400 when validation failed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader([]byte(`{"lines":[]}`)))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"Key: 'OrderCreation.Lines' Error:Field validation for 'Lines' failed on the 'min' tag","data":null}`))
	})

	t.Run("should place the order and return 201 with the detail", func(t *testing.T) {
		var received *domain.OrderCreation
		detail := &domain.OrderDetail{
			Order: domain.Order{ID: 123, Status: state.StatusPreparing, Version: 2},
			Items: []*domain.OrderItem{{ID: 456, OrderID: 123, ProductID: 101, ProductName: "Dough",
				PreparationTime: 3, Station: domain.StationSousChef, Quantity: 2,
				Status: state.StatusPreparing, Version: 1, AssignedChefID: 7}},
		}
		order.PlaceOrderFunc = func(creation *domain.OrderCreation, sec *session.Context) (*domain.OrderDetail, error) {
			received = creation
			return detail, nil
		}
		defer func() { order.PlaceOrderFunc = order.PlaceOrder }()

		reqBody, err := json.Marshal(domain.OrderCreation{Lines: []domain.OrderLine{{ProductID: 101, Quantity: 2}}})
		Expect(err).To(BeNil())
		expected, err := json.Marshal(detail)
		Expect(err).To(BeNil())

		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusCreated))
		Expect(body).To(MatchJSON(string(expected)))
		Expect(received.Lines).To(Equal([]domain.OrderLine{{ProductID: 101, Quantity: 2}}))
	})

	t.Run("should map a composite cycle to 400", func(t *testing.T) {
		order.PlaceOrderFunc = func(creation *domain.OrderCreation, sec *session.Context) (*domain.OrderDetail, error) {
			return nil, bizerror.ErrCompositeCycle
		}
		defer func() { order.PlaceOrderFunc = order.PlaceOrder }()

		reqBody, err := json.Marshal(domain.OrderCreation{Lines: []domain.OrderLine{{ProductID: 200, Quantity: 1}}})
		Expect(err).To(BeNil())
		req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewReader(reqBody))
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"kitchen.not_routable","message":"composite product references itself","data":null}`))
	})
}

func TestDetailOrderRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterOrderRestAPI(router)

	t.Run("should return 400 for an invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/orders/abc", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusBadRequest))
		Expect(body).To(MatchJSON(`{"code":"common.bad_param","message":"invalid id 'abc'","data":null}`))
	})

	t.Run("should return 404 for an unknown order", func(t *testing.T) {
		order.DetailOrderFunc = func(id types.ID) (*domain.OrderDetail, error) {
			return nil, bizerror.ErrNotFound
		}
		defer func() { order.DetailOrderFunc = order.DetailOrder }()

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/404", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
		Expect(body).To(MatchJSON(`{"code":"common.record_not_found","message":"record not found","data":null}`))
	})

	t.Run("should return the order detail", func(t *testing.T) {
		detail := &domain.OrderDetail{Order: domain.Order{ID: 123, Status: state.StatusPreparing, Version: 2}}
		order.DetailOrderFunc = func(id types.ID) (*domain.OrderDetail, error) {
			Expect(id).To(Equal(types.ID(123)))
			return detail, nil
		}
		defer func() { order.DetailOrderFunc = order.DetailOrder }()

		expected, err := json.Marshal(detail)
		Expect(err).To(BeNil())
		req := httptest.NewRequest(http.MethodGet, "/v1/orders/123", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))
		Expect(body).To(MatchJSON(string(expected)))
	})
}

func TestActiveOrdersRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterOrderRestAPI(router)

	t.Run("should return the active orders as a paged body", func(t *testing.T) {
		order.ActiveOrdersFunc = func() ([]domain.OrderDetail, error) {
			return []domain.OrderDetail{{Order: domain.Order{ID: 1, Status: state.StatusPreparing, Version: 2}}}, nil
		}
		defer func() { order.ActiveOrdersFunc = order.ActiveOrders }()

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		parsed := struct {
			List  []domain.OrderDetail `json:"list"`
			Total uint64               `json:"total"`
		}{}
		Expect(json.Unmarshal([]byte(body), &parsed)).To(BeNil())
		Expect(parsed.Total).To(Equal(uint64(1)))
		Expect(parsed.List[0].ID).To(Equal(types.ID(1)))
	})

	t.Run("should be able to handle query errors", func(t *testing.T) {
		order.ActiveOrdersFunc = func() ([]domain.OrderDetail, error) {
			return nil, errors.New("a mocked error")
		}
		defer func() { order.ActiveOrdersFunc = order.ActiveOrders }()

		req := httptest.NewRequest(http.MethodGet, "/v1/orders", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusInternalServerError))
		Expect(body).To(MatchJSON(`{"code":"common.internal_server_error","message":"a mocked error","data":null}`))
	})
}

func TestEstimateOrderRestAPI(t *testing.T) {
	RegisterTestingT(t)

	router := gin.Default()
	router.Use(bizerror.ErrorHandling())
	servehttp.RegisterOrderRestAPI(router)

	t.Run("should return the projected minutes with the annotated items", func(t *testing.T) {
		detail := &domain.OrderDetail{
			Order: domain.Order{ID: 123, Status: state.StatusPreparing, Version: 2},
			Items: []*domain.OrderItem{{ID: 456, OrderID: 123, ProductName: "Dough", PreparationTime: 3,
				Quantity: 1, Status: state.StatusPreparing, Version: 1, EarlyFinish: 3, LateFinish: 3}},
		}
		order.EstimateOrderFunc = func(id types.ID) (float64, *domain.OrderDetail, error) {
			Expect(id).To(Equal(types.ID(123)))
			return 14.5, detail, nil
		}
		defer func() { order.EstimateOrderFunc = order.EstimateOrder }()

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/123/estimate", nil)
		status, body, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusOK))

		parsed := struct {
			OrderID          types.ID            `json:"orderId"`
			EstimatedMinutes float64             `json:"estimatedMinutes"`
			Items            []*domain.OrderItem `json:"items"`
		}{}
		Expect(json.Unmarshal([]byte(body), &parsed)).To(BeNil())
		Expect(parsed.OrderID).To(Equal(types.ID(123)))
		Expect(parsed.EstimatedMinutes).To(Equal(14.5))
		Expect(parsed.Items).To(HaveLen(1))
		Expect(parsed.Items[0].EarlyFinish).To(Equal(float64(3)))
	})

	t.Run("should return 404 for an unknown order", func(t *testing.T) {
		order.EstimateOrderFunc = func(id types.ID) (float64, *domain.OrderDetail, error) {
			return 0, nil, bizerror.ErrNotFound
		}
		defer func() { order.EstimateOrderFunc = order.EstimateOrder }()

		req := httptest.NewRequest(http.MethodGet, "/v1/orders/404/estimate", nil)
		status, _, _ := testinfra.ExecuteRequest(req, router)
		Expect(status).To(Equal(http.StatusNotFound))
	})
}
