package servehttp

import (
	"cocina/common"
	"cocina/domain"
	"cocina/order"
	"cocina/session"
	"errors"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func RegisterOrderRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1/orders", middleWares...)

	handler := &orderHandler{validator: validator.New()}

	g.POST("", PlacementRateLimitFilter(), handler.handlePlaceOrder)
	g.GET("", handler.handleActiveOrders)
	g.GET(":id", handler.handleOrderDetail)
	g.GET(":id/estimate", handler.handleOrderEstimate)
}

type orderHandler struct {
	validator *validator.Validate
}

type orderEstimateBody struct {
	OrderID          types.ID            `json:"orderId"`
	EstimatedMinutes float64             `json:"estimatedMinutes"`
	Items            []*domain.OrderItem `json:"items"`
}

func (h *orderHandler) handlePlaceOrder(c *gin.Context) {
	creation := domain.OrderCreation{}
	err := c.ShouldBindBodyWith(&creation, binding.JSON)
	if err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	if err = h.validator.Struct(creation); err != nil {
		panic(&common.ErrBadParam{Cause: err})
	}

	detail, err := order.PlaceOrderFunc(&creation, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusCreated, detail)
}

func (h *orderHandler) handleActiveOrders(c *gin.Context) {
	orders, err := order.ActiveOrdersFunc()
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &common.PagedBody{List: orders, Total: uint64(len(orders))})
}

func (h *orderHandler) handleOrderDetail(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	detail, err := order.DetailOrderFunc(parsedId)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, detail)
}

func (h *orderHandler) handleOrderEstimate(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	minutes, detail, err := order.EstimateOrderFunc(parsedId)
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, &orderEstimateBody{OrderID: detail.ID, EstimatedMinutes: minutes, Items: detail.Items})
}
