package servehttp

import (
	"cocina/common"
	"cocina/kitchen/dispatch"
	"cocina/order"
	"cocina/session"
	"errors"
	"net/http"

	"github.com/fundwit/go-commons/types"
	"github.com/gin-gonic/gin"
)

func RegisterKitchenRestAPI(r *gin.Engine, middleWares ...gin.HandlerFunc) {
	g := r.Group("/v1", middleWares...)

	g.POST("order-items/:id/complete", handleCompleteOrderItem)
	g.GET("chefs/:id/queue", handleChefQueue)
	g.POST("kitchen/queues/reinit", handleReinitQueues)
}

func handleCompleteOrderItem(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	item, err := order.CompleteOrderItemFunc(parsedId, session.FindSecurityContext(c))
	if err != nil {
		panic(err)
	}
	c.JSON(http.StatusOK, item)
}

func handleChefQueue(c *gin.Context) {
	parsedId, err := types.ParseID(c.Param("id"))
	if err != nil {
		panic(&common.ErrBadParam{Cause: errors.New("invalid id '" + c.Param("id") + "'")})
	}

	snapshot := dispatch.QueueSnapshot(parsedId)
	c.JSON(http.StatusOK, &snapshot)
}

// handleReinitQueues rebuilds the per-chef queues from the current roster.
// Pending items in the dropped queues are not re-dispatched.
func handleReinitQueues(c *gin.Context) {
	if err := dispatch.ReinitQueues(); err != nil {
		panic(err)
	}
	c.AbortWithStatus(http.StatusNoContent)
}
