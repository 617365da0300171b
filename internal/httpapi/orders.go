package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crudlab/dualstore/internal/httpx"
	"github.com/crudlab/dualstore/internal/model"
)

type createOrderReq struct {
	UserID string            `json:"userId"`
	Items  []model.OrderLine `json:"items"`
}

type updateStatusReq struct {
	Status model.OrderStatus `json:"status"`
}

func (rs *resources) createOrder(c *gin.Context) {
	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.UserID == "" || len(req.Items) == 0 {
		httpx.Fail(c, http.StatusBadRequest, "Please provide userId and items")
		return
	}
	for _, line := range req.Items {
		if line.ProductID == "" {
			httpx.Fail(c, http.StatusBadRequest, "Each item needs a productId")
			return
		}
		if line.Quantity <= 0 {
			httpx.Fail(c, http.StatusBadRequest, "Quantity must be at least 1")
			return
		}
	}

	order, err := rs.st.Orders.Create(c.Request.Context(), req.UserID, req.Items)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.Created(c, "Order created successfully", order)
}

func (rs *resources) getOrder(c *gin.Context) {
	order, err := rs.st.Orders.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "", order)
}

func (rs *resources) listUserOrders(c *gin.Context) {
	page := pageQuery(c)
	orders, total, err := rs.st.Orders.ListByUser(c.Request.Context(), c.Param("id"), page)
	if err != nil {
		rs.err(c, err)
		return
	}
	if page.Requested() {
		httpx.Paged(c, len(orders), total, orders)
		return
	}
	httpx.Collection(c, len(orders), orders)
}

func (rs *resources) updateOrderStatus(c *gin.Context) {
	var req updateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		httpx.Fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Status == "" {
		httpx.Fail(c, http.StatusBadRequest, "Please provide status")
		return
	}
	if !req.Status.Valid() {
		httpx.Fail(c, http.StatusBadRequest, "Invalid status: "+string(req.Status))
		return
	}

	order, err := rs.st.Orders.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Order status updated successfully", order)
}

func (rs *resources) deleteOrder(c *gin.Context) {
	order, err := rs.st.Orders.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		rs.err(c, err)
		return
	}
	httpx.OK(c, "Order deleted successfully", order)
}
