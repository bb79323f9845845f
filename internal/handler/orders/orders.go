// Package orders handles checkout and order lifecycle.
package orders

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"evolv-store/internal/api"
	"evolv-store/internal/database"
	"evolv-store/internal/mailer"
	"evolv-store/internal/middleware"
	"evolv-store/internal/model"
	"evolv-store/internal/service"
	"evolv-store/internal/store"
	"evolv-store/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// Seams for tests.
var (
	createOrder       = store.CreateOrder
	listOrdersByUser  = store.ListOrdersByUser
	getOrderByID      = store.GetOrderByID
	updateOrderStatus = store.UpdateOrderStatus
	clearCart         = store.ClearCart
)

// @Summary     Place an order
// @Description Checks stock, snapshots prices, decrements inventory and clears
// @Description the cart in one transaction. A confirmation mail is sent async.
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       request body api.CreateOrderRequest true "order data"
// @Success     201 {object} api.Response{data=model.Order}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /orders [post]
func CreateOrderHandler(db database.DB, wp worker.Pool, m mailer.Mailer) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		var req api.CreateOrderRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		lines := make([]store.OrderLine, 0, len(req.Items))
		for _, item := range req.Items {
			lines = append(lines, store.OrderLine{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
			})
		}

		order, err := createOrder(c.Request().Context(), db, claims.UserID, lines, req.ShippingAddress, req.PaymentMethod)
		if err != nil {
			switch {
			case errors.Is(err, store.ErrProductNotFound):
				return c.JSON(http.StatusNotFound, api.Error("product not found"))
			case errors.Is(err, store.ErrInsufficientStock):
				return c.JSON(http.StatusBadRequest, api.Error("insufficient stock"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		if err := clearCart(c.Request().Context(), db, claims.UserID); err != nil {
			c.Logger().Warnf("clearing cart after order %d: %v", order.ID, err)
		}

		// The echo context is pooled, so capture what the task needs now.
		logger := c.Logger()
		email := claims.Email
		orderID, total := order.ID, order.TotalAmount
		wp.Submit(func() {
			if err := m.SendOrderConfirmation(context.Background(), email, orderID, total); err != nil {
				logger.Errorf("order %d confirmation mail: %v", orderID, err)
			}
		})

		return c.JSON(http.StatusCreated, api.Success("order placed", order))
	}
}

// @Summary     List my orders
// @Tags        orders
// @Produce     json
// @Success     200 {object} api.Response{data=[]model.Order}
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /orders [get]
func ListOrdersHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		orders, err := listOrdersByUser(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("", orders))
	}
}

// @Summary     Get one of my orders
// @Tags        orders
// @Produce     json
// @Param       id path int true "order ID"
// @Success     200 {object} api.Response{data=model.Order}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /orders/{id} [get]
func GetOrderHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid order ID"))
		}

		order, err := getOrderByID(c.Request().Context(), db, id, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.Error("order not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("", order))
	}
}

// @Summary     Update an order's status
// @Tags        orders
// @Accept      json
// @Produce     json
// @Param       id      path int                           true "order ID"
// @Param       request body api.UpdateOrderStatusRequest true "new status"
// @Success     200 {object} api.Response{data=model.Order}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /orders/{id}/status [put]
func UpdateOrderStatusHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid order ID"))
		}

		var req api.UpdateOrderStatusRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		order, err := updateOrderStatus(c.Request().Context(), db, id, model.OrderStatus(req.Status))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.Error("order not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("order status updated", order))
	}
}
