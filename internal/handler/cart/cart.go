// Package cart serves the authenticated user's shopping cart.
package cart

import (
	"errors"
	"net/http"
	"strconv"

	"evolv-store/internal/api"
	"evolv-store/internal/database"
	"evolv-store/internal/middleware"
	"evolv-store/internal/service"
	"evolv-store/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// Seams for tests.
var (
	listCartItems          = store.ListCartItems
	upsertCartItem         = store.UpsertCartItem
	getCartItem            = store.GetCartItem
	updateCartItemQuantity = store.UpdateCartItemQuantity
	deleteCartItem         = store.DeleteCartItem
	clearCart              = store.ClearCart
	getProductByID         = store.GetProductByID
)

// @Summary     Get the cart
// @Tags        cart
// @Produce     json
// @Success     200 {object} api.Response{data=api.CartData}
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /cart [get]
func GetCartHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		lines, total, err := listCartItems(c.Request().Context(), db, claims.UserID)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("", api.CartData{
			Items:     lines,
			Total:     total,
			ItemCount: len(lines),
		}))
	}
}

// @Summary     Add a product to the cart
// @Description Adding a product already in the cart raises its quantity
// @Tags        cart
// @Accept      json
// @Produce     json
// @Param       request body api.AddCartItemRequest true "product and quantity"
// @Success     201 {object} api.Response{data=model.CartItem}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /cart [post]
func AddItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		var req api.AddCartItemRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		product, err := getProductByID(c.Request().Context(), db, req.ProductID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.Error("product not found"))
		}
		if product.StockQuantity < req.Quantity {
			return c.JSON(http.StatusBadRequest, api.Error("insufficient stock"))
		}

		item, err := upsertCartItem(c.Request().Context(), db, claims.UserID, req.ProductID, req.Quantity)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusCreated, api.Success("item added to cart", item))
	}
}

// @Summary     Change a cart item's quantity
// @Tags        cart
// @Accept      json
// @Produce     json
// @Param       id      path int                          true "cart item ID"
// @Param       request body api.UpdateCartItemRequest true "new quantity"
// @Success     200 {object} api.Response{data=model.CartItem}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /cart/items/{id} [put]
func UpdateItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid cart item ID"))
		}

		var req api.UpdateCartItemRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		existing, err := getCartItem(c.Request().Context(), db, id, claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.Error("cart item not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		product, err := getProductByID(c.Request().Context(), db, existing.ProductID)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.Error("product not found"))
		}
		if product.StockQuantity < req.Quantity {
			return c.JSON(http.StatusBadRequest, api.Error("insufficient stock"))
		}

		item, err := updateCartItemQuantity(c.Request().Context(), db, id, claims.UserID, req.Quantity)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.Error("cart item not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("cart item updated", item))
	}
}

// @Summary     Remove a cart item
// @Tags        cart
// @Produce     json
// @Param       id path int true "cart item ID"
// @Success     200 {object} api.Response
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /cart/items/{id} [delete]
func RemoveItemHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid cart item ID"))
		}

		if err := deleteCartItem(c.Request().Context(), db, id, claims.UserID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.Error("cart item not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("cart item removed", nil))
	}
}

// @Summary     Empty the cart
// @Tags        cart
// @Produce     json
// @Success     200 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /cart [delete]
func ClearCartHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		claims := c.Get(middleware.ContextUserKey).(*service.CustomClaims)

		if err := clearCart(c.Request().Context(), db, claims.UserID); err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("cart cleared", nil))
	}
}
