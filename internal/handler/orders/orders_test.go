package orders

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evolv-store/internal/database"
	"evolv-store/internal/mailer"
	"evolv-store/internal/middleware"
	"evolv-store/internal/model"
	"evolv-store/internal/service"
	"evolv-store/internal/store"
	"evolv-store/internal/worker"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

type stubValidator struct{ err error }

func (s *stubValidator) Validate(i interface{}) error { return s.err }

// inlinePool runs submitted tasks synchronously so tests can assert on
// their side effects.
type inlinePool struct{}

func (inlinePool) Submit(t worker.Task) { t() }
func (inlinePool) Stop()                {}

func newCtx(e *echo.Echo, method, body string, userID int) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/orders", strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextUserKey, &service.CustomClaims{UserID: userID, Email: "a@b.com"})
	return c, rec
}

func newIDCtx(e *echo.Echo, method, id, body string, userID int) (echo.Context, *httptest.ResponseRecorder) {
	c, rec := newCtx(e, method, body, userID)
	c.SetPath("/orders/:id")
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func restore() {
	createOrder = store.CreateOrder
	listOrdersByUser = store.ListOrdersByUser
	getOrderByID = store.GetOrderByID
	updateOrderStatus = store.UpdateOrderStatus
	clearCart = store.ClearCart
}

func TestCreateOrderHandler(t *testing.T) {
	e := echo.New()
	body := `{"items":[{"product_id":5,"quantity":2}],"shipping_address":"Rua das Flores 123, Centro","payment_method":"pix"}`

	t.Run("bind error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		ctx, rec := newCtx(e, http.MethodPost, "{", 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, &mailer.FakeMailer{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("product missing", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createOrder = func(context.Context, database.DB, int, []store.OrderLine, string, string) (*model.Order, error) {
			return nil, store.ErrProductNotFound
		}
		ctx, rec := newCtx(e, http.MethodPost, body, 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, &mailer.FakeMailer{})(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("insufficient stock", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createOrder = func(context.Context, database.DB, int, []store.OrderLine, string, string) (*model.Order, error) {
			return nil, store.ErrInsufficientStock
		}
		ctx, rec := newCtx(e, http.MethodPost, body, 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, &mailer.FakeMailer{})(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "insufficient stock")
	})

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createOrder = func(context.Context, database.DB, int, []store.OrderLine, string, string) (*model.Order, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newCtx(e, http.MethodPost, body, 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, &mailer.FakeMailer{})(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success sends confirmation and clears cart", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createOrder = func(_ context.Context, _ database.DB, userID int, lines []store.OrderLine, addr, method string) (*model.Order, error) {
			require.Equal(t, 3, userID)
			require.Equal(t, []store.OrderLine{{ProductID: 5, Quantity: 2}}, lines)
			require.Equal(t, "Rua das Flores 123, Centro", addr)
			require.Equal(t, "pix", method)
			return &model.Order{ID: 11, UserID: userID, TotalAmount: 59.8, Status: model.OrderStatusPending}, nil
		}
		cleared := false
		clearCart = func(_ context.Context, _ database.DB, userID int) error {
			require.Equal(t, 3, userID)
			cleared = true
			return nil
		}
		var mailedOrder int
		m := &mailer.FakeMailer{
			SendOrderConfirmationFn: func(_ context.Context, to string, orderID int, total float64) error {
				require.Equal(t, "a@b.com", to)
				require.Equal(t, 59.8, total)
				mailedOrder = orderID
				return nil
			},
		}
		ctx, rec := newCtx(e, http.MethodPost, body, 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, m)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
		require.True(t, cleared)
		require.Equal(t, 11, mailedOrder)
		require.Contains(t, rec.Body.String(), "order placed")
	})

	t.Run("cart clear failure does not fail the order", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		createOrder = func(context.Context, database.DB, int, []store.OrderLine, string, string) (*model.Order, error) {
			return &model.Order{ID: 12}, nil
		}
		clearCart = func(context.Context, database.DB, int) error { return errors.New("db") }
		m := &mailer.FakeMailer{
			SendOrderConfirmationFn: func(context.Context, string, int, float64) error { return nil },
		}
		ctx, rec := newCtx(e, http.MethodPost, body, 3)
		require.NoError(t, CreateOrderHandler(nil, inlinePool{}, m)(ctx))
		require.Equal(t, http.StatusCreated, rec.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	e := echo.New()

	t.Run("store error", func(t *testing.T) {
		t.Cleanup(restore)
		listOrdersByUser = func(context.Context, database.DB, int) ([]model.Order, error) {
			return nil, errors.New("db")
		}
		ctx, rec := newCtx(e, http.MethodGet, "", 3)
		require.NoError(t, ListOrdersHandler(nil)(ctx))
		require.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		listOrdersByUser = func(_ context.Context, _ database.DB, userID int) ([]model.Order, error) {
			require.Equal(t, 3, userID)
			return []model.Order{{ID: 11, Status: model.OrderStatusShipped}}, nil
		}
		ctx, rec := newCtx(e, http.MethodGet, "", 3)
		require.NoError(t, ListOrdersHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "shipped")
	})
}

func TestGetOrderHandler(t *testing.T) {
	e := echo.New()

	t.Run("bad id", func(t *testing.T) {
		t.Cleanup(restore)
		ctx, rec := newIDCtx(e, http.MethodGet, "x", "", 3)
		require.NoError(t, GetOrderHandler(nil)(ctx))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		getOrderByID = func(context.Context, database.DB, int, int) (*model.Order, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "11", "", 3)
		require.NoError(t, GetOrderHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		getOrderByID = func(_ context.Context, _ database.DB, orderID, userID int) (*model.Order, error) {
			require.Equal(t, 11, orderID)
			require.Equal(t, 3, userID)
			return &model.Order{ID: orderID, UserID: userID}, nil
		}
		ctx, rec := newIDCtx(e, http.MethodGet, "11", "", 3)
		require.NoError(t, GetOrderHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	e := echo.New()
	body := `{"status":"shipped"}`

	t.Run("not found", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		updateOrderStatus = func(context.Context, database.DB, int, model.OrderStatus) (*model.Order, error) {
			return nil, pgx.ErrNoRows
		}
		ctx, rec := newIDCtx(e, http.MethodPut, "11", body, 3)
		require.NoError(t, UpdateOrderStatusHandler(nil)(ctx))
		require.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		t.Cleanup(restore)
		e.Validator = &stubValidator{}
		updateOrderStatus = func(_ context.Context, _ database.DB, orderID int, status model.OrderStatus) (*model.Order, error) {
			require.Equal(t, 11, orderID)
			require.Equal(t, model.OrderStatusShipped, status)
			return &model.Order{ID: orderID, Status: status}, nil
		}
		ctx, rec := newIDCtx(e, http.MethodPut, "11", body, 3)
		require.NoError(t, UpdateOrderStatusHandler(nil)(ctx))
		require.Equal(t, http.StatusOK, rec.Code)
		require.Contains(t, rec.Body.String(), "order status updated")
	})
}
