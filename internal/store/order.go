package store

import (
	"context"
	"errors"
	"fmt"
	"math"

	"evolv-store/internal/database"
	"evolv-store/internal/model"

	"github.com/jackc/pgx/v5"
)

// OrderLine is one requested line item for CreateOrder.
type OrderLine struct {
	ProductID int
	Quantity  int
}

// CreateOrder places an order inside a single transaction: it locks each
// product row, checks stock, snapshots the current price as unit_price,
// inserts the order and its items and decrements stock. Everything commits
// or nothing does, so concurrent orders for the same product cannot
// oversell and a failed request leaves no orphaned rows behind.
func CreateOrder(ctx context.Context, db database.DB, userID int, lines []OrderLine, shippingAddress, paymentMethod string) (*model.Order, error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder begin: %w", err)
	}
	defer tx.Rollback(ctx)

	var total float64
	prices := make([]float64, len(lines))
	for i, line := range lines {
		var price float64
		var stock int
		err := tx.QueryRow(ctx,
			`SELECT price, stock_quantity FROM products WHERE id = $1 FOR UPDATE`,
			line.ProductID,
		).Scan(&price, &stock)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrProductNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("CreateOrder lock product %d: %w", line.ProductID, err)
		}
		if stock < line.Quantity {
			return nil, fmt.Errorf("product %d: %w", line.ProductID, ErrInsufficientStock)
		}
		prices[i] = price
		total += price * float64(line.Quantity)
	}
	total = math.Round(total*100) / 100

	order := &model.Order{
		UserID:          userID,
		TotalAmount:     total,
		Status:          model.OrderStatusPending,
		ShippingAddress: shippingAddress,
		PaymentMethod:   paymentMethod,
	}
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (user_id, total_amount, status, shipping_address, payment_method)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at, updated_at`,
		order.UserID,
		order.TotalAmount,
		order.Status,
		order.ShippingAddress,
		order.PaymentMethod,
	).Scan(&order.ID, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("CreateOrder insert order: %w", err)
	}

	for i, line := range lines {
		item := model.OrderItem{
			OrderID:   order.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			UnitPrice: prices[i],
		}
		err := tx.QueryRow(ctx,
			`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
			 VALUES ($1, $2, $3, $4)
			 RETURNING id`,
			item.OrderID,
			item.ProductID,
			item.Quantity,
			item.UnitPrice,
		).Scan(&item.ID)
		if err != nil {
			return nil, fmt.Errorf("CreateOrder insert item: %w", err)
		}
		order.Items = append(order.Items, item)

		if _, err := tx.Exec(ctx,
			`UPDATE products SET stock_quantity = stock_quantity - $1, updated_at = now()
			 WHERE id = $2`,
			line.Quantity,
			line.ProductID,
		); err != nil {
			return nil, fmt.Errorf("CreateOrder decrement stock: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("CreateOrder commit: %w", err)
	}
	return order, nil
}

const orderColumns = `id, user_id, total_amount, status, shipping_address, payment_method, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }, o *model.Order) error {
	return row.Scan(
		&o.ID,
		&o.UserID,
		&o.TotalAmount,
		&o.Status,
		&o.ShippingAddress,
		&o.PaymentMethod,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
}

func listOrderItems(ctx context.Context, db database.DB, orderID int) ([]model.OrderItem, error) {
	rows, err := db.Query(ctx,
		`SELECT oi.id, oi.order_id, oi.product_id, oi.quantity, oi.unit_price, p.name, p.image_url
		 FROM order_items oi
		 JOIN products p ON p.id = oi.product_id
		 WHERE oi.order_id = $1
		 ORDER BY oi.id`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("listOrderItems: %w", err)
	}
	defer rows.Close()

	items := []model.OrderItem{}
	for rows.Next() {
		var it model.OrderItem
		if err := rows.Scan(
			&it.ID,
			&it.OrderID,
			&it.ProductID,
			&it.Quantity,
			&it.UnitPrice,
			&it.ProductName,
			&it.ProductImageURL,
		); err != nil {
			return nil, fmt.Errorf("listOrderItems scan: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listOrderItems rows: %w", err)
	}
	return items, nil
}

// ListOrdersByUser returns the user's orders, newest first, with items.
func ListOrdersByUser(ctx context.Context, db database.DB, userID int) ([]model.Order, error) {
	rows, err := db.Query(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("ListOrdersByUser: %w", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		var o model.Order
		if err := scanOrder(rows, &o); err != nil {
			return nil, fmt.Errorf("ListOrdersByUser scan: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListOrdersByUser rows: %w", err)
	}

	for i := range orders {
		items, err := listOrderItems(ctx, db, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

// GetOrderByID fetches one order with items, scoped by owner.
func GetOrderByID(ctx context.Context, db database.DB, orderID, userID int) (*model.Order, error) {
	row := db.QueryRow(ctx,
		"SELECT "+orderColumns+" FROM orders WHERE id = $1 AND user_id = $2",
		orderID,
		userID,
	)
	o := &model.Order{}
	if err := scanOrder(row, o); err != nil {
		return nil, fmt.Errorf("GetOrderByID: %w", err)
	}
	items, err := listOrderItems(ctx, db, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func UpdateOrderStatus(ctx context.Context, db database.DB, orderID int, status model.OrderStatus) (*model.Order, error) {
	row := db.QueryRow(ctx,
		`UPDATE orders SET status = $1, updated_at = now()
		 WHERE id = $2
		 RETURNING `+orderColumns,
		status,
		orderID,
	)
	o := &model.Order{}
	if err := scanOrder(row, o); err != nil {
		return nil, fmt.Errorf("UpdateOrderStatus: %w", err)
	}
	return o, nil
}
