package store

import (
	"context"
	"fmt"
	"math"

	"evolv-store/internal/database"
	"evolv-store/internal/model"
)

// ListCartItems returns the user's cart joined with product data plus the
// running total, rounded to cents.
func ListCartItems(ctx context.Context, db database.DB, userID int) ([]model.CartLine, float64, error) {
	rows, err := db.Query(ctx,
		`SELECT ci.id, ci.quantity, p.id, p.name, p.price, p.image_url, p.stock_quantity
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.created_at`,
		userID,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("ListCartItems: %w", err)
	}
	defer rows.Close()

	items := []model.CartLine{}
	var total float64
	for rows.Next() {
		var line model.CartLine
		if err := rows.Scan(
			&line.ID,
			&line.Quantity,
			&line.Product.ID,
			&line.Product.Name,
			&line.Product.Price,
			&line.Product.ImageURL,
			&line.Product.StockQuantity,
		); err != nil {
			return nil, 0, fmt.Errorf("ListCartItems scan: %w", err)
		}
		total += line.Product.Price * float64(line.Quantity)
		items = append(items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListCartItems rows: %w", err)
	}
	return items, math.Round(total*100) / 100, nil
}

// UpsertCartItem adds quantity to the (user, product) cart row, creating it
// when absent. A single ON CONFLICT statement keeps concurrent adds from
// producing duplicate rows.
func UpsertCartItem(ctx context.Context, db database.DB, userID, productID, quantity int) (*model.CartItem, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, product_id)
		 DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()
		 RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		userID,
		productID,
		quantity,
	)
	item := &model.CartItem{}
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("UpsertCartItem: %w", err)
	}
	return item, nil
}

// GetCartItem fetches a cart row scoped by owner; the user_id predicate is
// the ownership check.
func GetCartItem(ctx context.Context, db database.DB, itemID, userID int) (*model.CartItem, error) {
	row := db.QueryRow(ctx,
		`SELECT id, user_id, product_id, quantity, created_at, updated_at
		 FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID,
		userID,
	)
	item := &model.CartItem{}
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("GetCartItem: %w", err)
	}
	return item, nil
}

func UpdateCartItemQuantity(ctx context.Context, db database.DB, itemID, userID, quantity int) (*model.CartItem, error) {
	row := db.QueryRow(ctx,
		`UPDATE cart_items SET quantity = $1, updated_at = now()
		 WHERE id = $2 AND user_id = $3
		 RETURNING id, user_id, product_id, quantity, created_at, updated_at`,
		quantity,
		itemID,
		userID,
	)
	item := &model.CartItem{}
	if err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&item.CreatedAt,
		&item.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("UpdateCartItemQuantity: %w", err)
	}
	return item, nil
}

func DeleteCartItem(ctx context.Context, db database.DB, itemID, userID int) error {
	tag, err := db.Exec(ctx,
		`DELETE FROM cart_items WHERE id = $1 AND user_id = $2`,
		itemID,
		userID,
	)
	if err != nil {
		return fmt.Errorf("DeleteCartItem: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteCartItem: %w", ErrNotFound)
	}
	return nil
}

func ClearCart(ctx context.Context, db database.DB, userID int) error {
	_, err := db.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("ClearCart: %w", err)
	}
	return nil
}
