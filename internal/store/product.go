package store

import (
	"context"
	"fmt"
	"strings"

	"evolv-store/internal/database"
	"evolv-store/internal/model"
)

// ProductFilter narrows and pages the catalog listing. Page and Limit are
// expected to be sanitized by the caller (see api.ListProductsRequest).
type ProductFilter struct {
	Category  string
	Search    string
	MinPrice  *float64
	MaxPrice  *float64
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// sortColumns is the allow-list for ORDER BY; anything else falls back to
// created_at so request input never reaches the SQL text.
var sortColumns = map[string]string{
	"name":           "name",
	"price":          "price",
	"category":       "category",
	"stock_quantity": "stock_quantity",
	"created_at":     "created_at",
}

func (f ProductFilter) whereClause() (string, []any) {
	var conds []string
	var args []any
	if f.Category != "" {
		args = append(args, f.Category)
		conds = append(conds, fmt.Sprintf("category = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+f.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if f.MinPrice != nil {
		args = append(args, *f.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if f.MaxPrice != nil {
		args = append(args, *f.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func (f ProductFilter) orderClause() string {
	col, ok := sortColumns[f.SortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		dir = "ASC"
	}
	return fmt.Sprintf(" ORDER BY %s %s", col, dir)
}

const productColumns = `id, name, description, price, category, stock_quantity, image_url, ingredients, benefits, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }, p *model.Product) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Category,
		&p.StockQuantity,
		&p.ImageURL,
		&p.Ingredients,
		&p.Benefits,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// ListProducts returns one page of the catalog plus the unpaged total.
func ListProducts(ctx context.Context, db database.DB, f ProductFilter) ([]model.Product, int, error) {
	where, args := f.whereClause()

	var total int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("ListProducts count: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf("SELECT %s FROM products%s%s LIMIT $%d OFFSET $%d",
		productColumns, where, f.orderClause(), len(args)-1, len(args))

	rows, err := db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("ListProducts: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, 0, fmt.Errorf("ListProducts scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("ListProducts rows: %w", err)
	}
	return products, total, nil
}

func GetProductByID(ctx context.Context, db database.DB, productID int) (*model.Product, error) {
	row := db.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1",
		productID,
	)
	p := &model.Product{}
	if err := scanProduct(row, p); err != nil {
		return nil, fmt.Errorf("GetProductByID: %w", err)
	}
	return p, nil
}

func CreateProduct(ctx context.Context, db database.DB, p *model.Product) (*model.Product, error) {
	row := db.QueryRow(ctx,
		`INSERT INTO products (name, description, price, category, stock_quantity, image_url, ingredients, benefits)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.StockQuantity,
		p.ImageURL,
		p.Ingredients,
		p.Benefits,
	)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("CreateProduct: %w", err)
	}
	return p, nil
}

func UpdateProduct(ctx context.Context, db database.DB, p *model.Product) (*model.Product, error) {
	row := db.QueryRow(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, category = $4,
		     stock_quantity = $5, image_url = $6, ingredients = $7, benefits = $8,
		     updated_at = now()
		 WHERE id = $9
		 RETURNING `+productColumns,
		p.Name,
		p.Description,
		p.Price,
		p.Category,
		p.StockQuantity,
		p.ImageURL,
		p.Ingredients,
		p.Benefits,
		p.ID,
	)
	updated := &model.Product{}
	if err := scanProduct(row, updated); err != nil {
		return nil, fmt.Errorf("UpdateProduct: %w", err)
	}
	return updated, nil
}

func DeleteProduct(ctx context.Context, db database.DB, productID int) error {
	tag, err := db.Exec(ctx, `DELETE FROM products WHERE id = $1`, productID)
	if err != nil {
		return fmt.Errorf("DeleteProduct: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("DeleteProduct: %w", ErrNotFound)
	}
	return nil
}

// ListCategories returns the distinct product categories.
func ListCategories(ctx context.Context, db database.DB) ([]string, error) {
	rows, err := db.Query(ctx,
		`SELECT DISTINCT category FROM products WHERE category IS NOT NULL ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: %w", err)
	}
	defer rows.Close()

	categories := []string{}
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("ListCategories scan: %w", err)
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListCategories rows: %w", err)
	}
	return categories, nil
}

// ListProductsByCategory returns every product in a category, newest first.
func ListProductsByCategory(ctx context.Context, db database.DB, category string) ([]model.Product, error) {
	rows, err := db.Query(ctx,
		"SELECT "+productColumns+" FROM products WHERE category = $1 ORDER BY created_at DESC",
		category,
	)
	if err != nil {
		return nil, fmt.Errorf("ListProductsByCategory: %w", err)
	}
	defer rows.Close()

	products := []model.Product{}
	for rows.Next() {
		var p model.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, fmt.Errorf("ListProductsByCategory scan: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ListProductsByCategory rows: %w", err)
	}
	return products, nil
}
