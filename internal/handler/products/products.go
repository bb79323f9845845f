// Package products serves the catalog: public listing and lookup plus
// admin-only mutations. The category list is cached in Redis and dropped
// whenever a product changes.
package products

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"evolv-store/internal/api"
	"evolv-store/internal/cache"
	"evolv-store/internal/database"
	"evolv-store/internal/model"
	"evolv-store/internal/store"

	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Seams for tests.
var (
	listProducts           = store.ListProducts
	getProductByID         = store.GetProductByID
	createProduct          = store.CreateProduct
	updateProduct          = store.UpdateProduct
	deleteProduct          = store.DeleteProduct
	listCategories         = store.ListCategories
	listProductsByCategory = store.ListProductsByCategory
)

const (
	categoriesCacheKey = "products:categories"
	categoriesCacheTTL = 5 * time.Minute
)

func invalidateCategories(ctx context.Context, rdb cache.Cache) {
	rdb.Del(ctx, categoriesCacheKey)
}

// @Summary     List products
// @Description Paged catalog with category, search, price and sort filters
// @Tags        products
// @Produce     json
// @Param       page       query int    false "page number (min 1)"
// @Param       limit      query int    false "page size (1..100, default 12)"
// @Param       category   query string false "exact category match"
// @Param       search     query string false "case-insensitive name substring"
// @Param       min_price  query number false "inclusive lower price bound"
// @Param       max_price  query number false "inclusive upper price bound"
// @Param       sort_by    query string false "name|price|category|stock_quantity|created_at"
// @Param       sort_order query string false "asc|desc"
// @Success     200 {object} api.Response{data=api.ProductPage}
// @Failure     400 {object} api.Response
// @Failure     500 {object} api.Response
// @Router      /products [get]
func ListProductsHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.ListProductsRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid query parameters"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}
		req.Normalize()

		products, total, err := listProducts(c.Request().Context(), db, store.ProductFilter{
			Category:  req.Category,
			Search:    req.Search,
			MinPrice:  req.MinPrice,
			MaxPrice:  req.MaxPrice,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
			Page:      req.Page,
			Limit:     req.Limit,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		totalPages := (total + req.Limit - 1) / req.Limit
		return c.JSON(http.StatusOK, api.Success("", api.ProductPage{
			Products: products,
			Pagination: api.Pagination{
				CurrentPage:     req.Page,
				TotalPages:      totalPages,
				TotalProducts:   total,
				ProductsPerPage: req.Limit,
			},
		}))
	}
}

// @Summary     Get a product
// @Tags        products
// @Produce     json
// @Param       id path int true "product ID"
// @Success     200 {object} api.Response{data=model.Product}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Router      /products/{id} [get]
func GetProductHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid product ID"))
		}
		product, err := getProductByID(c.Request().Context(), db, id)
		if err != nil {
			return c.JSON(http.StatusNotFound, api.Error("product not found"))
		}
		return c.JSON(http.StatusOK, api.Success("", product))
	}
}

// @Summary     List categories
// @Description Distinct product categories, cached in Redis
// @Tags        products
// @Produce     json
// @Success     200 {object} api.Response{data=[]string}
// @Failure     500 {object} api.Response
// @Router      /products/categories [get]
func ListCategoriesHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()

		if cached, err := rdb.Get(ctx, categoriesCacheKey).Result(); err == nil {
			var categories []string
			if json.Unmarshal([]byte(cached), &categories) == nil {
				return c.JSON(http.StatusOK, api.Success("", categories))
			}
		} else if !errors.Is(err, redis.Nil) {
			c.Logger().Warnf("categories cache read failed: %v", err)
		}

		categories, err := listCategories(ctx, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		if payload, err := json.Marshal(categories); err == nil {
			rdb.Set(ctx, categoriesCacheKey, payload, categoriesCacheTTL)
		}
		return c.JSON(http.StatusOK, api.Success("", categories))
	}
}

// @Summary     List products in a category
// @Tags        products
// @Produce     json
// @Param       category path string true "category name"
// @Success     200 {object} api.Response{data=[]model.Product}
// @Failure     500 {object} api.Response
// @Router      /products/category/{category} [get]
func ListByCategoryHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		products, err := listProductsByCategory(c.Request().Context(), db, c.Param("category"))
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		return c.JSON(http.StatusOK, api.Success("", products))
	}
}

// @Summary     Create a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       request body api.CreateProductRequest true "product data"
// @Success     201 {object} api.Response{data=model.Product}
// @Failure     400 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /products [post]
func CreateProductHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req api.CreateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		product, err := createProduct(c.Request().Context(), db, &model.Product{
			Name:          req.Name,
			Description:   req.Description,
			Price:         *req.Price,
			Category:      req.Category,
			StockQuantity: req.StockQuantity,
			ImageURL:      req.ImageURL,
			Ingredients:   req.Ingredients,
			Benefits:      req.Benefits,
		})
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		invalidateCategories(c.Request().Context(), rdb)
		return c.JSON(http.StatusCreated, api.Success("product created", product))
	}
}

// @Summary     Update a product
// @Tags        products
// @Accept      json
// @Produce     json
// @Param       id path int true "product ID"
// @Param       request body api.UpdateProductRequest true "product data"
// @Success     200 {object} api.Response{data=model.Product}
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /products/{id} [put]
func UpdateProductHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid product ID"))
		}

		var req api.UpdateProductRequest
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid request body"))
		}
		if err := c.Validate(&req); err != nil {
			return c.JSON(http.StatusBadRequest, api.Error(err.Error()))
		}

		product, err := updateProduct(c.Request().Context(), db, &model.Product{
			ID:            id,
			Name:          req.Name,
			Description:   req.Description,
			Price:         *req.Price,
			Category:      req.Category,
			StockQuantity: req.StockQuantity,
			ImageURL:      req.ImageURL,
			Ingredients:   req.Ingredients,
			Benefits:      req.Benefits,
		})
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return c.JSON(http.StatusNotFound, api.Error("product not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}

		invalidateCategories(c.Request().Context(), rdb)
		return c.JSON(http.StatusOK, api.Success("product updated", product))
	}
}

// @Summary     Delete a product
// @Tags        products
// @Produce     json
// @Param       id path int true "product ID"
// @Success     200 {object} api.Response
// @Failure     400 {object} api.Response
// @Failure     404 {object} api.Response
// @Failure     500 {object} api.Response
// @Security    ApiKeyAuth
// @Router      /products/{id} [delete]
func DeleteProductHandler(db database.DB, rdb cache.Cache) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			return c.JSON(http.StatusBadRequest, api.Error("invalid product ID"))
		}
		if err := deleteProduct(c.Request().Context(), db, id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return c.JSON(http.StatusNotFound, api.Error("product not found"))
			}
			return c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		}
		invalidateCategories(c.Request().Context(), rdb)
		return c.JSON(http.StatusOK, api.Success("product deleted", nil))
	}
}
