package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/instrument-shop/internal/domain/product"
	"github.com/lib/pq"
)

const productColumns = `id, name, brand, price, COALESCE(original_price, 0), rating, reviews, image_url, category,
	is_new, is_sale, is_top_seller, COALESCE(description, ''), COALESCE(specs, '[]'::jsonb)`

// Postgres reads the catalog from the products and categories tables.
// It never writes.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// ConnectPostgres opens and pings a connection pool.
func ConnectPostgres(connStr string) (*sql.DB, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	return db, nil
}

func (c *Postgres) Get(ctx context.Context, id string) (product.Product, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)

	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return product.Product{}, product.ErrProductNotFound
	}
	if err != nil {
		return product.Product{}, fmt.Errorf("failed to get product %s: %w", id, err)
	}
	return p, nil
}

func (c *Postgres) List(ctx context.Context, filter Filter) ([]product.Product, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	query, args := buildListQuery(filter)
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	defer rows.Close()

	var products []product.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	// the WHERE clause already narrowed the rows; Apply handles the sort
	return Apply(products, filter), nil
}

func (c *Postgres) Categories(ctx context.Context) ([]Category, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT name, COALESCE(icon, '') FROM categories ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var cat Category
		if err := rows.Scan(&cat.Name, &cat.Icon); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func buildListQuery(f Filter) (string, []any) {
	var (
		where []string
		args  []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Category != "" {
		where = append(where, "lower(category) = lower("+arg(f.Category)+")")
	}
	if len(f.Brands) > 0 {
		brands := make([]string, len(f.Brands))
		for i, b := range f.Brands {
			brands[i] = strings.ToLower(b)
		}
		where = append(where, "lower(brand) = ANY("+arg(pq.Array(brands))+")")
	}
	if f.MinPrice > 0 {
		where = append(where, "price >= "+arg(f.MinPrice))
	}
	if f.MaxPrice > 0 {
		where = append(where, "price <= "+arg(f.MaxPrice))
	}
	if f.OnSale {
		where = append(where, "is_sale")
	}
	if f.TopSellerOnly {
		where = append(where, "is_top_seller")
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY position ASC, id ASC`
	return query, args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (product.Product, error) {
	var (
		p     product.Product
		specs []byte
	)
	err := row.Scan(
		&p.ID, &p.Name, &p.Brand, &p.Price, &p.OriginalPrice, &p.Rating, &p.Reviews,
		&p.Image, &p.Category, &p.IsNew, &p.IsSale, &p.IsTopSeller, &p.Description, &specs,
	)
	if err != nil {
		return product.Product{}, err
	}
	if len(specs) > 0 {
		if err := json.Unmarshal(specs, &p.Specs); err != nil {
			return product.Product{}, fmt.Errorf("failed to decode specs for %s: %w", p.ID, err)
		}
	}
	if len(p.Specs) == 0 {
		p.Specs = nil
	}
	return p, nil
}
