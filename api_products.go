package mallclient

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Product list defaults and bounds, mirroring the server's query contract.
const (
	defaultPage     = 1
	defaultPageSize = 6
	maxPageSize     = 100
)

// ProductQuery selects a page of the catalog. Zero values pick the defaults;
// out-of-range sizes are clamped client-side rather than bounced by the
// server.
type ProductQuery struct {
	Page     int
	PageSize int
	Category string
}

// Product is one catalog entry. Only in-stock products are returned by the
// listing endpoint.
type Product struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	InStock     bool    `json:"in_stock"`
	CreatedAt   string  `json:"created_at"`
}

// ProductPage is a page of catalog results.
type ProductPage struct {
	Total      int       `json:"total"`
	Page       int       `json:"page"`
	PageSize   int       `json:"page_size"`
	TotalPages int       `json:"total_pages"`
	Products   []Product `json:"products"`
}

func (q ProductQuery) values() url.Values {
	page := q.Page
	if page < 1 {
		page = defaultPage
	}
	size := q.PageSize
	if size < 1 {
		size = defaultPageSize
	}
	if size > maxPageSize {
		size = maxPageSize
	}

	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	v.Set("page_size", strconv.Itoa(size))
	if q.Category != "" {
		v.Set("category", q.Category)
	}
	return v
}

// Products fetches one page of the catalog, optionally filtered by category.
// The call works logged out; the listing is public.
func (c *Client) Products(ctx context.Context, q ProductQuery) (*ProductPage, error) {
	var out ProductPage
	if err := c.do(ctx, http.MethodGet, c.cfg.HTTP.ProductsPath, q.values(), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
