package reports

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/nader-rabadi/AWSmicroservices/internal/domain"
	"go.uber.org/zap"
)

// Report artifacts are written under fixed names and handed out through
// time-bounded presigned links.
const (
	OrderReportKey   = "orderreport.html"
	ProductReportKey = "productreport.html"
)

// ContentStore holds generated artifacts and signs download links for them.
type ContentStore interface {
	Put(ctx context.Context, key string, body []byte, contentType string) error
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

type OrderLister interface {
	List(ctx context.Context) ([]domain.Order, error)
}

type ProductLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Links is the workflow's output payload: presigned locations of the two
// generated reports.
type Links struct {
	OrdersURL   string `json:"presigned_url_orders_str"`
	ProductsURL string `json:"presigned_url_products_str"`
}

// Generator builds the order and product reports from the stores and
// publishes them to the content store.
type Generator struct {
	orders   OrderLister
	products ProductLister
	store    ContentStore
	linkTTL  time.Duration
	logger   *zap.Logger
}

func NewGenerator(orders OrderLister, products ProductLister, store ContentStore, linkTTL time.Duration, logger *zap.Logger) *Generator {
	return &Generator{
		orders:   orders,
		products: products,
		store:    store,
		linkTTL:  linkTTL,
		logger:   logger,
	}
}

// Publish renders both reports, writes them under their fixed keys, and
// returns presigned links valid for the configured TTL.
func (g *Generator) Publish(ctx context.Context) (*Links, error) {
	orders, err := g.orders.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: list orders: %w", err)
	}
	body, err := renderOrders(orders)
	if err != nil {
		return nil, fmt.Errorf("reports: render orders: %w", err)
	}
	if err := g.store.Put(ctx, OrderReportKey, body, "text/html"); err != nil {
		return nil, fmt.Errorf("reports: put %s: %w", OrderReportKey, err)
	}

	products, err := g.products.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("reports: list products: %w", err)
	}
	body, err = renderProducts(products)
	if err != nil {
		return nil, fmt.Errorf("reports: render products: %w", err)
	}
	if err := g.store.Put(ctx, ProductReportKey, body, "text/html"); err != nil {
		return nil, fmt.Errorf("reports: put %s: %w", ProductReportKey, err)
	}

	ordersURL, err := g.store.PresignGet(ctx, OrderReportKey, g.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("reports: presign %s: %w", OrderReportKey, err)
	}
	productsURL, err := g.store.PresignGet(ctx, ProductReportKey, g.linkTTL)
	if err != nil {
		return nil, fmt.Errorf("reports: presign %s: %w", ProductReportKey, err)
	}

	g.logger.Info("reports published",
		zap.Int("orders", len(orders)),
		zap.Int("products", len(products)))

	return &Links{OrdersURL: ordersURL, ProductsURL: productsURL}, nil
}

var ordersTemplate = template.Must(template.New("orders").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Orders Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<h1>List of Orders</h1>
<table>
<tr><th>Order ID</th><th>Order Time</th><th>Total Amount</th><th>Products</th></tr>
{{range .}}<tr><td>{{.ID}}</td><td>{{.OrderTime}}</td><td>{{.TotalAmount}}</td><td>{{range .OrderedItems}}{{.ProductName}} x{{.Quantity}} ({{.Amount}})<br>{{end}}</td></tr>
{{end}}</table>
</body>
</html>
`))

var productsTemplate = template.Must(template.New("products").Parse(`<!DOCTYPE html>
<html>
<head>
<title>Products Report</title>
<style>
table { border-collapse: collapse; width: 100%; }
th, td { text-align: left; padding: 8px; border-bottom: 1px solid #ddd; }
th { background-color: #f2f2f2; }
</style>
</head>
<body>
<h1>List of Products</h1>
<table>
<tr><th>Product ID</th><th>Name</th><th>Price</th><th>Inventory</th></tr>
{{range .}}<tr><td>{{.ID}}</td><td>{{.Name}}</td><td>{{.Price}}</td><td>{{.InventoryCount}}</td></tr>
{{end}}</table>
</body>
</html>
`))

func renderOrders(orders []domain.Order) ([]byte, error) {
	var buf bytes.Buffer
	if err := ordersTemplate.Execute(&buf, orders); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderProducts(products []domain.Product) ([]byte, error) {
	var buf bytes.Buffer
	if err := productsTemplate.Execute(&buf, products); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
