package invoice

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"tenera-store/internal/model"

	"github.com/rs/zerolog"
)

// Storage persists a rendered invoice document.
type Storage interface {
	Put(ctx context.Context, key, contentType string, body []byte) error
}

// Generator renders an HTML invoice for a paid order and writes it to
// storage under a key derived from the order ID.
type Generator struct {
	storage Storage
	prefix  string
	tmpl    *template.Template
	logger  zerolog.Logger
}

// NewGenerator creates an invoice generator.
func NewGenerator(storage Storage, prefix string, logger zerolog.Logger) *Generator {
	return &Generator{
		storage: storage,
		prefix:  prefix,
		tmpl:    template.Must(template.New("invoice").Parse(invoiceTemplate)),
		logger:  logger.With().Str("component", "invoice").Logger(),
	}
}

// Generate renders and stores the invoice, returning the storage key.
func (g *Generator) Generate(ctx context.Context, order *model.Order) (string, error) {
	var buf bytes.Buffer
	if err := g.tmpl.Execute(&buf, order); err != nil {
		return "", fmt.Errorf("failed to render invoice: %w", err)
	}

	key := fmt.Sprintf("%s%s.html", g.prefix, order.ID)
	if err := g.storage.Put(ctx, key, "text/html; charset=utf-8", buf.Bytes()); err != nil {
		return "", fmt.Errorf("failed to store invoice: %w", err)
	}

	g.logger.Info().
		Str("order_id", order.ID.String()).
		Str("key", key).
		Msg("invoice stored")

	return key, nil
}

const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Invoice {{.PaymentReference}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2em auto; color: #222; }
table { width: 100%; border-collapse: collapse; margin: 1.5em 0; }
th, td { text-align: left; padding: 0.5em; border-bottom: 1px solid #ddd; }
.totals td { border: none; padding: 0.25em 0.5em; }
.grand { font-weight: bold; }
</style>
</head>
<body>
<h1>Tenera Wellness</h1>
<p>Invoice for order <strong>{{.PaymentReference}}</strong></p>
<p>
{{.CustomerName}}<br>
{{.CustomerEmail}}<br>
{{if .DeliveryAddress}}{{.DeliveryAddress}}<br>{{end}}
</p>
<table>
<tr><th>Item</th><th>Qty</th><th>Price</th></tr>
{{range .Items}}
<tr><td>{{.Name}}</td><td>{{.Quantity}}</td><td>{{printf "%.2f" .Price}}</td></tr>
{{end}}
</table>
<table class="totals">
<tr><td>Subtotal</td><td>{{printf "%.2f" .Subtotal}}</td></tr>
{{if .DiscountCode}}<tr><td>Discount ({{.DiscountCode}})</td><td>-{{printf "%.2f" .DiscountAmount}}</td></tr>{{end}}
<tr class="grand"><td>Total</td><td>{{printf "%.2f" .Total}}</td></tr>
</table>
<p>Placed on {{.CreatedAt.Format "2 January 2006"}}</p>
</body>
</html>
`
