// internal/pkg/pdf/service.go
package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	"github.com/shopspring/decimal"
	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/domain/order"
)

// Service handles PDF generation
type Service struct {
	config *config.Config
	tmpl   *template.Template
}

// NewService creates a new PDF service
func NewService(cfg *config.Config) *Service {
	if cfg.External.PDF.WkhtmltopdfPath != "" {
		wkhtmltopdf.SetPath(cfg.External.PDF.WkhtmltopdfPath)
	}
	return &Service{
		config: cfg,
		tmpl: template.Must(template.New("receipt").Funcs(template.FuncMap{
			"money": func(v decimal.Decimal) string { return v.StringFixed(2) },
		}).Parse(receiptTemplate)),
	}
}

// ReceiptData represents the data passed to the receipt template
type ReceiptData struct {
	ReceiptNumber         string
	IssuedAt              string
	OrderDate             string
	Currency              string
	Order                 *order.Order
	EstimatedShippingDays string
	Company               CompanyInfo
}

// CompanyInfo represents company information
type CompanyInfo struct {
	Name    string
	Website string
}

// GenerateReceipt renders the order receipt as a PDF
func (s *Service) GenerateReceipt(o *order.Order) (*bytes.Buffer, error) {
	htmlContent, err := s.GenerateReceiptHTML(o, time.Now())
	if err != nil {
		return nil, err
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	dpi := s.config.External.PDF.DPI
	if dpi == 0 {
		dpi = 300
	}
	pdfg.Dpi.Set(dpi)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageSize.Set(wkhtmltopdf.PageSizeA4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.FooterRight.Set("[page]")
	page.FooterFontSize.Set(9)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}

	return bytes.NewBuffer(pdfg.Bytes()), nil
}

// GenerateReceiptHTML renders the receipt page
func (s *Service) GenerateReceiptHTML(o *order.Order, issuedAt time.Time) (string, error) {
	data := ReceiptData{
		ReceiptNumber:         fmt.Sprintf("REC-%s", o.ShortID()),
		IssuedAt:              issuedAt.Format("January 2, 2006"),
		OrderDate:             o.CreatedAt.Format("January 2, 2006 15:04"),
		Currency:              s.config.App.Currency,
		Order:                 o,
		EstimatedShippingDays: order.EstimatedShippingDays(o),
		Company: CompanyInfo{
			Name:    s.config.App.CompanyName,
			Website: s.config.App.SiteURL,
		},
	}

	var buf bytes.Buffer
	if err := s.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 0; padding: 20px; color: #333; }
.header { display: flex; justify-content: space-between; border-bottom: 2px solid #111; padding-bottom: 16px; }
.company { font-size: 22px; font-weight: bold; }
table { width: 100%; border-collapse: collapse; margin-top: 24px; }
th, td { padding: 10px; border-bottom: 1px solid #ddd; text-align: left; }
th { background: #f5f5f5; }
.right { text-align: right; }
.total { font-size: 18px; font-weight: bold; }
.meta p { margin: 2px 0; }
</style>
</head>
<body>
<div class="header">
  <div>
    <div class="company">{{.Company.Name}}</div>
    <div>{{.Company.Website}}</div>
  </div>
  <div class="meta">
    <p><strong>Receipt:</strong> {{.ReceiptNumber}}</p>
    <p><strong>Issued:</strong> {{.IssuedAt}}</p>
    <p><strong>Order:</strong> {{.Order.ID}}</p>
    <p><strong>Placed:</strong> {{.OrderDate}}</p>
  </div>
</div>

<div class="meta" style="margin-top:16px">
  <p><strong>Ship to:</strong> {{.Order.ShippingAddress.FullName}}</p>
  <p>{{.Order.ShippingAddress.AddressLine1}} {{.Order.ShippingAddress.AddressLine2}}</p>
  <p>{{.Order.ShippingAddress.City}} {{.Order.ShippingAddress.State}} {{.Order.ShippingAddress.PostalCode}}</p>
  <p><strong>Payment:</strong> {{.Order.PaymentMethod}} ({{.Order.PaymentStatus}})</p>
  <p><strong>Status:</strong> {{.Order.Status}}</p>
  <p><strong>Estimated shipping:</strong> {{.EstimatedShippingDays}} days</p>
</div>

<table>
  <tr><th>Product</th><th>Color</th><th class="right">Qty</th><th class="right">Price</th><th class="right">Subtotal</th></tr>
  {{range .Order.Items}}
  <tr>
    <td>{{.ProductName}}</td>
    <td>{{.SelectedColor}}</td>
    <td class="right">{{.Quantity}}</td>
    <td class="right">{{money .Price}}</td>
    <td class="right">{{money .Subtotal}}</td>
  </tr>
  {{end}}
  <tr><td colspan="4" class="right total">Total</td><td class="right total">{{$.Currency}} {{money .Order.Total}}</td></tr>
</table>
</body>
</html>
`
