// internal/pkg/email/types.go
package email

import (
	"time"
)

// EmailType represents the type of email being sent
type EmailType string

const (
	EmailTypeOrderConfirmation EmailType = "order_confirmation"
	EmailTypeOrderCancelled    EmailType = "order_cancelled"
	EmailTypeTest              EmailType = "test"
)

// Email represents an email message
type Email struct {
	To          []string  `json:"to"`
	ToName      string    `json:"to_name,omitempty"`
	Subject     string    `json:"subject"`
	HTMLContent string    `json:"html_content"`
	TextContent string    `json:"text_content,omitempty"`
	Type        EmailType `json:"type"`
}

// EmailTemplateData contains common data for all email templates
type EmailTemplateData struct {
	SiteName   string `json:"site_name"`
	SiteURL    string `json:"site_url"`
	SupportURL string `json:"support_url"`
	UserName   string `json:"user_name"`
	UserEmail  string `json:"user_email"`
	Year       int    `json:"year"`
}

// OrderEmailData contains data for order confirmation and cancellation emails
type OrderEmailData struct {
	EmailTemplateData
	OrderID               string      `json:"order_id"`
	OrderNumber           string      `json:"order_number"`
	OrderDate             string      `json:"order_date"`
	OrderTotal            string      `json:"order_total"`
	Currency              string      `json:"currency"`
	OrderURL              string      `json:"order_url"`
	PaymentMethod         string      `json:"payment_method"`
	PaymentURL            string      `json:"payment_url,omitempty"`
	EstimatedShippingDays string      `json:"estimated_shipping_days"`
	Items                 []OrderItem `json:"items"`
	ShippingAddress       Address     `json:"shipping_address"`
}

// OrderItem represents an item in the order
type OrderItem struct {
	Name     string `json:"name"`
	Color    string `json:"color,omitempty"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
	Total    string `json:"total"`
	ImageURL string `json:"image_url"`
}

// Address represents the shipping address
type Address struct {
	FullName     string `json:"full_name"`
	AddressLine1 string `json:"address_line1"`
	AddressLine2 string `json:"address_line2"`
	City         string `json:"city"`
	State        string `json:"state"`
	PostalCode   string `json:"postal_code"`
	Country      string `json:"country"`
	Phone        string `json:"phone"`
}

// GetBaseTemplateData returns common template data
func GetBaseTemplateData(siteName, siteURL, userName, userEmail string) EmailTemplateData {
	return EmailTemplateData{
		SiteName:   siteName,
		SiteURL:    siteURL,
		SupportURL: siteURL + "/support",
		UserName:   userName,
		UserEmail:  userEmail,
		Year:       time.Now().Year(),
	}
}
