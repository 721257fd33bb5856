package entity

import "github.com/shopspring/decimal"

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name            string          `json:"name"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Total           decimal.Decimal `json:"total"`
}

// Receipt is a value object representing a printable receipt.
// It is composed from a committed sale at print time and never persisted.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	ReceiptNo     string          `json:"receipt_no"`
	Barcode       string          `json:"barcode"`
	Date          string          `json:"date"`
	Cashier       string          `json:"cashier,omitempty"`
	Customer      string          `json:"customer,omitempty"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	PaymentMethod string          `json:"payment_method,omitempty"`
	Items         []ReceiptItem   `json:"items"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	Footer        string          `json:"footer,omitempty"`
}
