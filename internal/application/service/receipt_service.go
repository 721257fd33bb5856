package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/duka-pos/internal/domain/entity"
	"github.com/sangkips/duka-pos/internal/domain/repository"
	"github.com/sangkips/duka-pos/internal/logger"
	"github.com/sangkips/duka-pos/pkg/apperror"
	"github.com/sangkips/duka-pos/pkg/printer"
	"github.com/sangkips/duka-pos/pkg/utils"
	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// ReceiptService composes receipts from committed sales and prints them.
type ReceiptService struct {
	printer     printer.Printer
	saleRepo    repository.SaleRepository
	printerType string
	width       int
	storeName   string
	log         zerolog.Logger
}

// ReceiptOptions configures receipt layout
type ReceiptOptions struct {
	PrinterType string
	Width       int
	// StoreName replaces the shop name in the header when set
	StoreName string
}

// NewReceiptService creates a new receipt service
func NewReceiptService(p printer.Printer, saleRepo repository.SaleRepository, opts ReceiptOptions) *ReceiptService {
	return &ReceiptService{
		printer:     p,
		saleRepo:    saleRepo,
		printerType: opts.PrinterType,
		width:       opts.Width,
		storeName:   opts.StoreName,
		log:         logger.WithComponent("receipt"),
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *ReceiptService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != printer.TypeNone && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// BuildReceipt loads a committed sale and its line items and lays out its receipt
func (s *ReceiptService) BuildReceipt(ctx context.Context, shopID, saleID uuid.UUID) (*entity.Receipt, error) {
	sale, err := s.saleRepo.GetWithItems(ctx, shopID, saleID)
	if err != nil {
		return nil, apperror.NewPersistenceError("load sale", err)
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return s.receiptFor(sale), nil
}

// PrintSale builds the receipt of a sale and sends it to the printer. The receipt is
// returned even when printing fails.
func (s *ReceiptService) PrintSale(ctx context.Context, shopID, saleID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.BuildReceipt(ctx, shopID, saleID)
	if err != nil {
		return nil, err
	}

	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.width)); err != nil {
		s.log.Error().Err(err).Str("sale_id", saleID.String()).Msg("printer error")
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	s.log.Debug().Str("sale_id", saleID.String()).Str("receipt_no", receipt.ReceiptNo).Msg("receipt printed")
	return receipt, nil
}

func (s *ReceiptService) receiptFor(sale *entity.Sale) *entity.Receipt {
	storeName := sale.Shop.Name
	if s.storeName != "" {
		storeName = s.storeName
	}

	receipt := &entity.Receipt{
		Header: entity.ReceiptHeader{
			StoreName: storeName,
			Address:   sale.Shop.Address,
			Phone:     sale.Shop.Phone,
			TaxID:     sale.Shop.TaxPIN,
		},
		ReceiptNo:     sale.ReceiptNo,
		Barcode:       utils.ReceiptBarcode(sale.ReceiptNo, sale.CreatedAt),
		Date:          sale.CreatedAt.Format("2006-01-02 15:04"),
		Cashier:       sale.User.FullName(),
		PaymentMethod: sale.PaymentMethod.String(),
		SubTotal:      sale.Subtotal,
		Tax:           sale.Tax,
		Total:         sale.Total,
		Footer:        sale.Shop.Settings.ReceiptFooter,
	}
	if sale.CustomerName != nil {
		receipt.Customer = *sale.CustomerName
	}
	if sale.CustomerPhone != nil {
		receipt.CustomerPhone = *sale.CustomerPhone
	}

	for _, item := range sale.Items {
		name := item.ProductName
		if name == "" {
			name = "Product"
		}
		receipt.Items = append(receipt.Items, entity.ReceiptItem{
			Name:            name,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			Total:           item.TotalPrice,
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes for paper width characters wide.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}
	if r.Header.TaxID != "" {
		doc.TextF("PIN: %s", r.Header.TaxID)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.Date)
	if r.Cashier != "" {
		doc.KeyValue("Cashier:", r.Cashier)
	}
	if r.Customer != "" {
		doc.KeyValue("Customer:", r.Customer)
	}
	if r.CustomerPhone != "" {
		doc.KeyValue("Phone:", r.CustomerPhone)
	}
	if r.PaymentMethod != "" {
		doc.KeyValue("Payment:", r.PaymentMethod)
	}

	doc.Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity.String(), item.Name, item.Total.StringFixed(2))
		if !item.Quantity.Equal(one) {
			doc.TextF("  @ %s each", item.UnitPrice.StringFixed(2))
		}
		if item.DiscountPercent.IsPositive() {
			doc.TextF("  less %s%%", item.DiscountPercent.String())
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", r.SubTotal.StringFixed(2))
	if r.Tax.IsPositive() {
		doc.KeyValue("VAT:", r.Tax.StringFixed(2))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", r.Total.StringFixed(2)).
		SetBold(false)

	doc.Separator('-')

	footer := r.Footer
	if footer == "" {
		footer = "Thank you for your business!"
	}
	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(footer).
		LineFeed().
		Barcode(r.Barcode).
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
