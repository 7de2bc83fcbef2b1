package pdf

import (
	"context"
	"io"
)

// ReceiptData carries everything a rent receipt renders.
type ReceiptData struct {
	ReceiptNumber string
	PropertyName  string
	OwnerContact  string

	TenantName string
	RoomNumber string

	RentMonth   string
	DueDate     string
	DatePaid    string
	PaymentMode string

	Lines []ReceiptLine

	TotalDisplay string
	Remarks      string
}

// ReceiptLine is one charge row on the receipt.
type ReceiptLine struct {
	Description   string
	AmountDisplay string
}

type Provider interface {
	GenerateRentReceipt(ctx context.Context, data ReceiptData) (io.Reader, error)
}
