package pdf

import (
	"bytes"
	"context"
	"io"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// PDFProvider renders rent receipts with maroto.
type PDFProvider struct{}

func NewProvider() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) GenerateRentReceipt(ctx context.Context, data ReceiptData) (io.Reader, error) {
	_ = ctx

	cfg := config.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	m.AddRow(25,
		text.NewCol(8, "Rent Receipt", props.Text{
			Size:  20,
			Style: fontstyle.Bold,
			Align: align.Left,
		}),
		text.NewCol(4, data.ReceiptNumber, props.Text{
			Size:  10,
			Align: align.Right,
			Top:   5,
		}),
	)

	m.AddRow(25,
		col.New(6).Add(
			text.New(data.PropertyName, props.Text{Style: fontstyle.Bold}),
			text.New(data.OwnerContact, props.Text{Top: 5, Size: 9}),
		),
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold}),
			text.New(data.TenantName, props.Text{Top: 5}),
			text.New("Room "+data.RoomNumber, props.Text{Top: 10, Size: 9}),
		),
	)

	m.AddRow(20,
		col.New(12).Add(
			text.New("Rent month: "+data.RentMonth, props.Text{Top: 0}),
			text.New("Due date: "+data.DueDate, props.Text{Top: 4}),
			text.New("Paid on: "+data.DatePaid+" ("+data.PaymentMode+")", props.Text{Top: 8}),
		),
	)

	m.AddRow(10,
		text.NewCol(8, "Description", props.Text{Style: fontstyle.Bold, Size: 9}),
		text.NewCol(4, "Amount", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}),
	)

	for _, line := range data.Lines {
		m.AddRow(8,
			text.NewCol(8, line.Description, props.Text{Size: 9}),
			text.NewCol(4, line.AmountDisplay, props.Text{Size: 9, Align: align.Right}),
		)
	}

	m.AddRow(12,
		col.New(8),
		text.NewCol(2, "Total", props.Text{Style: fontstyle.Bold, Size: 10}),
		text.NewCol(2, data.TotalDisplay, props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right}),
	)

	if data.Remarks != "" {
		m.AddRow(15,
			text.NewCol(12, data.Remarks, props.Text{Size: 8, Top: 4}),
		)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(doc.GetBytes()), nil
}
