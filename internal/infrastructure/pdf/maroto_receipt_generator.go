// Package pdf genera el comprobante de venta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre del comercio │  N° Venta + Fecha             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Medio de pago / Tipo de venta / Observaciones        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Total                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Subtotal / Descuento / TOTAL                       │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/urbano-pos-api/internal/application/sales"
	"github.com/jhoicas/urbano-pos-api/internal/domain/entity"
)

var _ sales.ReceiptGenerator = (*MarotoReceiptGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

var paymentLabels = map[entity.PaymentMethod]string{
	entity.PaymentCash:   "Efectivo",
	entity.PaymentCredit: "Crédito",
	entity.PaymentDebit:  "Débito",
	entity.PaymentPix:    "Pix",
	entity.PaymentOther:  "Otro",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReceiptGenerator implementa sales.ReceiptGenerator usando Maroto v2.
type MarotoReceiptGenerator struct {
	storeName string
	printer   *message.Printer
}

// NewMarotoReceiptGenerator construye el generador; los montos se formatean según lang.
func NewMarotoReceiptGenerator(storeName string, lang language.Tag) *MarotoReceiptGenerator {
	return &MarotoReceiptGenerator{storeName: storeName, printer: message.NewPrinter(lang)}
}

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoReceiptGenerator) Generate(_ context.Context, r *sales.Receipt) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Comprobante de venta", true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(r.Sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(detailsRow(r.Sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.tableRows(r.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(g.totalsRow(r))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoReceiptGenerator) headerRow(s entity.Sale) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("COMPROBANTE DE VENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(s.ID, props.Text{
				Size: 7, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+s.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func detailsRow(s entity.Sale) core.Row {
	notes := "-"
	if s.Notes != nil && *s.Notes != "" {
		notes = *s.Notes
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New(fmt.Sprintf("Medio de pago: %s   |   Tipo de venta: %s",
				nonEmpty(paymentLabels[s.PaymentMethod], string(s.PaymentMethod)),
				saleTypeLabel(s.SaleType),
			), props.Text{Size: 8, Top: 1}),
			text.New("Observaciones: "+notes, props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: colorPrimary}).Add(
		h("Cant.", 1, align.Center),
		h("Producto", 6, align.Left),
		h("Precio Unit.", 2, align.Right),
		h("Total", 3, align.Right),
	)
}

func (g *MarotoReceiptGenerator) tableRows(lines []sales.ReceiptLine) []core.Row {
	out := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		out = append(out, row.New(7).Add(
			col.New(1).Add(text.New(g.printer.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(g.Money(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(g.Money(l.Total),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return out
}

func (g *MarotoReceiptGenerator) totalsRow(r *sales.Receipt) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	grand := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 14,
		})
	}

	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Subtotal:", 1),
			label("Descuento:", 7),
			grand("TOTAL:"),
		),
		col.New(3).Add(
			value(g.Money(r.Subtotal), 1),
			value("-"+g.Money(r.Sale.Discount), 7),
			grand(g.Money(r.Sale.TotalPrice)),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

// Money formatea un monto con separadores del idioma configurado y dos decimales.
func (g *MarotoReceiptGenerator) Money(d decimal.Decimal) string {
	return "$" + g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

func saleTypeLabel(t entity.SaleType) string {
	if t == entity.SaleTypeWholesale {
		return "Mayorista"
	}
	return "Minorista"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
