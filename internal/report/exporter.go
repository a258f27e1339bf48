// Package report renders reconciled records into a formatted workbook:
// one sheet for simple products, one for variations and everything else.
package report

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/money"
)

// placeholder keeps every exported cell non-empty when a record has no
// matched category or purchase cost.
const placeholder = "—"

// Sheet names of the two-group report.
const (
	sheetSimple  = "Simple"
	sheetVariant = "Variant"
)

var headers = []string{"SKU", "NOMBRE", "CATEGORÍA", "STOCK", "PRECIO COMPRA", "PRECIO VENTA", "ESTADO"}

var columnWidths = []float64{18, 48, 30, 10, 14, 14, 18}

// styles holds the style IDs registered on one workbook.
type styles struct {
	header int
	stock  int
	price  int
	center int
}

// Exporter writes reconciliation reports. The zero value is ready to use.
type Exporter struct{}

// New creates an Exporter.
func New() *Exporter {
	return &Exporter{}
}

// Export writes the two-sheet report to path. Column order is fixed; the
// header row is bold and frozen with a filter region spanning header and
// data. Stock renders as an integer, money with exactly two decimals,
// half-up, clamped at zero.
func (e *Exporter) Export(path string, simple, other []*catalog.ReconciledRecord) error {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Msg("failed to close workbook")
		}
	}()

	st, err := registerStyles(f)
	if err != nil {
		return errors.WrapIO("write", path, err)
	}

	if err := f.SetSheetName(f.GetSheetName(0), sheetSimple); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if _, err := f.NewSheet(sheetVariant); err != nil {
		return errors.WrapIO("write", path, err)
	}

	if err := writeSheet(f, sheetSimple, st, simple); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := writeSheet(f, sheetVariant, st, other); err != nil {
		return errors.WrapIO("write", path, err)
	}

	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	logging.Info().Str("path", path).Int("simple", len(simple)).Int("other", len(other)).Msg("report exported")
	return nil
}

// registerStyles creates the shared cell styles on a workbook.
func registerStyles(f *excelize.File) (styles, error) {
	var st styles
	var err error

	center := &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true}

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"D9E1F2"}, Pattern: 1},
		Alignment: center,
	})
	if err != nil {
		return st, err
	}

	stockFmt := "0"
	st.stock, err = f.NewStyle(&excelize.Style{CustomNumFmt: &stockFmt, Alignment: center})
	if err != nil {
		return st, err
	}

	priceFmt := "0.00"
	st.price, err = f.NewStyle(&excelize.Style{CustomNumFmt: &priceFmt, Alignment: center})
	if err != nil {
		return st, err
	}

	st.center, err = f.NewStyle(&excelize.Style{Alignment: center})
	return st, err
}

// formatSheet applies the layout shared by every sheet: header row, column
// widths, frozen panes, and the filter region across header and data.
func formatSheet(f *excelize.File, sheet string, st styles, dataRows int) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "G1", st.header); err != nil {
		return err
	}

	for i, w := range columnWidths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	lastRow := dataRows + 1
	return f.AutoFilter(sheet, fmt.Sprintf("A1:G%d", lastRow), nil)
}

// writeSheet renders one record collection.
func writeSheet(f *excelize.File, sheet string, st styles, records []*catalog.ReconciledRecord) error {
	if err := formatSheet(f, sheet, st, len(records)); err != nil {
		return err
	}

	for i, rec := range records {
		row := i + 2

		category := rec.Category
		if category == "" {
			category = placeholder
		}

		values := []any{rec.SKU, rec.Name, category, effectiveStock(rec)}
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return err
		}

		if err := setMoneyCell(f, sheet, fmt.Sprintf("E%d", row), rec.Cost); err != nil {
			return err
		}
		price := effectivePrice(rec)
		cell := fmt.Sprintf("F%d", row)
		v, _ := money.Clamp(price).Round(2).Float64()
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return err
		}

		if err := f.SetCellValue(sheet, fmt.Sprintf("G%d", row), rec.StatusLabel()); err != nil {
			return err
		}

		if err := f.SetCellStyle(sheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), st.stock); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("E%d", row), fmt.Sprintf("F%d", row), st.price); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("G%d", row), st.center); err != nil {
			return err
		}
	}
	return nil
}

// setMoneyCell writes a monetary cell, or the placeholder when the record
// carries no matched amount.
func setMoneyCell(f *excelize.File, sheet, cell string, d decimal.Decimal) error {
	if d.IsZero() || d.IsNegative() {
		return f.SetCellValue(sheet, cell, placeholder)
	}
	v, _ := money.Round(d).Float64()
	return f.SetCellValue(sheet, cell, v)
}

// effectiveStock is the proposed stock when present, else the current one.
func effectiveStock(rec *catalog.ReconciledRecord) int {
	if rec.NewStock != nil {
		return *rec.NewStock
	}
	return rec.Stock
}

// effectivePrice is the proposed price when present, else the current one.
func effectivePrice(rec *catalog.ReconciledRecord) decimal.Decimal {
	if rec.NewPrice != nil {
		return *rec.NewPrice
	}
	return rec.Price
}
