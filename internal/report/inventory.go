package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/money"
)

const sheetInventory = "Inventario"

var inventoryHeaders = []string{"SKU", "NOMBRE", "CATEGORÍA", "STOCK", "PRECIO", "TIPO"}

// ExportInventory writes a plain listing of the current catalog: no
// reconciliation state, just what the store reports right now.
func (e *Exporter) ExportInventory(path string, records []catalog.Record) error {
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
	if err := f.SetSheetName(f.GetSheetName(0), sheetInventory); err != nil {
		return errors.WrapIO("write", path, err)
	}

	if err := f.SetSheetRow(sheetInventory, "A1", &inventoryHeaders); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := f.SetCellStyle(sheetInventory, "A1", "F1", st.header); err != nil {
		return errors.WrapIO("write", path, err)
	}

	for i, rec := range records {
		row := i + 2
		category := rec.Category
		if category == "" {
			category = placeholder
		}
		values := []any{rec.SKU, rec.Name, category, rec.Stock}
		if err := f.SetSheetRow(sheetInventory, fmt.Sprintf("A%d", row), &values); err != nil {
			return errors.WrapIO("write", path, err)
		}
		v, _ := money.Clamp(rec.Price).Round(2).Float64()
		if err := f.SetCellValue(sheetInventory, fmt.Sprintf("E%d", row), v); err != nil {
			return errors.WrapIO("write", path, err)
		}
		if err := f.SetCellValue(sheetInventory, fmt.Sprintf("F%d", row), rec.Kind.String()); err != nil {
			return errors.WrapIO("write", path, err)
		}

		if err := f.SetCellStyle(sheetInventory, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), st.stock); err != nil {
			return errors.WrapIO("write", path, err)
		}
		if err := f.SetCellStyle(sheetInventory, fmt.Sprintf("E%d", row), fmt.Sprintf("E%d", row), st.price); err != nil {
			return errors.WrapIO("write", path, err)
		}
	}

	if err := f.AutoFilter(sheetInventory, fmt.Sprintf("A1:F%d", len(records)+1), nil); err != nil {
		return errors.WrapIO("write", path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return errors.WrapIO("write", path, err)
	}
	logging.Info().Str("path", path).Int("records", len(records)).Msg("inventory exported")
	return nil
}
