package report_test

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/internal/report"
)

func intPtr(v int) *int { return &v }

func decPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func record(sku, name, category string, kind catalog.Kind) *catalog.ReconciledRecord {
	rec := &catalog.ReconciledRecord{Record: catalog.Record{
		SKU: sku, Name: name, Category: category,
		Stock: 5, Price: decimal.RequireFromString("10"),
		Cost: decimal.RequireFromString("4.25"),
		Kind: kind, RawKind: kind.String(),
	}}
	rec.RefreshStatus()
	return rec
}

func TestExportTwoSheetWorkbook(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	simple := record("A1", "Widget", "Tools", catalog.KindSimple)
	require.NoError(t, simple.SetNewStock(intPtr(8)))
	require.NoError(t, simple.SetNewPrice(decPtr("15.5")))

	variant := record("A2", "Shirt (M)", "Clothing", catalog.KindVariation)

	require.NoError(t, report.New().Export(path,
		[]*catalog.ReconciledRecord{simple},
		[]*catalog.ReconciledRecord{variant}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	assert.Equal(t, []string{"Simple", "Variant"}, f.GetSheetList())

	rows, err := f.GetRows("Simple")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"SKU", "NOMBRE", "CATEGORÍA", "STOCK", "PRECIO COMPRA", "PRECIO VENTA", "ESTADO"}, rows[0])

	// Proposed values win over current ones; money renders with two decimals.
	assert.Equal(t, "A1", rows[1][0])
	assert.Equal(t, "8", rows[1][3])
	assert.Equal(t, "4.25", rows[1][4])
	assert.Equal(t, "15.50", rows[1][5])
	assert.Equal(t, "pending", rows[1][6])

	variantRows, err := f.GetRows("Variant")
	require.NoError(t, err)
	require.Len(t, variantRows, 2)
	assert.Equal(t, "no change", variantRows[1][6])
}

func TestExportHeaderBoldAndFrozen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, report.New().Export(path,
		[]*catalog.ReconciledRecord{record("A1", "Widget", "Tools", catalog.KindSimple)}, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	styleID, err := f.GetCellStyle("Simple", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	panes, err := f.GetPanes("Simple")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 1, panes.YSplit)
}

func TestExportPlaceholdersForMissingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	rec := record("A1", "Widget", "", catalog.KindSimple)
	rec.Cost = decimal.Zero

	require.NoError(t, report.New().Export(path, []*catalog.ReconciledRecord{rec}, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows("Simple")
	require.NoError(t, err)
	assert.Equal(t, "—", rows[1][2], "missing category renders the placeholder")
	assert.Equal(t, "—", rows[1][4], "missing cost renders the placeholder")
}

func TestExportClampsNegativePrices(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	rec := record("A1", "Widget", "Tools", catalog.KindSimple)
	rec.Price = decimal.RequireFromString("-3")

	require.NoError(t, report.New().Export(path, []*catalog.ReconciledRecord{rec}, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows("Simple")
	require.NoError(t, err)
	assert.Equal(t, "0.00", rows[1][5])
}

func TestExportInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.xlsx")

	records := []catalog.Record{
		{SKU: "A1", Name: "Widget", Category: "Tools", Stock: 5,
			Price: decimal.RequireFromString("10"), Kind: catalog.KindSimple},
	}
	require.NoError(t, report.New().ExportInventory(path, records))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, f.Close()) }()

	rows, err := f.GetRows("Inventario")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "simple", rows[1][5])
}
