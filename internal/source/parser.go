// Package source parses the uploaded spreadsheet of stock and price
// updates. It resolves column aliases, validates required columns, and
// returns a sparse per-SKU update map: a missing cell means "no change",
// never zero.
package source

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	textunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/woosuite/woosync/internal/catalog"
	"github.com/woosuite/woosync/pkg/errors"
	"github.com/woosuite/woosync/pkg/logging"
	"github.com/woosuite/woosync/pkg/money"
)

// Header aliases. Uploads come from several templates, some of them hand
// edited, so each logical column accepts every spelling seen in the wild.
var (
	skuAliases   = []string{"SKU"}
	stockAliases = []string{"STOCK", "STOCK NUEVO", "NUEVO STOCK"}
	priceAliases = []string{"PRECIO", "PRECIO VENTA", "PRECIO_VENTA", "PRECIO VENTA NUEVO", "PRECIO_VENTA_NUEVO"}
)

// stripMarks removes combining diacritics so accented header spellings
// compare equal to their plain forms.
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Parser reads update files. The zero value is ready to use.
type Parser struct{}

// New creates a Parser.
func New() *Parser {
	return &Parser{}
}

// Parse reads the file at path and returns the SKU-keyed update map.
// Supported formats: UTF-8 delimited text (.csv, BOM tolerated) and
// structured spreadsheets (.xlsx/.xlsm). Later rows silently overwrite
// earlier ones for the same SKU.
func (p *Parser) Parse(path string) (map[string]catalog.Update, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return nil, errors.NewSourceFormatError(path,
			".xls files are not supported; re-save the file as .xlsx and try again")
	case ".csv":
		return p.parseCSV(path)
	case ".xlsx", ".xlsm":
		return p.parseXLSX(path)
	default:
		return nil, errors.NewSourceFormatError(path,
			"unsupported file type; expected .csv or .xlsx")
	}
}

// columns holds the resolved indexes of the logical columns. Stock is
// optional and may stay -1.
type columns struct {
	sku   int
	stock int
	price int
}

// resolveColumns maps normalized headers to logical columns. Missing a
// required column fails with the accepted aliases named.
func resolveColumns(path string, headers []string) (columns, error) {
	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = normalizeHeader(h)
	}

	cols := columns{}
	var err error
	if cols.sku, err = findColumn(path, normalized, skuAliases, true, "SKU"); err != nil {
		return cols, err
	}
	if cols.stock, err = findColumn(path, normalized, stockAliases, false, "STOCK"); err != nil {
		return cols, err
	}
	if cols.price, err = findColumn(path, normalized, priceAliases, true, "PRECIO"); err != nil {
		return cols, err
	}
	return cols, nil
}

// findColumn returns the index of the first alias match, -1 for an absent
// optional column.
func findColumn(path string, headers []string, aliases []string, required bool, name string) (int, error) {
	for _, alias := range aliases {
		target := normalizeHeader(alias)
		for i, h := range headers {
			if h == target {
				return i, nil
			}
		}
	}
	if required {
		return -1, errors.NewSourceFormatError(path, fmt.Sprintf(
			"missing required column %q; accepted headers: %s", name, strings.Join(aliases, ", ")))
	}
	return -1, nil
}

// normalizeHeader canonicalizes a header cell: trim, collapse inner
// whitespace, uppercase, strip diacritics.
func normalizeHeader(h string) string {
	if stripped, _, err := transform.String(stripMarks, h); err == nil {
		h = stripped
	}
	return strings.Join(strings.Fields(strings.ToUpper(h)), " ")
}

// cell returns the row value at index, tolerating short rows.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// rowUpdate builds the update for one data row. Empty and unparseable
// cells yield absent fields, never zeros.
func rowUpdate(row []string, cols columns) catalog.Update {
	var update catalog.Update

	if cols.stock >= 0 {
		if d, ok := money.Parse(cell(row, cols.stock)); ok && d != nil {
			stock := int(d.IntPart())
			update.Stock = &stock
		}
	}
	if d, ok := money.Parse(cell(row, cols.price)); ok && d != nil {
		update.Price = d
	}
	return update
}

// parseCSV reads a delimited text file. A UTF-8 BOM, if present, is
// stripped before the header row is read.
func (p *Parser) parseCSV(path string) (map[string]catalog.Update, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapIO("open", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("path", path).Msg("failed to close source file")
		}
	}()

	bomAware := transform.NewReader(f, textunicode.BOMOverride(encoding.Nop.NewDecoder()))
	reader := csv.NewReader(bomAware)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, errors.NewSourceFormatError(path, "file has no header row")
	}
	if err != nil {
		return nil, errors.NewSourceFormatError(path, "failed to read header row: "+err.Error())
	}

	cols, err := resolveColumns(path, headers)
	if err != nil {
		return nil, err
	}

	updates := map[string]catalog.Update{}
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.NewSourceFormatError(path, "failed to read row: "+err.Error())
		}
		sku := strings.TrimSpace(cell(row, cols.sku))
		if sku == "" {
			continue
		}
		updates[sku] = rowUpdate(row, cols)
	}

	logging.Debug().Int("rows", len(updates)).Str("path", path).Msg("source file parsed")
	return updates, nil
}

// parseXLSX reads the first sheet of a structured spreadsheet. The
// required header cells must be bold: a plain header row almost always
// means the wrong sheet or a generated export was picked, so parsing
// stops before any row is read.
func (p *Parser) parseXLSX(path string) (map[string]catalog.Update, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.NewSourceFormatError(path, "failed to open spreadsheet: "+err.Error())
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			logging.Warn().Err(cerr).Str("path", path).Msg("failed to close spreadsheet")
		}
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.NewSourceFormatError(path, "spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.NewSourceFormatError(path, "failed to read sheet: "+err.Error())
	}
	if len(rows) == 0 {
		return nil, errors.NewSourceFormatError(path, "file has no header row")
	}

	cols, err := resolveColumns(path, rows[0])
	if err != nil {
		return nil, err
	}

	if err := requireBoldHeaders(f, sheet, path, map[int]string{
		cols.sku:   "SKU",
		cols.price: "PRECIO",
	}); err != nil {
		return nil, err
	}

	updates := map[string]catalog.Update{}
	for _, row := range rows[1:] {
		sku := strings.TrimSpace(cell(row, cols.sku))
		if sku == "" {
			continue
		}
		updates[sku] = rowUpdate(row, cols)
	}

	logging.Debug().Int("rows", len(updates)).Str("path", path).Msg("source file parsed")
	return updates, nil
}

// requireBoldHeaders validates that the given header cells are bold.
func requireBoldHeaders(f *excelize.File, sheet, path string, required map[int]string) error {
	for col, name := range required {
		cellName, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.NewSourceFormatError(path, "invalid header position for "+name)
		}
		styleID, err := f.GetCellStyle(sheet, cellName)
		if err != nil {
			return errors.NewSourceFormatError(path, "failed to inspect header "+name+": "+err.Error())
		}
		style, err := f.GetStyle(styleID)
		if err != nil || style == nil || style.Font == nil || !style.Font.Bold {
			return errors.NewSourceFormatError(path, fmt.Sprintf(
				"header %q must be bold; check that the right sheet was exported", name))
		}
	}
	return nil
}
