package invoice

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"
)

// utf8BOM prefixes the CSV files so spreadsheet applications pick up the
// accented column names as UTF-8.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

const (
	itemsCSVName  = "articulos.csv"
	totalsCSVName = "totales.csv"
	workbookName  = "gastos.xlsx"

	itemsSheet  = "Artículos"
	totalsSheet = "Totales"
)

// ExportCSV writes the item and totals tables as UTF-8-with-BOM CSV files
// into dir, one row per record with a header row of the documented column
// names. Degraded bindings are written as their raw ordinal rows without a
// header.
func ExportCSV(dir string, items ItemBinding, totals TotalsBinding) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}
	if err := writeCSV(filepath.Join(dir, itemsCSVName), items.Columns, itemRows(items)); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, totalsCSVName), totals.Columns, totalsRows(totals))
}

func writeCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	defer f.Close()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if len(header) > 0 {
		if err := w.Write(header); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ExportXLSX writes both tables into one workbook in dir, one sheet per
// table.
func ExportXLSX(dir string, items ItemBinding, totals TotalsBinding) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", itemsSheet); err != nil {
		return fmt.Errorf("naming items sheet: %w", err)
	}
	if _, err := f.NewSheet(totalsSheet); err != nil {
		return fmt.Errorf("creating totals sheet: %w", err)
	}

	if err := writeSheet(f, itemsSheet, items.Columns, itemRows(items)); err != nil {
		return err
	}
	if err := writeSheet(f, totalsSheet, totals.Columns, totalsRows(totals)); err != nil {
		return err
	}

	if err := f.SaveAs(filepath.Join(dir, workbookName)); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, header []string, rows [][]string) error {
	row := 1
	if len(header) > 0 {
		for i, name := range header {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, name); err != nil {
				return fmt.Errorf("writing header cell: %w", err)
			}
		}
		row++
	}
	for _, values := range rows {
		for i, value := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return fmt.Errorf("addressing cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("writing cell: %w", err)
			}
		}
		row++
	}
	return nil
}

// itemRows renders the item table for export: converted values when bound,
// the raw ordinal rows when degraded.
func itemRows(b ItemBinding) [][]string {
	if !b.Bound {
		return b.Raw
	}
	rows := make([][]string, 0, len(b.Records))
	for _, r := range b.Records {
		rows = append(rows, []string{
			r.ItemNumber,
			strconv.Itoa(r.Position),
			r.Quantity.String(),
			r.UnitPrice.String(),
			r.ProductCode,
			r.DiscountPct.String(),
			r.TaxPct.String(),
			r.NetValue.String(),
			r.Description,
			r.InvoiceNumber,
			formatExportDate(r.InvoiceDate),
		})
	}
	return rows
}

func totalsRows(b TotalsBinding) [][]string {
	if !b.Bound {
		return b.Raw
	}
	rows := make([][]string, 0, len(b.Records))
	for _, r := range b.Records {
		rows = append(rows, []string{
			r.Shipping.String(),
			r.NetValue.String(),
			r.TaxPct.String(),
			r.TaxAmount.String(),
			r.TotalAmount.String(),
			r.InvoiceNumber,
			formatExportDate(r.InvoiceDate),
		})
	}
	return rows
}

func formatExportDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(storedDateLayout)
}
