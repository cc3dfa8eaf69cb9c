package invoice

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/acervera/expenditure-control/internal/extract"
)

// RawTables accumulates header-stamped rows across every page of every
// document in a scan. Rows stay positional strings until binding.
type RawTables struct {
	Items  [][]string
	Totals [][]string
}

// AppendPages stamps each page's rows with that page's header values and
// appends them to the raw tables. A page that declares no header field
// inherits the value from an earlier page of the same document, so items on
// continuation pages keep their invoice linkage.
func (t *RawTables) AppendPages(pages []extract.PageData) {
	var number string
	var date time.Time

	for _, page := range pages {
		if page.Header.InvoiceNumber != "" {
			number = page.Header.InvoiceNumber
		}
		if !page.Header.InvoiceDate.IsZero() {
			date = page.Header.InvoiceDate
		}

		dateField := ""
		if !date.IsZero() {
			dateField = date.Format(extract.DateLayout)
		}

		for _, row := range page.ItemRows {
			stamped := make([]string, 0, len(row)+2)
			stamped = append(stamped, row...)
			stamped = append(stamped, number, dateField)
			t.Items = append(t.Items, stamped)
		}
		for _, row := range page.TotalRows {
			stamped := make([]string, 0, len(row)+2)
			stamped = append(stamped, row...)
			stamped = append(stamped, number, dateField)
			t.Totals = append(t.Totals, stamped)
		}
	}
}

// ColumnError reports a column whose conversion failed for the whole batch.
type ColumnError struct {
	Column string
	Err    error
}

func (e ColumnError) Error() string {
	return fmt.Sprintf("column %q: %v", e.Column, e.Err)
}

func (e ColumnError) Unwrap() error {
	return e.Err
}

// ItemBinding is the result of binding accumulated item rows to the
// documented schema. When the observed row width does not match the schema
// the binding is degraded: rows stay ordinal in Raw and no typed records are
// produced.
type ItemBinding struct {
	Bound   bool
	Columns []string
	Records []ItemRecord
	Raw     [][]string
	Errors  []ColumnError
}

// TotalsBinding is the totals-table counterpart of ItemBinding.
type TotalsBinding struct {
	Bound   bool
	Columns []string
	Records []TotalsRecord
	Raw     [][]string
	Errors  []ColumnError
}

// BindItems assigns column semantics to the accumulated item rows and
// converts the declared numeric columns. Conversion is columnar: the first
// malformed token aborts that column for the whole batch and is reported as a
// ColumnError, while the remaining columns still convert.
func BindItems(rows [][]string) ItemBinding {
	for _, row := range rows {
		if len(row) != len(ItemColumns) {
			return ItemBinding{Raw: rows}
		}
	}

	binding := ItemBinding{Bound: true, Columns: ItemColumns, Raw: rows}
	if len(rows) == 0 {
		return binding
	}

	records := make([]ItemRecord, len(rows))
	for i, row := range rows {
		records[i] = ItemRecord{
			ItemNumber:    row[0],
			ProductCode:   row[4],
			Description:   row[8],
			InvoiceNumber: row[9],
		}
		if row[10] != "" {
			if date, err := time.Parse(extract.DateLayout, row[10]); err == nil {
				records[i].InvoiceDate = date
			}
		}
	}

	if err := bindInts(rows, 1, func(i, v int) { records[i].Position = v }); err != nil {
		binding.Errors = append(binding.Errors, ColumnError{Column: ItemColumns[1], Err: err})
	}

	numeric := []struct {
		col    int
		assign func(i int, v decimal.Decimal)
	}{
		{2, func(i int, v decimal.Decimal) { records[i].Quantity = v }},
		{3, func(i int, v decimal.Decimal) { records[i].UnitPrice = v }},
		{5, func(i int, v decimal.Decimal) { records[i].DiscountPct = v }},
		{6, func(i int, v decimal.Decimal) { records[i].TaxPct = v }},
		{7, func(i int, v decimal.Decimal) { records[i].NetValue = v }},
	}
	for _, c := range numeric {
		if err := bindNumerals(rows, c.col, c.assign); err != nil {
			binding.Errors = append(binding.Errors, ColumnError{Column: ItemColumns[c.col], Err: err})
		}
	}

	binding.Records = records
	return binding
}

// BindTotals assigns column semantics to the accumulated totals rows, with
// the same columnar conversion policy as BindItems.
func BindTotals(rows [][]string) TotalsBinding {
	for _, row := range rows {
		if len(row) != len(TotalsColumns) {
			return TotalsBinding{Raw: rows}
		}
	}

	binding := TotalsBinding{Bound: true, Columns: TotalsColumns, Raw: rows}
	if len(rows) == 0 {
		return binding
	}

	records := make([]TotalsRecord, len(rows))
	for i, row := range rows {
		records[i] = TotalsRecord{InvoiceNumber: row[5]}
		if row[6] != "" {
			if date, err := time.Parse(extract.DateLayout, row[6]); err == nil {
				records[i].InvoiceDate = date
			}
		}
	}

	numeric := []struct {
		col    int
		assign func(i int, v decimal.Decimal)
	}{
		{0, func(i int, v decimal.Decimal) { records[i].Shipping = v }},
		{1, func(i int, v decimal.Decimal) { records[i].NetValue = v }},
		{2, func(i int, v decimal.Decimal) { records[i].TaxPct = v }},
		{3, func(i int, v decimal.Decimal) { records[i].TaxAmount = v }},
		{4, func(i int, v decimal.Decimal) { records[i].TotalAmount = v }},
	}
	for _, c := range numeric {
		if err := bindNumerals(rows, c.col, c.assign); err != nil {
			binding.Errors = append(binding.Errors, ColumnError{Column: TotalsColumns[c.col], Err: err})
		}
	}

	binding.Records = records
	return binding
}

func bindNumerals(rows [][]string, col int, assign func(i int, v decimal.Decimal)) error {
	for i, row := range rows {
		v, err := extract.ParseNumeral(row[col])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		assign(i, v)
	}
	return nil
}

func bindInts(rows [][]string, col int, assign func(i, v int)) error {
	for i, row := range rows {
		v, err := strconv.Atoi(row[col])
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		assign(i, v)
	}
	return nil
}
