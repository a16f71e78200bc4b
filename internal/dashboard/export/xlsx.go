package export

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/unitflow/unitflow/internal/dashboard"
)

// WriteXLSX writes the report as a workbook with one sheet per section.
// Amounts are written as numbers so spreadsheet formulas keep working.
func WriteXLSX(w io.Writer, rep dashboard.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	summary := [][]any{
		{"Range", string(rep.Range.Key)},
		{"From", formatDate(rep.Range.From)},
		{"To", formatDate(rep.Range.To)},
		{"Total Revenue", rep.Summary.Revenue},
		{"Total Profit", rep.Summary.Profit},
		{"Units Sold", rep.Summary.Units},
		{"Average Margin %", rep.Summary.AvgMargin},
	}
	if err := writeSheet(f, "Summary", []any{"Metric", "Value"}, summary); err != nil {
		return err
	}

	performers := []struct {
		name string
		key  string
		rows []dashboard.Performer
	}{
		{"Top Models", "Model", rep.TopModels},
		{"Top Suppliers", "Supplier", rep.TopSuppliers},
		{"Top Customers", "Customer", rep.TopCustomers},
	}
	for _, p := range performers {
		rows := make([][]any, 0, len(p.rows))
		for _, r := range p.rows {
			rows = append(rows, []any{r.Key, r.Units, r.Revenue, r.Profit, r.Margin})
		}
		if err := writeSheet(f, p.name, []any{p.key, "Units", "Revenue", "Profit", "Margin %"}, rows); err != nil {
			return err
		}
	}

	aging := make([][]any, 0, len(rep.Inventory.Aging)+1)
	for _, b := range rep.Inventory.Aging {
		aging = append(aging, []any{b.Label, b.Count, b.Value})
	}
	aging = append(aging, []any{"Total", rep.Inventory.InStock, rep.Inventory.TotalValue})
	if err := writeSheet(f, "Inventory Aging", []any{"Days", "Items", "Value"}, aging); err != nil {
		return err
	}

	models := make([][]any, 0, len(rep.Inventory.ByModel))
	for _, m := range rep.Inventory.ByModel {
		models = append(models, []any{m.Model, m.Count, m.Value})
	}
	if err := writeSheet(f, "Stock by Model", []any{"Model", "Items", "Value"}, models); err != nil {
		return err
	}

	// NewFile starts with Sheet1; every section has its own sheet by now.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	f.SetActiveSheet(0)
	return f.Write(w)
}

func writeSheet(f *excelize.File, name string, header []any, rows [][]any) error {
	if _, err := f.NewSheet(name); err != nil {
		return err
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
