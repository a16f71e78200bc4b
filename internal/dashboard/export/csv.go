package export

import (
	"encoding/csv"
	"io"
	"strconv"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/unitflow/unitflow/internal/dashboard"
	"github.com/unitflow/unitflow/internal/shared"
)

var printer = message.NewPrinter(language.English)

// Money renders an amount with thousands separators and two decimals.
func Money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

// Percent renders a margin with one decimal.
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// WriteCSV writes the report as consecutive CSV sections separated by blank rows.
func WriteCSV(w io.Writer, rep dashboard.Report) error {
	writer := csv.NewWriter(w)

	for i, section := range sections(rep) {
		if i > 0 {
			if err := writer.Write([]string{}); err != nil {
				return err
			}
		}
		if err := writer.Write([]string{section.title}); err != nil {
			return err
		}
		if err := writer.Write(section.header); err != nil {
			return err
		}
		if err := writer.WriteAll(section.rows); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

type section struct {
	title  string
	header []string
	rows   [][]string
}

func sections(rep dashboard.Report) []section {
	out := []section{
		{
			title:  "Summary",
			header: []string{"Metric", "Value"},
			rows: [][]string{
				{"Range", string(rep.Range.Key)},
				{"From", formatDate(rep.Range.From)},
				{"To", formatDate(rep.Range.To)},
				{"Total Revenue", Money(rep.Summary.Revenue)},
				{"Total Profit", Money(rep.Summary.Profit)},
				{"Units Sold", strconv.Itoa(rep.Summary.Units)},
				{"Average Margin", Percent(rep.Summary.AvgMargin)},
			},
		},
		performerSection("Top Models", "Model", rep.TopModels),
		performerSection("Top Suppliers", "Supplier", rep.TopSuppliers),
		performerSection("Top Customers", "Customer", rep.TopCustomers),
	}

	aging := section{title: "Inventory Aging", header: []string{"Days", "Items", "Value"}}
	for _, b := range rep.Inventory.Aging {
		aging.rows = append(aging.rows, []string{b.Label, strconv.Itoa(b.Count), Money(b.Value)})
	}
	aging.rows = append(aging.rows, []string{"Total", strconv.Itoa(rep.Inventory.InStock), Money(rep.Inventory.TotalValue)})

	models := section{title: "Stock by Model", header: []string{"Model", "Items", "Value"}}
	for _, m := range rep.Inventory.ByModel {
		models.rows = append(models.rows, []string{m.Model, strconv.Itoa(m.Count), Money(m.Value)})
	}
	return append(out, aging, models)
}

func performerSection(title, keyHeader string, rows []dashboard.Performer) section {
	s := section{title: title, header: []string{keyHeader, "Units", "Revenue", "Profit", "Margin"}}
	for _, p := range rows {
		s.rows = append(s.rows, []string{p.Key, strconv.Itoa(p.Units), Money(p.Revenue), Money(p.Profit), Percent(p.Margin)})
	}
	return s
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(shared.DateLayout)
}
