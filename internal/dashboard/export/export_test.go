package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/unitflow/unitflow/internal/dashboard"
	"github.com/unitflow/unitflow/internal/shared"
)

func sampleReport() dashboard.Report {
	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	sales := []dashboard.SaleRecord{
		{SalePrice: 1000, Item: &dashboard.ItemRef{Model: "MacBook Pro", PurchaseCost: 700}, Customer: &dashboard.CustomerRef{Name: "Dana"}},
		{SalePrice: 1500, Item: &dashboard.ItemRef{Model: "MacBook Air", PurchaseCost: 1000}},
	}
	items := []dashboard.ItemRecord{
		{Model: "MacBook Air", Status: "in_stock", PurchaseCost: 1250.5, PurchaseDate: from},
	}
	return dashboard.BuildReport(shared.DateRange{Key: shared.RangeMonth, From: &from}, sales, items, from.AddDate(0, 0, 19))
}

func TestMoneyAndPercent(t *testing.T) {
	assert.Equal(t, "1,234,567.80", Money(1234567.8))
	assert.Equal(t, "0.00", Money(0))
	assert.Equal(t, "20.0%", Percent(20))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleReport()))

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	require.NoError(t, err)

	assert.Equal(t, []string{"Summary"}, records[0])
	assert.Contains(t, records, []string{"Range", "month"})
	assert.Contains(t, records, []string{"From", "2024-03-01"})
	assert.Contains(t, records, []string{"Total Revenue", "2,500.00"})
	assert.Contains(t, records, []string{"Average Margin", "32.0%"})
	assert.Contains(t, records, []string{"Top Models"})
	assert.Contains(t, records, []string{"MacBook Air", "1", "1,500.00", "500.00", "33.3%"})
	assert.Contains(t, records, []string{"Unknown", "1", "1,500.00", "500.00", "33.3%"})
	assert.Contains(t, records, []string{"Total", "1", "1,250.50"})
	assert.Contains(t, records, []string{"Stock by Model"})
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Summary", "Top Models", "Top Suppliers", "Top Customers", "Inventory Aging", "Stock by Model"}, f.GetSheetList())

	val, err := f.GetCellValue("Summary", "B6")
	require.NoError(t, err)
	assert.Equal(t, "800", val)

	rows, err := f.GetRows("Top Customers")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Customer", "Units", "Revenue", "Profit", "Margin %"}, rows[0])
	assert.Equal(t, "Unknown", rows[1][0])
	assert.Equal(t, "Dana", rows[2][0])
}
