package dashboard

import (
	"sort"
	"time"

	"github.com/unitflow/unitflow/internal/shared"
)

// TopN caps every performer table.
const TopN = 5

// UnknownKey groups sales whose item or customer is missing.
const UnknownKey = "Unknown"

const statusInStock = "in_stock"

// GroupBy selects the key TopByProfit groups sales on.
type GroupBy string

const (
	GroupModel    GroupBy = "model"
	GroupSupplier GroupBy = "supplier"
	GroupCustomer GroupBy = "customer"
)

// Aging bucket labels, in display order.
const (
	Aging0to30  = "0-30"
	Aging31to60 = "31-60"
	Aging61to90 = "61-90"
	Aging90Plus = "90+"
)

// Margin returns profit as a percentage of revenue, zero when revenue is zero.
func Margin(profit, revenue float64) float64 {
	if revenue == 0 {
		return 0
	}
	return profit / revenue * 100
}

// ModelLabel renders `MacBook Pro 14"`, or the bare model without a screen size.
func ModelLabel(model string, screenSize *string) string {
	if screenSize == nil || *screenSize == "" {
		return model
	}
	return model + " " + *screenSize + `"`
}

// Summarize totals revenue over every sale and profit over sales whose item is present.
func Summarize(sales []SaleRecord) Summary {
	var out Summary
	for _, s := range sales {
		out.Units++
		out.Revenue += s.SalePrice
		if s.Item != nil {
			out.Profit += s.SalePrice - s.Item.PurchaseCost
		}
	}
	out.AvgMargin = Margin(out.Profit, out.Revenue)
	return out
}

func groupKey(s SaleRecord, by GroupBy) string {
	switch by {
	case GroupModel:
		if s.Item != nil && s.Item.Model != "" {
			return ModelLabel(s.Item.Model, s.Item.ScreenSize)
		}
	case GroupSupplier:
		if s.Item != nil && s.Item.SupplierName != nil && *s.Item.SupplierName != "" {
			return *s.Item.SupplierName
		}
	case GroupCustomer:
		if s.Customer != nil && s.Customer.Name != "" {
			return s.Customer.Name
		}
	}
	return UnknownKey
}

// TopByProfit groups sales, sorts the groups by profit descending and keeps
// the first n. Equal profits keep the order their key was first seen in.
func TopByProfit(sales []SaleRecord, by GroupBy, n int) []Performer {
	index := make(map[string]int)
	groups := make([]Performer, 0)
	for _, s := range sales {
		key := groupKey(s, by)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Performer{Key: key})
		}
		g := &groups[i]
		g.Units++
		g.Revenue += s.SalePrice
		if s.Item != nil {
			g.Profit += s.SalePrice - s.Item.PurchaseCost
		}
	}
	for i := range groups {
		groups[i].Margin = Margin(groups[i].Profit, groups[i].Revenue)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Profit > groups[j].Profit
	})
	if n >= 0 && len(groups) > n {
		groups = groups[:n]
	}
	return groups
}

func agingLabel(days int) string {
	switch {
	case days <= 30:
		return Aging0to30
	case days <= 60:
		return Aging31to60
	case days <= 90:
		return Aging61to90
	default:
		return Aging90Plus
	}
}

// Snapshot summarises in-stock items as of today. Purchase dates after today
// age as zero days.
func Snapshot(items []ItemRecord, today time.Time) InventorySnapshot {
	out := InventorySnapshot{
		Aging: []AgingBucket{
			{Label: Aging0to30},
			{Label: Aging31to60},
			{Label: Aging61to90},
			{Label: Aging90Plus},
		},
		ByModel: make([]ModelCount, 0),
	}
	bucket := map[string]int{Aging0to30: 0, Aging31to60: 1, Aging61to90: 2, Aging90Plus: 3}
	models := make(map[string]int)

	for _, it := range items {
		if it.Status != statusInStock {
			continue
		}
		out.InStock++
		out.TotalValue += it.PurchaseCost

		days := shared.DaysBetween(it.PurchaseDate, today)
		if days < 0 {
			days = 0
		}
		b := &out.Aging[bucket[agingLabel(days)]]
		b.Count++
		b.Value += it.PurchaseCost

		i, ok := models[it.Model]
		if !ok {
			i = len(out.ByModel)
			models[it.Model] = i
			out.ByModel = append(out.ByModel, ModelCount{Model: it.Model})
		}
		out.ByModel[i].Count++
		out.ByModel[i].Value += it.PurchaseCost
	}
	sort.SliceStable(out.ByModel, func(i, j int) bool {
		return out.ByModel[i].Count > out.ByModel[j].Count
	})
	return out
}

// BuildReport assembles a report from sales already restricted to rng.
func BuildReport(rng shared.DateRange, sales []SaleRecord, items []ItemRecord, today time.Time) Report {
	return Report{
		Range:        rng,
		AsOf:         today,
		Summary:      Summarize(sales),
		TopModels:    TopByProfit(sales, GroupModel, TopN),
		TopSuppliers: TopByProfit(sales, GroupSupplier, TopN),
		TopCustomers: TopByProfit(sales, GroupCustomer, TopN),
		Inventory:    Snapshot(items, today),
	}
}
