package storage

import (
	"sort"

	"github.com/shopspring/decimal"
)

var (
	hundred          = decimal.NewFromInt(100)
	warningThreshold = decimal.RequireFromString("1.2")
)

// ZoneCapacities derives used and available volume per zone. Pure over its
// inputs; repeated calls on the same data yield identical aggregates.
func ZoneCapacities(items []StockItem, zones []Zone) []ZoneCapacity {
	usedByZone := make(map[string]decimal.Decimal, len(zones))
	for _, it := range items {
		usedByZone[it.WarehouseZone] = usedByZone[it.WarehouseZone].Add(it.Quantity.Mul(it.UnitVolumeM3))
	}

	caps := make([]ZoneCapacity, 0, len(zones))
	for _, z := range zones {
		used := usedByZone[z.Code]
		usage := decimal.Zero
		if z.TotalCapacityM3.IsPositive() {
			usage = used.Div(z.TotalCapacityM3).Mul(hundred).Round(2)
		}
		caps = append(caps, ZoneCapacity{
			ZoneCode:            z.Code,
			ZoneName:            z.Name,
			TotalCapacityM3:     z.TotalCapacityM3,
			UsedCapacityM3:      used,
			AvailableCapacityM3: z.TotalCapacityM3.Sub(used),
			UsagePercentage:     usage,
			IsRefrigerated:      z.IsRefrigerated,
		})
	}
	return caps
}

// CategorySummary groups items by category. The representative unit is the
// most frequent unit in the category, ties broken by the lexicographically
// smallest; it is a label, not a conversion, when a category mixes units.
func CategorySummary(items []StockItem) []CategoryStock {
	type bucket struct {
		count     int
		quantity  decimal.Decimal
		volume    decimal.Decimal
		unitFreqs map[string]int
	}
	buckets := make(map[string]*bucket)
	for _, it := range items {
		b := buckets[it.Category]
		if b == nil {
			b = &bucket{unitFreqs: make(map[string]int)}
			buckets[it.Category] = b
		}
		b.count++
		b.quantity = b.quantity.Add(it.Quantity)
		b.volume = b.volume.Add(it.Quantity.Mul(it.UnitVolumeM3))
		b.unitFreqs[it.Unit]++
	}

	out := make([]CategoryStock, 0, len(buckets))
	for category, b := range buckets {
		out = append(out, CategoryStock{
			Category:      category,
			ItemCount:     b.count,
			TotalQuantity: b.quantity,
			PrimaryUnit:   primaryUnit(b.unitFreqs),
			TotalVolumeM3: b.volume,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

func primaryUnit(freqs map[string]int) string {
	best := ""
	bestCount := -1
	for unit, count := range freqs {
		if count > bestCount || (count == bestCount && unit < best) {
			best = unit
			bestCount = count
		}
	}
	return best
}

// LowStockAlerts classifies items against their minimum stock level:
// quantity <= minimum is Critical, quantity <= minimum*1.2 is Warning.
// Critical alerts sort first, otherwise input order is preserved.
func LowStockAlerts(items []StockItem) []LowStockAlert {
	var alerts []LowStockAlert
	for _, it := range items {
		var severity string
		switch {
		case it.Quantity.LessThanOrEqual(it.MinimumStockLevel):
			severity = SeverityCritical
		case it.Quantity.LessThanOrEqual(it.MinimumStockLevel.Mul(warningThreshold)):
			severity = SeverityWarning
		default:
			continue
		}
		alerts = append(alerts, LowStockAlert{
			MaterialCode:      it.MaterialCode,
			MaterialName:      it.MaterialName,
			CurrentQuantity:   it.Quantity,
			MinimumStockLevel: it.MinimumStockLevel,
			Unit:              it.Unit,
			Severity:          severity,
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity == SeverityCritical && alerts[j].Severity != SeverityCritical
	})
	return alerts
}
