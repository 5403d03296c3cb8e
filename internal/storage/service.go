package storage

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	ListActiveItems(ctx context.Context) ([]StockItem, error)
	ListActiveZones(ctx context.Context) ([]Zone, error)
	GetItemByCode(ctx context.Context, materialCode string) (StockItem, error)
	ListExpiring(ctx context.Context, cutoff time.Time) ([]StockItem, error)
}

// Service composes cached reads with the capacity aggregator. The durable
// store stays authoritative; the cache only shortcuts the item listing.
type Service struct {
	repo  RepositoryPort
	cache *Cache
	now   func() time.Time
}

// NewService builds a Service.
func NewService(repo RepositoryPort, cache *Cache) *Service {
	return &Service{repo: repo, cache: cache, now: time.Now}
}

// ListItems returns all active items, cache-aside with a bounded TTL.
func (s *Service) ListItems(ctx context.Context) ([]StockItem, error) {
	var items []StockItem
	err := s.cache.FetchJSON(ctx, itemsCacheKey, &items, func(ctx context.Context) (any, error) {
		return s.repo.ListActiveItems(ctx)
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Summary builds the warehouse overview: per category stock, zone usage and
// low stock alerts.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	items, zones, err := s.loadItemsAndZones(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalItemTypes:  len(items),
		ActiveItemTypes: len(items),
		StockByCategory: CategorySummary(items),
		ZoneCapacities:  ZoneCapacities(items, zones),
		LowStockAlerts:  LowStockAlerts(items),
		GeneratedAt:     s.now().UTC(),
	}, nil
}

// AvailableSpace reports per zone and overall capacity usage.
func (s *Service) AvailableSpace(ctx context.Context) (AvailableSpace, error) {
	items, zones, err := s.loadItemsAndZones(ctx)
	if err != nil {
		return AvailableSpace{}, err
	}
	capacities := ZoneCapacities(items, zones)

	var totalCap, totalUsed decimal.Decimal
	for _, z := range capacities {
		totalCap = totalCap.Add(z.TotalCapacityM3)
		totalUsed = totalUsed.Add(z.UsedCapacityM3)
	}
	overall := decimal.Zero
	if totalCap.IsPositive() {
		overall = totalUsed.Div(totalCap).Mul(hundred).Round(2)
	}
	return AvailableSpace{
		Zones:                  capacities,
		TotalCapacityM3:        totalCap,
		TotalUsedM3:            totalUsed,
		TotalAvailableM3:       totalCap.Sub(totalUsed),
		OverallUsagePercentage: overall,
		GeneratedAt:            s.now().UTC(),
	}, nil
}

// GetItem returns a single active item by material code.
func (s *Service) GetItem(ctx context.Context, materialCode string) (StockItem, error) {
	return s.repo.GetItemByCode(ctx, materialCode)
}

// Expiring lists items expiring within daysAhead days with a computed
// remaining-days count.
func (s *Service) Expiring(ctx context.Context, daysAhead int) ([]ExpiringItem, error) {
	if daysAhead <= 0 {
		daysAhead = 7
	}
	now := s.now().UTC()
	items, err := s.repo.ListExpiring(ctx, now.AddDate(0, 0, daysAhead))
	if err != nil {
		return nil, err
	}
	out := make([]ExpiringItem, 0, len(items))
	for _, it := range items {
		if it.ExpiryDate == nil {
			continue
		}
		out = append(out, ExpiringItem{
			MaterialCode:  it.MaterialCode,
			MaterialName:  it.MaterialName,
			Quantity:      it.Quantity,
			Unit:          it.Unit,
			ExpiryDate:    *it.ExpiryDate,
			DaysRemaining: int(it.ExpiryDate.Sub(now).Hours() / 24),
		})
	}
	return out, nil
}

func (s *Service) loadItemsAndZones(ctx context.Context) ([]StockItem, []Zone, error) {
	items, err := s.repo.ListActiveItems(ctx)
	if err != nil {
		return nil, nil, err
	}
	zones, err := s.repo.ListActiveZones(ctx)
	if err != nil {
		return nil, nil, err
	}
	return items, zones, nil
}
