package storage

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository provides PostgreSQL backed reads of storage reference data.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const itemColumns = `id, material_name, material_code, category, quantity, unit,
	unit_weight_kg, unit_volume_m3, minimum_stock_level, max_stock_level,
	lot_number, expiry_date, last_restock_date, warehouse_zone, is_active`

func scanItem(row pgx.Row) (StockItem, error) {
	var it StockItem
	err := row.Scan(&it.ID, &it.MaterialName, &it.MaterialCode, &it.Category,
		&it.Quantity, &it.Unit, &it.UnitWeightKg, &it.UnitVolumeM3,
		&it.MinimumStockLevel, &it.MaxStockLevel, &it.LotNumber, &it.ExpiryDate,
		&it.LastRestockDate, &it.WarehouseZone, &it.IsActive)
	return it, err
}

// ListActiveItems returns active items ordered by category then material code,
// the deterministic order the item listing contract requires.
func (r *Repository) ListActiveItems(ctx context.Context) ([]StockItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM storage_items WHERE is_active ORDER BY category, material_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StockItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// ListActiveZones returns all active warehouse zones.
func (r *Repository) ListActiveZones(ctx context.Context) ([]Zone, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT zone_code, zone_name, total_capacity_m3, temperature_min_c, temperature_max_c,
		        is_refrigerated, is_active
		 FROM warehouse_zones WHERE is_active ORDER BY zone_code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var zones []Zone
	for rows.Next() {
		var z Zone
		if err := rows.Scan(&z.Code, &z.Name, &z.TotalCapacityM3, &z.TemperatureMinC,
			&z.TemperatureMaxC, &z.IsRefrigerated, &z.IsActive); err != nil {
			return nil, err
		}
		zones = append(zones, z)
	}
	return zones, rows.Err()
}

// GetItemByCode returns a single active item.
func (r *Repository) GetItemByCode(ctx context.Context, materialCode string) (StockItem, error) {
	it, err := scanItem(r.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM storage_items WHERE material_code = $1 AND is_active`, materialCode))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockItem{}, ErrItemNotFound
		}
		return StockItem{}, err
	}
	return it, nil
}

// ListExpiring returns active items whose expiry date falls on or before the
// cutoff, soonest first.
func (r *Repository) ListExpiring(ctx context.Context, cutoff time.Time) ([]StockItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM storage_items
		 WHERE is_active AND expiry_date IS NOT NULL AND expiry_date <= $1
		 ORDER BY expiry_date`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []StockItem
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
