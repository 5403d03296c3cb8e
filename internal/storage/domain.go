// Package storage serves warehouse stock reads: cached item listings,
// capacity aggregates and low stock alerts.
package storage

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockItem is a raw material held in the warehouse.
type StockItem struct {
	ID                uuid.UUID       `json:"id"`
	MaterialName      string          `json:"materialName"`
	MaterialCode      string          `json:"materialCode"`
	Category          string          `json:"category"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	UnitWeightKg      decimal.Decimal `json:"unitWeightKg"`
	UnitVolumeM3      decimal.Decimal `json:"unitVolumeM3"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	MaxStockLevel     decimal.Decimal `json:"maxStockLevel"`
	LotNumber         *string         `json:"lotNumber,omitempty"`
	ExpiryDate        *time.Time      `json:"expiryDate,omitempty"`
	LastRestockDate   time.Time       `json:"lastRestockDate"`
	WarehouseZone     string          `json:"warehouseZone"`
	IsActive          bool            `json:"isActive"`
}

// Zone is a physical storage area with fixed volumetric capacity. Static
// reference data, read-only here.
type Zone struct {
	Code            string          `json:"zoneCode"`
	Name            string          `json:"zoneName"`
	TotalCapacityM3 decimal.Decimal `json:"totalCapacityM3"`
	TemperatureMinC decimal.Decimal `json:"temperatureMinC"`
	TemperatureMaxC decimal.Decimal `json:"temperatureMaxC"`
	IsRefrigerated  bool            `json:"isRefrigerated"`
	IsActive        bool            `json:"isActive"`
}

// Alert severities for low stock classification.
const (
	SeverityCritical = "Critical"
	SeverityWarning  = "Warning"
)

// ZoneCapacity is the derived usage view of one zone.
type ZoneCapacity struct {
	ZoneCode            string          `json:"zoneCode"`
	ZoneName            string          `json:"zoneName"`
	TotalCapacityM3     decimal.Decimal `json:"totalCapacityM3"`
	UsedCapacityM3      decimal.Decimal `json:"usedCapacityM3"`
	AvailableCapacityM3 decimal.Decimal `json:"availableCapacityM3"`
	UsagePercentage     decimal.Decimal `json:"usagePercentage"`
	IsRefrigerated      bool            `json:"isRefrigerated"`
}

// CategoryStock summarises the items of one category. PrimaryUnit is the most
// frequent unit within the category; when a category mixes units the choice is
// a representative, not a conversion.
type CategoryStock struct {
	Category      string          `json:"category"`
	ItemCount     int             `json:"itemCount"`
	TotalQuantity decimal.Decimal `json:"totalQuantity"`
	PrimaryUnit   string          `json:"primaryUnit"`
	TotalVolumeM3 decimal.Decimal `json:"totalVolumeM3"`
}

// LowStockAlert flags an item at or near its minimum stock level.
type LowStockAlert struct {
	MaterialCode      string          `json:"materialCode"`
	MaterialName      string          `json:"materialName"`
	CurrentQuantity   decimal.Decimal `json:"currentQuantity"`
	MinimumStockLevel decimal.Decimal `json:"minimumStockLevel"`
	Unit              string          `json:"unit"`
	Severity          string          `json:"severity"`
}

// Summary is the full warehouse overview report.
type Summary struct {
	TotalItemTypes  int             `json:"totalItemTypes"`
	ActiveItemTypes int             `json:"activeItemTypes"`
	StockByCategory []CategoryStock `json:"stockByCategory"`
	ZoneCapacities  []ZoneCapacity  `json:"zoneCapacities"`
	LowStockAlerts  []LowStockAlert `json:"lowStockAlerts"`
	GeneratedAt     time.Time       `json:"generatedAt"`
}

// AvailableSpace is the zone capacity breakdown with overall totals.
type AvailableSpace struct {
	Zones                  []ZoneCapacity  `json:"zones"`
	TotalCapacityM3        decimal.Decimal `json:"totalCapacityM3"`
	TotalUsedM3            decimal.Decimal `json:"totalUsedM3"`
	TotalAvailableM3       decimal.Decimal `json:"totalAvailableM3"`
	OverallUsagePercentage decimal.Decimal `json:"overallUsagePercentage"`
	GeneratedAt            time.Time       `json:"generatedAt"`
}

// ExpiringItem is a stock item close to its expiry date.
type ExpiringItem struct {
	MaterialCode  string          `json:"materialCode"`
	MaterialName  string          `json:"materialName"`
	Quantity      decimal.Decimal `json:"quantity"`
	Unit          string          `json:"unit"`
	ExpiryDate    time.Time       `json:"expiryDate"`
	DaysRemaining int             `json:"daysRemaining"`
}

// ErrItemNotFound indicates an unknown or inactive material code.
var ErrItemNotFound = errors.New("storage: item not found")
