package models

import (
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
)

// Category is the canonical asset category.
// Unrecognised free text is carried as-is rather than rejected.
type Category string

const (
	CategoryVehicle   Category = "Vehicle"
	CategoryBus       Category = "Bus"
	CategoryEquipment Category = "Equipment"
	CategoryMachine   Category = "Machine"
	CategoryTanker    Category = "Tanker"
)

// Categories lists the canonical categories in display order.
var Categories = []Category{
	CategoryVehicle,
	CategoryBus,
	CategoryEquipment,
	CategoryMachine,
	CategoryTanker,
}

// Canonical reports whether c is one of the five known categories.
func (c Category) Canonical() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// HourMetered reports whether assets of this category run on an hour meter.
func (c Category) HourMetered() bool {
	switch c {
	case CategoryEquipment, CategoryMachine, CategoryTanker:
		return true
	}
	return false
}

// Meter units written by the log entry path.
const (
	UnitKm    = "Km"
	UnitHours = "Hours"
)

// DefaultUnit is the meter unit a new dispense row gets for the category.
func (c Category) DefaultUnit() string {
	if c.HourMetered() {
		return UnitHours
	}
	return UnitKm
}

// Asset is one row of the asset directory.
type Asset struct {
	FleetNo      string       `json:"fleet_no"`
	AssetID      string       `json:"asset_id"`
	Category     Category     `json:"category"`
	Description  string       `json:"description"`
	PlateNumber  string       `json:"plate_number"`
	BenchmarkKmL cells.Number `json:"benchmark_kml"`
}

// Key is the asset's grouping identity: Fleet No, else Asset ID.
func (a Asset) Key() string {
	return AssetKey(a.FleetNo, a.AssetID)
}

// SearchLabel is the text operators search on when picking an asset.
func (a Asset) SearchLabel() string {
	return a.FleetNo + " | " + a.Description + " (" + a.PlateNumber + ")"
}

// AssetKey returns the trimmed fleet number when present, else the trimmed asset id.
func AssetKey(fleetNo, assetID string) string {
	if k := strings.TrimSpace(fleetNo); k != "" {
		return k
	}
	return strings.TrimSpace(assetID)
}
