package fleet

import (
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// DefaultTankers is the roster used when the directory lists no tankers.
var DefaultTankers = []string{"BPS-95", "HSC-116", "BPS-13", "HSC-101"}

// Directory is a read-only, in-memory index of fleet assets by Fleet No and
// by Asset ID. When a key repeats, the later row wins. A nil *Directory is an
// empty directory.
type Directory struct {
	assets    []models.Asset
	byFleetNo map[string]int
	byAssetID map[string]int
}

// NewDirectory indexes assets. Categories are normalized on the way in.
func NewDirectory(assets []models.Asset) *Directory {
	d := &Directory{
		assets:    make([]models.Asset, 0, len(assets)),
		byFleetNo: make(map[string]int, len(assets)),
		byAssetID: make(map[string]int, len(assets)),
	}
	for _, a := range assets {
		a.FleetNo = strings.TrimSpace(a.FleetNo)
		a.AssetID = strings.TrimSpace(a.AssetID)
		a.Category = NormalizeCategory(string(a.Category))

		idx := len(d.assets)
		d.assets = append(d.assets, a)
		if a.FleetNo != "" {
			d.byFleetNo[a.FleetNo] = idx
		}
		if a.AssetID != "" {
			d.byAssetID[a.AssetID] = idx
		}
	}
	return d
}

// Len returns the number of directory rows.
func (d *Directory) Len() int {
	if d == nil {
		return 0
	}
	return len(d.assets)
}

// Assets returns a copy of the directory rows in load order.
func (d *Directory) Assets() []models.Asset {
	if d == nil {
		return nil
	}
	out := make([]models.Asset, len(d.assets))
	copy(out, d.assets)
	return out
}

// ByFleetNo looks an asset up by Fleet No.
func (d *Directory) ByFleetNo(fleetNo string) (models.Asset, bool) {
	if d == nil {
		return models.Asset{}, false
	}
	return d.get(d.byFleetNo, fleetNo)
}

// ByAssetID looks an asset up by Asset ID.
func (d *Directory) ByAssetID(assetID string) (models.Asset, bool) {
	if d == nil {
		return models.Asset{}, false
	}
	return d.get(d.byAssetID, assetID)
}

// Lookup joins on Fleet No first and falls back to Asset ID.
func (d *Directory) Lookup(fleetNo, assetID string) (models.Asset, bool) {
	if a, ok := d.ByFleetNo(fleetNo); ok {
		return a, true
	}
	return d.ByAssetID(assetID)
}

// Tankers returns the Fleet Nos of assets in the Tanker category, or
// fallback when there are none.
func (d *Directory) Tankers(fallback []string) []string {
	var tankers []string
	if d != nil {
		for _, a := range d.assets {
			if a.Category == models.CategoryTanker && a.FleetNo != "" {
				tankers = append(tankers, a.FleetNo)
			}
		}
	}
	if len(tankers) == 0 {
		return append([]string(nil), fallback...)
	}
	return tankers
}

// Search returns assets whose search label contains q, case-insensitively.
// An empty query returns every asset.
func (d *Directory) Search(q string) []models.Asset {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" {
		return d.Assets()
	}
	var out []models.Asset
	if d == nil {
		return out
	}
	for _, a := range d.assets {
		if strings.Contains(strings.ToLower(a.SearchLabel()), q) {
			out = append(out, a)
		}
	}
	return out
}

func (d *Directory) get(idx map[string]int, key string) (models.Asset, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return models.Asset{}, false
	}
	i, ok := idx[key]
	if !ok {
		return models.Asset{}, false
	}
	return d.assets[i], true
}
