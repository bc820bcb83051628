// Package fleet holds the asset directory and category normalization.
package fleet

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// categoryAliases maps squashed, lowercased spellings to canonical categories.
var categoryAliases = map[string]models.Category{
	"vehicle":           models.CategoryVehicle,
	"vehicles":          models.CategoryVehicle,
	"bus":               models.CategoryBus,
	"buses":             models.CategoryBus,
	"equipment":         models.CategoryEquipment,
	"machine":           models.CategoryMachine,
	"machines":          models.CategoryMachine,
	"machine/equipment": models.CategoryEquipment,
	"equipment/machine": models.CategoryEquipment,
	"tanker":            models.CategoryTanker,
	"tankers":           models.CategoryTanker,
}

// NormalizeCategory maps free-text categories onto the canonical set.
// Empty input yields "". Text that matches nothing is returned trimmed but
// otherwise unchanged. NormalizeCategory(NormalizeCategory(x)) == NormalizeCategory(x).
func NormalizeCategory(raw string) models.Category {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}

	key := strings.ReplaceAll(trimmed, "&", "/")
	key = strings.ReplaceAll(key, " and ", "/")
	key = strings.ToLower(key)
	key = strings.ReplaceAll(key, " ", "")

	if canonical, ok := categoryAliases[key]; ok {
		return canonical
	}

	if titled := models.Category(cases.Title(language.Und).String(trimmed)); titled.Canonical() {
		return titled
	}
	return models.Category(trimmed)
}
