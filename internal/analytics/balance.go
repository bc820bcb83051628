package analytics

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// DefaultTankerCapacity is the nominal volume of one mobile tanker in liters.
const DefaultTankerCapacity = 30000.0

// Window is an inclusive calendar-day range. A zero From or To leaves that
// side open; the zero Window matches everything.
type Window struct {
	From time.Time
	To   time.Time
}

// ParseWindow builds a window from optional YYYY-MM-DD bounds.
func ParseWindow(from, to string) (Window, error) {
	var w Window
	for _, p := range []struct {
		name string
		raw  string
		dst  *time.Time
	}{
		{"from", from, &w.From},
		{"to", to, &w.To},
	} {
		raw := strings.TrimSpace(p.raw)
		if raw == "" {
			continue
		}
		t, err := time.Parse(cells.DateLayout, raw)
		if err != nil {
			return Window{}, fmt.Errorf("%s must be YYYY-MM-DD", p.name)
		}
		*p.dst = t
	}
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return Window{}, errors.New("from must be <= to")
	}
	return w, nil
}

// IsZero reports whether the window is unbounded on both sides.
func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// Contains reports whether day falls inside the window. Undefined days are
// only contained by the zero window.
func (w Window) Contains(day cells.Instant) bool {
	if w.IsZero() {
		return true
	}
	if !day.Valid {
		return false
	}
	d := cells.Day(day.Time)
	if !w.From.IsZero() && d.Before(cells.Day(w.From)) {
		return false
	}
	if !w.To.IsZero() && d.After(cells.Day(w.To)) {
		return false
	}
	return true
}

// Balances derives the inventory of each known tanker from its receipts minus
// its dispenses, optionally restricted to window. Tankers that only appear in
// the logs are ignored; undefined volumes count as zero.
func Balances(dispenses []models.DispenseEvent, receipts []models.ReceiptEvent, tankers []string, window Window) map[string]models.TankerBalance {
	in := make(map[string]decimal.Decimal, len(tankers))
	out := make(map[string]decimal.Decimal, len(tankers))
	for _, t := range tankers {
		t = strings.TrimSpace(t)
		in[t] = decimal.Zero
		out[t] = decimal.Zero
	}

	for _, r := range receipts {
		tanker := strings.TrimSpace(r.TankerNo)
		sum, known := in[tanker]
		if !known || !window.Contains(r.Day()) {
			continue
		}
		in[tanker] = sum.Add(decimal.NewFromFloat(r.FuelIn.Or(0)))
	}
	for _, d := range dispenses {
		tanker := strings.TrimSpace(d.SourceTanker)
		sum, known := out[tanker]
		if !known || !window.Contains(d.Day()) {
			continue
		}
		out[tanker] = sum.Add(decimal.NewFromFloat(d.FuelOut.Or(0)))
	}

	balances := make(map[string]models.TankerBalance, len(in))
	for tanker, totalIn := range in {
		totalOut := out[tanker]
		balances[tanker] = models.TankerBalance{
			Tanker:   tanker,
			TotalIn:  totalIn.InexactFloat64(),
			TotalOut: totalOut.InexactFloat64(),
			Balance:  totalIn.Sub(totalOut).InexactFloat64(),
		}
	}
	return balances
}

// WithCapacity sets the capacity and the fill ratio clamped to [0, 1].
func WithCapacity(b models.TankerBalance, capacity float64) models.TankerBalance {
	b.Capacity = capacity
	b.FillRatio = 0
	if capacity > 0 {
		b.FillRatio = min(1, max(0, b.Balance/capacity))
	}
	return b
}
