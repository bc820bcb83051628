package fuel

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/PratikDhanave/fuel-command-center/internal/analytics"
	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/codec"
	"github.com/PratikDhanave/fuel-command-center/internal/logging"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
	"github.com/PratikDhanave/fuel-command-center/internal/store"
)

// RecordDispense validates req against the directory and the tanker roster
// and appends one row to the dispensing log. Asset ID, category and
// description are copied from the directory; the meter unit defaults from
// the category.
func (s *Service) RecordDispense(ctx context.Context, operator string, req models.DispenseRequest) (models.AppendResponse, error) {
	var p problems
	fleetNo := strings.TrimSpace(req.FleetNo)
	tanker := strings.TrimSpace(req.SourceTanker)
	if fleetNo == "" {
		p.add("fleet_no is required")
	}
	if tanker == "" {
		p.add("source_tanker is required")
	}
	if !req.FuelOut.Positive() {
		p.add("fuel_out_l must be greater than zero")
	}
	if !req.CurrentMeter.Valid || req.CurrentMeter.Value < 0 {
		p.add("current_meter must be zero or greater")
	}
	unit := strings.TrimSpace(req.MeterUnit)
	if unit != "" && analytics.ClassifyUnit(unit) == models.UnitClassUnknown {
		p.add(fmt.Sprintf("meter_unit %q is not a km or hour unit", unit))
	}
	date, ok := s.entryDate(req.Date)
	if !ok {
		p.add(fmt.Sprintf("date %q is not a valid date", req.Date))
	}
	if err := p.err(); err != nil {
		return models.AppendResponse{}, err
	}

	dir, err := s.Directory(ctx)
	if err != nil {
		return models.AppendResponse{}, err
	}
	if dir.Len() == 0 {
		return models.AppendResponse{}, ErrEmptyDirectory
	}
	asset, ok := dir.ByFleetNo(fleetNo)
	if !ok {
		return models.AppendResponse{}, fmt.Errorf("%w: fleet no %q", ErrUnknownAsset, fleetNo)
	}
	if roster := dir.Tankers(s.tankers); !slices.Contains(roster, tanker) {
		return models.AppendResponse{}, &ValidationError{
			Problems: []string{fmt.Sprintf("source_tanker %q is not one of %s", tanker, strings.Join(roster, ", "))},
		}
	}
	if unit == "" {
		unit = asset.Category.DefaultUnit()
	}

	row := codec.DispenseRow(models.DispenseEvent{
		Timestamp:    cells.At(s.now()),
		Date:         date,
		FleetNo:      asset.FleetNo,
		AssetID:      asset.AssetID,
		Category:     string(asset.Category),
		Description:  asset.Description,
		SourceTanker: tanker,
		FuelOut:      req.FuelOut,
		CurrentMeter: req.CurrentMeter,
		MeterUnit:    unit,
	})
	return s.append(ctx, operator, store.Dispensing, row)
}

// RecordReceipt validates req against the tanker roster and appends one row
// to the receipts log.
func (s *Service) RecordReceipt(ctx context.Context, operator string, req models.ReceiptRequest) (models.AppendResponse, error) {
	var p problems
	tanker := strings.TrimSpace(req.TankerNo)
	if tanker == "" {
		p.add("tanker_no is required")
	}
	if !req.FuelIn.Positive() {
		p.add("fuel_in_l must be greater than zero")
	}
	date, ok := s.entryDate(req.Date)
	if !ok {
		p.add(fmt.Sprintf("date %q is not a valid date", req.Date))
	}
	if err := p.err(); err != nil {
		return models.AppendResponse{}, err
	}

	roster, err := s.Tankers(ctx)
	if err != nil {
		return models.AppendResponse{}, err
	}
	if !slices.Contains(roster, tanker) {
		return models.AppendResponse{}, &ValidationError{
			Problems: []string{fmt.Sprintf("tanker_no %q is not one of %s", tanker, strings.Join(roster, ", "))},
		}
	}

	row := codec.ReceiptRow(models.ReceiptEvent{
		Timestamp:     cells.At(s.now()),
		Date:          date,
		TankerNo:      tanker,
		SourceStation: strings.TrimSpace(req.SourceStation),
		FuelIn:        req.FuelIn,
	})
	return s.append(ctx, operator, store.Receipts, row)
}

// entryDate parses a submitted date; blank means today.
func (s *Service) entryDate(raw string) (cells.Instant, bool) {
	if strings.TrimSpace(raw) == "" {
		return cells.At(cells.Day(s.now())), true
	}
	d := cells.ParseDay(raw)
	return d, d.Valid
}

func (s *Service) append(ctx context.Context, operator string, ws store.Worksheet, row []string) (models.AppendResponse, error) {
	log := logging.FromContext(ctx)
	if err := s.store.AppendRow(ctx, ws, row); err != nil {
		log.Error().Err(err).Str("worksheet", ws.Title).Msg("append failed")
		return models.AppendResponse{}, err
	}
	log.Info().Str("worksheet", ws.Title).Str("operator", operator).Msg("row appended")
	if s.notifier != nil {
		s.notifier.Appended(ctx, ws, row, operator)
	}
	return models.AppendResponse{Worksheet: ws.Title, Row: row}, nil
}
