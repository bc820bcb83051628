package export

import (
	"context"
	"fmt"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/PratikDhanave/fuel-command-center/internal/cells"
	"github.com/PratikDhanave/fuel-command-center/internal/fuel"
	"github.com/PratikDhanave/fuel-command-center/internal/models"
)

// Measurement names written to InfluxDB.
const (
	MeasurementDispense = "fuel_dispense"
	MeasurementBalance  = "tanker_balance"
)

// PointWriter is satisfied by api.WriteAPIBlocking.
type PointWriter interface {
	WritePoint(ctx context.Context, point ...*write.Point) error
}

// Influx writes report points through a blocking write API.
type Influx struct {
	writer PointWriter
	close  func()
}

// NewInflux wraps an existing writer.
func NewInflux(w PointWriter) *Influx {
	return &Influx{writer: w}
}

// DialInflux connects to an InfluxDB v2 server and verifies it is healthy.
func DialInflux(ctx context.Context, url, token, org, bucket string) (*Influx, error) {
	client := influxdb2.NewClient(url, token)
	if _, err := client.Health(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to InfluxDB: %w", err)
	}
	return &Influx{writer: client.WriteAPIBlocking(org, bucket), close: client.Close}, nil
}

// Close releases the client created by DialInflux.
func (x *Influx) Close() {
	if x.close != nil {
		x.close()
	}
}

// Export writes every point of rep and returns how many were written.
func (x *Influx) Export(ctx context.Context, rep fuel.Report) (int, error) {
	points := Points(rep)
	if len(points) == 0 {
		return 0, nil
	}
	if err := x.writer.WritePoint(ctx, points...); err != nil {
		return 0, fmt.Errorf("write %d points: %w", len(points), err)
	}
	return len(points), nil
}

// Points converts rep into line-protocol points. Dispense points carry only
// the metric fields that are defined; records without a time are skipped.
// Balance points are stamped with the report's generation time.
func Points(rep fuel.Report) []*write.Point {
	points := make([]*write.Point, 0, len(rep.Records)+len(rep.Balances))
	for _, r := range rep.Records {
		if p := dispensePoint(r); p != nil {
			points = append(points, p)
		}
	}
	for _, b := range rep.Balances {
		points = append(points, write.NewPoint(
			MeasurementBalance,
			map[string]string{"tanker": b.Tanker},
			map[string]interface{}{
				"total_in_l":  b.TotalIn,
				"total_out_l": b.TotalOut,
				"balance_l":   b.Balance,
				"fill_ratio":  b.FillRatio,
			},
			rep.GeneratedAt,
		))
	}
	return points
}

func dispensePoint(r models.EnrichedRecord) *write.Point {
	ts := r.EventTime
	if !ts.Valid {
		ts = r.Day()
	}
	if !ts.Valid {
		return nil
	}

	fields := map[string]interface{}{}
	for key, n := range map[string]cells.Number{
		"fuel_out_l":       r.FuelOut,
		"meter_delta":      r.MeterDelta,
		"km_per_l":         r.ActualKmPerL,
		"l_per_hour":       r.ActualLPerHour,
		"efficiency_ratio": r.EfficiencyRatio,
	} {
		if n.Valid {
			fields[key] = n.Value
		}
	}
	if len(fields) == 0 {
		return nil
	}

	tags := map[string]string{}
	for key, v := range map[string]string{
		"asset_key":     r.AssetKey,
		"category":      string(r.Category),
		"source_tanker": r.SourceTanker,
		"unit":          string(r.UnitClass),
	} {
		if v != "" {
			tags[key] = v
		}
	}
	return write.NewPoint(MeasurementDispense, tags, fields, ts.Time)
}
