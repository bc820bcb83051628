package models

import "github.com/PratikDhanave/fuel-command-center/internal/cells"

// DispenseRequest is the POST /dispenses payload.
// meter_unit is optional; it defaults from the asset's category.
type DispenseRequest struct {
	FleetNo      string       `json:"fleet_no"`
	SourceTanker string       `json:"source_tanker"`
	Date         string       `json:"date"`
	FuelOut      cells.Number `json:"fuel_out_l"`
	CurrentMeter cells.Number `json:"current_meter"`
	MeterUnit    string       `json:"meter_unit,omitempty"`
}

// ReceiptRequest is the POST /receipts payload.
type ReceiptRequest struct {
	TankerNo      string       `json:"tanker_no"`
	SourceStation string       `json:"source_station"`
	Date          string       `json:"date"`
	FuelIn        cells.Number `json:"fuel_in_l"`
}

// AppendResponse is returned after a row has been written to a log.
type AppendResponse struct {
	Worksheet string   `json:"worksheet"`
	Row       []string `json:"row"`
}
