package domain

import "github.com/shopspring/decimal"

// Shipment is one panel shipment row from the store
type Shipment struct {
	ID          uint            `json:"id"`
	Year        int             `json:"year"`
	Quarter     int             `json:"quarter"`
	Brand       string          `json:"brand"`
	Application string          `json:"application"`
	SizeInches  float64         `json:"sizeInches"`
	PanelMaker  string          `json:"panelMaker"`
	Technology  string          `json:"technology,omitempty"`
	UnitsK      decimal.Decimal `json:"unitsK"` // thousands of panels
}

// Record exposes the shipment under the column names used by tables and inference
func (s Shipment) Record() Record {
	return Record{
		"id":              s.ID,
		"year":            s.Year,
		"quarter":         s.Quarter,
		ColumnBrand:       s.Brand,
		ColumnApplication: s.Application,
		ColumnSizeInches:  s.SizeInches,
		ColumnPanelMaker:  s.PanelMaker,
		"technology":      s.Technology,
		"units_k":         s.UnitsK,
	}
}

// ShipmentColumns is the column order of a shipment table
var ShipmentColumns = []string{
	"id", "year", "quarter",
	ColumnBrand, ColumnApplication, ColumnSizeInches, ColumnPanelMaker,
	"technology", "units_k",
}

// EnrichedShipment is a shipment with its inferred product attached
type EnrichedShipment struct {
	Shipment
	InferredProduct     string     `json:"inferredProduct"`
	InferenceConfidence Confidence `json:"inferenceConfidence"`
	Alternatives        []string   `json:"alternatives,omitempty"`
}

// ShipmentFilter narrows a shipment query. Empty slices mean "no constraint".
type ShipmentFilter struct {
	Years        []int    `form:"year"`
	Quarters     []int    `form:"quarter"`
	Brands       []string `form:"brand"`
	Applications []string `form:"application"`
	PanelMakers  []string `form:"panel_maker"`
	Technologies []string `form:"technology"`
}

// ProductSummary aggregates shipments that share an inferred product
type ProductSummary struct {
	Brand        string             `json:"brand"`
	Application  string             `json:"application"`
	Product      string             `json:"product"`
	UnitsK       decimal.Decimal    `json:"unitsK"`
	Rows         int                `json:"rows"`
	ByConfidence map[Confidence]int `json:"byConfidence"`
}

// FilterOptions lists the distinct values available for each sidebar filter
type FilterOptions struct {
	Years        []int    `json:"years"`
	Brands       []string `json:"brands"`
	Applications []string `json:"applications"`
	PanelMakers  []string `json:"panelMakers"`
	Technologies []string `json:"technologies"`
}
