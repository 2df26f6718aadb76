package usecase

import "github.com/panellens/backend/internal/domain"

// EnrichShipments returns a copy of t with inferred_product and inference_confidence
// added to every row. Row order and the original column order are preserved, and t
// is left untouched. Alternatives are not carried on the table.
func EnrichShipments(t domain.Table) domain.Table {
	columns := make([]string, len(t.Columns), len(t.Columns)+2)
	copy(columns, t.Columns)
	for _, name := range []string{domain.ColumnInferredProduct, domain.ColumnInferenceConfidence} {
		if !containsString(columns, name) {
			columns = append(columns, name)
		}
	}

	rows := make([]domain.Record, len(t.Rows))
	for i, row := range t.Rows {
		result := InferProduct(row)

		out := make(domain.Record, len(row)+2)
		for k, v := range row {
			out[k] = v
		}
		out[domain.ColumnInferredProduct] = result.Product
		out[domain.ColumnInferenceConfidence] = result.Confidence.String()
		rows[i] = out
	}

	return domain.Table{Columns: columns, Rows: rows}
}

// ShipmentTable converts typed shipments into a table with the standard shipment columns
func ShipmentTable(shipments []domain.Shipment) domain.Table {
	rows := make([]domain.Record, len(shipments))
	for i, s := range shipments {
		rows[i] = s.Record()
	}
	columns := make([]string, len(domain.ShipmentColumns))
	copy(columns, domain.ShipmentColumns)
	return domain.Table{Columns: columns, Rows: rows}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
