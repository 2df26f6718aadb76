package usecase

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/panellens/backend/internal/domain"
)

func TestEnrichShipments(t *testing.T) {
	input := domain.Table{
		Columns: []string{"year", "brand", "application", "size_inches", "panel_maker", "units_k"},
		Rows: []domain.Record{
			{"year": 2024, "brand": "Apple", "application": "Smartphone", "size_inches": 6.12, "panel_maker": "LGD", "units_k": 800},
			{"year": 2024, "brand": "Samsung", "application": "Smartphone", "size_inches": 6.8, "panel_maker": "SDC", "units_k": 500},
			{"year": 2024, "brand": "Acme", "application": "Smartphone", "size_inches": 6.1, "panel_maker": "SDC", "units_k": 1},
		},
	}

	t.Run("appends inference columns and keeps row order", func(t *testing.T) {
		got := EnrichShipments(input)

		assert.Equal(t, []string{
			"year", "brand", "application", "size_inches", "panel_maker", "units_k",
			domain.ColumnInferredProduct, domain.ColumnInferenceConfidence,
		}, got.Columns)
		require.Equal(t, input.Len(), got.Len())

		want := []struct {
			product    string
			confidence string
		}{
			{"iPhone Pro", "high"},
			{"Galaxy S Ultra", "high"},
			{"Acme Smartphone", "low"},
		}
		for i, w := range want {
			assert.Equal(t, w.product, got.Rows[i][domain.ColumnInferredProduct])
			assert.Equal(t, w.confidence, got.Rows[i][domain.ColumnInferenceConfidence])
			assert.Equal(t, input.Rows[i]["units_k"], got.Rows[i]["units_k"])
		}
	})

	t.Run("leaves the input untouched", func(t *testing.T) {
		EnrichShipments(input)
		assert.Len(t, input.Columns, 6)
		for _, r := range input.Rows {
			assert.NotContains(t, r, domain.ColumnInferredProduct)
			assert.NotContains(t, r, domain.ColumnInferenceConfidence)
		}
	})

	t.Run("does not duplicate existing inference columns", func(t *testing.T) {
		table := domain.Table{
			Columns: []string{"brand", domain.ColumnInferredProduct},
			Rows:    []domain.Record{{"brand": "Apple", domain.ColumnInferredProduct: "stale"}},
		}
		got := EnrichShipments(table)

		assert.Equal(t, []string{"brand", domain.ColumnInferredProduct, domain.ColumnInferenceConfidence}, got.Columns)
		assert.Equal(t, "Unknown", got.Rows[0][domain.ColumnInferredProduct])
		assert.Equal(t, "stale", table.Rows[0][domain.ColumnInferredProduct])
	})

	t.Run("tolerates missing fields", func(t *testing.T) {
		got := EnrichShipments(domain.Table{
			Columns: []string{"brand"},
			Rows:    []domain.Record{{}, nil},
		})
		require.Len(t, got.Rows, 2)
		for _, r := range got.Rows {
			assert.Equal(t, "Unknown", r[domain.ColumnInferredProduct])
			assert.Equal(t, "low", r[domain.ColumnInferenceConfidence])
		}
	})

	t.Run("empty table", func(t *testing.T) {
		got := EnrichShipments(domain.Table{})
		assert.Equal(t, []string{domain.ColumnInferredProduct, domain.ColumnInferenceConfidence}, got.Columns)
		assert.Zero(t, got.Len())
	})
}

func TestShipmentTable(t *testing.T) {
	shipments := []domain.Shipment{
		{ID: 1, Year: 2024, Quarter: 3, Brand: "Apple", Application: "Tablet", SizeInches: 12.9, PanelMaker: "SDC", Technology: "OLED", UnitsK: decimal.NewFromInt(42)},
	}

	table := ShipmentTable(shipments)
	assert.Equal(t, domain.ShipmentColumns, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Apple", table.Rows[0][domain.ColumnBrand])

	// the returned columns are a copy
	table.Columns[0] = "changed"
	assert.Equal(t, "id", domain.ShipmentColumns[0])

	enriched := EnrichShipments(table)
	assert.Equal(t, "iPad Pro 12.9\"", enriched.Rows[0][domain.ColumnInferredProduct])
}
