package usecase

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/panellens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
)

const unknownProduct = "Unknown"

// shipmentFields holds the normalized inputs of one inference
type shipmentFields struct {
	Brand       string
	Application string
	SizeInches  float64
	PanelMaker  string
}

// InferProduct returns the best-guess product for a shipment record.
// It never fails: missing or malformed fields degrade to a low-confidence generic answer.
func InferProduct(rec domain.Record) domain.Inference {
	return infer(normalizeRecord(rec))
}

// InferShipment is InferProduct for a typed shipment
func InferShipment(s domain.Shipment) domain.Inference {
	return infer(normalizeShipment(s))
}

func infer(f shipmentFields) domain.Inference {
	bands, ok := productRules[ruleKey{f.Brand, f.Application}]
	if !ok {
		if f.Brand != "" && f.Application != "" {
			return lowConfidence(genericName(f))
		}
		return lowConfidence(unknownProduct)
	}

	var matches []string
	for _, band := range bands {
		if band.contains(f.SizeInches) {
			matches = append(matches, band.Product)
		}
	}

	switch len(matches) {
	case 0:
		return lowConfidence(genericName(f))
	case 1:
		return domain.Inference{
			Product:      matches[0],
			Confidence:   pairConfidence(f.Brand, f.PanelMaker),
			Alternatives: []string{},
		}
	}

	return disambiguate(f, matches)
}

// disambiguate picks one product among several overlapping bands.
// A direct supplier hint wins outright. Otherwise products hinted to other
// suppliers are dropped, and a single survivor wins. Failing that, the first
// product without "Pro" in its name wins.
func disambiguate(f shipmentFields, matches []string) domain.Inference {
	var hinted, unhinted []string
	for _, product := range matches {
		makers, hasHint := hintSets[product]
		if hasHint && makers[f.PanelMaker] {
			hinted = append(hinted, product)
		}
		if !hasHint || makers[f.PanelMaker] {
			unhinted = append(unhinted, product)
		}
	}

	if len(hinted) == 1 {
		return domain.Inference{
			Product:      hinted[0],
			Confidence:   domain.ConfidenceHigh,
			Alternatives: without(matches, hinted[0]),
		}
	}

	if len(hinted) == 0 && len(unhinted) == 1 {
		return domain.Inference{
			Product:      unhinted[0],
			Confidence:   pairConfidence(f.Brand, f.PanelMaker),
			Alternatives: without(matches, unhinted[0]),
		}
	}

	winner := matches[0]
	for _, product := range matches {
		if !strings.Contains(product, "Pro") {
			winner = product
			break
		}
	}
	return domain.Inference{
		Product:      winner,
		Confidence:   domain.ConfidenceMedium,
		Alternatives: without(matches, winner),
	}
}

func pairConfidence(brand, maker string) domain.Confidence {
	if isKnownSupplier(brand, maker) {
		return domain.ConfidenceHigh
	}
	return domain.ConfidenceMedium
}

func lowConfidence(product string) domain.Inference {
	return domain.Inference{
		Product:      product,
		Confidence:   domain.ConfidenceLow,
		Alternatives: []string{},
	}
}

func genericName(f shipmentFields) string {
	return f.Brand + " " + f.Application
}

// without returns products minus target, in order
func without(products []string, target string) []string {
	rest := make([]string, 0, len(products)-1)
	for _, p := range products {
		if p != target {
			rest = append(rest, p)
		}
	}
	return rest
}

func normalizeShipment(s domain.Shipment) shipmentFields {
	return shipmentFields{
		Brand:       normalizeText(s.Brand),
		Application: normalizeText(s.Application),
		SizeInches:  normalizeSize(s.SizeInches),
		PanelMaker:  normalizeText(s.PanelMaker),
	}
}

func normalizeRecord(rec domain.Record) shipmentFields {
	return shipmentFields{
		Brand:       normalizeText(rec[domain.ColumnBrand]),
		Application: normalizeText(rec[domain.ColumnApplication]),
		SizeInches:  normalizeSize(rec[domain.ColumnSizeInches]),
		PanelMaker:  normalizeText(rec[domain.ColumnPanelMaker]),
	}
}

// normalizeText coerces a field to a trimmed NFC string; nil and unconvertible values become ""
func normalizeText(v any) string {
	s, err := cast.ToStringE(v)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(norm.NFC.String(s))
}

// normalizeSize coerces a field to inches; anything non-numeric becomes 0, which matches no band
func normalizeSize(v any) float64 {
	var size float64
	switch x := v.(type) {
	case nil, bool:
		return 0
	case decimal.Decimal:
		size = x.InexactFloat64()
	case *decimal.Decimal:
		if x == nil {
			return 0
		}
		size = x.InexactFloat64()
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return 0
		}
		size = f
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(x))
		if err != nil {
			return 0
		}
		size = f
	default:
		f, err := cast.ToFloat64E(v)
		if err != nil {
			return 0
		}
		size = f
	}
	if math.IsNaN(size) || math.IsInf(size, 0) {
		return 0
	}
	return size
}

// InferenceConfig holds configuration for the product inferrer
type InferenceConfig struct {
	EnableDebugLogging bool
}

// ProductInferrer runs product inference and optionally logs each decision
type ProductInferrer struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewProductInferrer creates a product inferrer with the given configuration
func NewProductInferrer(logger *zap.Logger, config InferenceConfig) *ProductInferrer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductInferrer{
		logger:             logger.Named("inference"),
		enableDebugLogging: config.EnableDebugLogging,
	}
}

// Infer runs InferProduct on a record
func (p *ProductInferrer) Infer(rec domain.Record) domain.Inference {
	fields := normalizeRecord(rec)
	result := infer(fields)
	p.trace(fields, result)
	return result
}

// InferShipment runs InferShipment on a typed shipment
func (p *ProductInferrer) InferShipment(s domain.Shipment) domain.Inference {
	fields := normalizeShipment(s)
	result := infer(fields)
	p.trace(fields, result)
	return result
}

// Enrich runs EnrichShipments on a table
func (p *ProductInferrer) Enrich(t domain.Table) domain.Table {
	enriched := EnrichShipments(t)
	if p.enableDebugLogging {
		p.logger.Debug("enriched shipment table",
			zap.Int("rows", enriched.Len()),
			zap.Strings("columns", enriched.Columns),
		)
	}
	return enriched
}

func (p *ProductInferrer) trace(f shipmentFields, result domain.Inference) {
	if !p.enableDebugLogging {
		return
	}
	p.logger.Debug("inferred product",
		zap.String("brand", f.Brand),
		zap.String("application", f.Application),
		zap.Float64("size_inches", f.SizeInches),
		zap.String("panel_maker", f.PanelMaker),
		zap.String("product", result.Product),
		zap.String("confidence", result.Confidence.String()),
		zap.Strings("alternatives", result.Alternatives),
	)
}
