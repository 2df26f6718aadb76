package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/panellens/backend/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ShipmentServiceConfig holds configuration for the shipment service
type ShipmentServiceConfig struct {
	CacheTTL           time.Duration
	EnableDebugLogging bool
}

// ShipmentService answers dashboard shipment queries with inferred products attached
type ShipmentService struct {
	repo     domain.ShipmentRepository
	cache    domain.CacheRepository
	inferrer *ProductInferrer
	logger   *zap.Logger
	cacheTTL time.Duration
}

// NewShipmentService creates a new shipment service with dependencies
func NewShipmentService(
	repo domain.ShipmentRepository,
	cache domain.CacheRepository,
	logger *zap.Logger,
	config ShipmentServiceConfig,
) *ShipmentService {
	if logger == nil {
		logger = zap.NewNop()
	}

	cacheTTL := config.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 15 * time.Minute
	}

	return &ShipmentService{
		repo:     repo,
		cache:    cache,
		inferrer: NewProductInferrer(logger, InferenceConfig{EnableDebugLogging: config.EnableDebugLogging}),
		logger:   logger.Named("shipments"),
		cacheTTL: cacheTTL,
	}
}

// Inferrer exposes the product inferrer used by the service
func (s *ShipmentService) Inferrer() *ProductInferrer {
	return s.inferrer
}

// Query returns the shipments matching filter, each with its inferred product.
// Flow: check cache -> load from store -> infer -> cache -> return
func (s *ShipmentService) Query(ctx context.Context, filter domain.ShipmentFilter) ([]domain.EnrichedShipment, error) {
	cacheKey := shipmentCacheKey(filter)

	if cached, err := s.getFromCache(ctx, cacheKey); err == nil {
		return cached, nil
	}

	shipments, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list shipments: %w", err)
	}

	enriched := make([]domain.EnrichedShipment, len(shipments))
	for i, shipment := range shipments {
		result := s.inferrer.InferShipment(shipment)
		enriched[i] = domain.EnrichedShipment{
			Shipment:            shipment,
			InferredProduct:     result.Product,
			InferenceConfidence: result.Confidence,
			Alternatives:        result.Alternatives,
		}
	}

	if err := s.setInCache(ctx, cacheKey, enriched); err != nil {
		s.logger.Warn("failed to cache shipment query", zap.String("key", cacheKey), zap.Error(err))
	}

	return enriched, nil
}

// Table returns the shipments matching filter as an enriched table
func (s *ShipmentService) Table(ctx context.Context, filter domain.ShipmentFilter) (domain.Table, error) {
	shipments, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Table{}, fmt.Errorf("list shipments: %w", err)
	}
	return s.inferrer.Enrich(ShipmentTable(shipments)), nil
}

type summaryKey struct {
	brand       string
	application string
	product     string
}

// Summary totals shipped units per inferred product.
// Results are sorted by units descending, then by product name.
func (s *ShipmentService) Summary(ctx context.Context, filter domain.ShipmentFilter) ([]domain.ProductSummary, error) {
	rows, err := s.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	index := make(map[summaryKey]int)
	var summaries []domain.ProductSummary
	for _, row := range rows {
		key := summaryKey{row.Brand, row.Application, row.InferredProduct}
		i, ok := index[key]
		if !ok {
			i = len(summaries)
			index[key] = i
			summaries = append(summaries, domain.ProductSummary{
				Brand:        row.Brand,
				Application:  row.Application,
				Product:      row.InferredProduct,
				UnitsK:       decimal.Zero,
				ByConfidence: make(map[domain.Confidence]int),
			})
		}
		summaries[i].UnitsK = summaries[i].UnitsK.Add(row.UnitsK)
		summaries[i].Rows++
		summaries[i].ByConfidence[row.InferenceConfidence]++
	}

	sort.SliceStable(summaries, func(a, b int) bool {
		if c := summaries[a].UnitsK.Cmp(summaries[b].UnitsK); c != 0 {
			return c > 0
		}
		return summaries[a].Product < summaries[b].Product
	})

	return summaries, nil
}

// FilterOptions lists the distinct values available for the dashboard filters
func (s *ShipmentService) FilterOptions(ctx context.Context) (*domain.FilterOptions, error) {
	years, err := s.repo.DistinctYears(ctx)
	if err != nil {
		return nil, fmt.Errorf("distinct years: %w", err)
	}

	options := &domain.FilterOptions{Years: years}
	targets := []struct {
		column string
		dest   *[]string
	}{
		{"brand", &options.Brands},
		{"application", &options.Applications},
		{"panel_maker", &options.PanelMakers},
		{"technology", &options.Technologies},
	}
	for _, target := range targets {
		values, err := s.repo.DistinctStrings(ctx, target.column)
		if err != nil {
			return nil, fmt.Errorf("distinct %s: %w", target.column, err)
		}
		*target.dest = values
	}

	return options, nil
}

// Import validates and stores shipment rows. Cached queries expire on their own TTL.
func (s *ShipmentService) Import(ctx context.Context, shipments []domain.Shipment) (int, error) {
	for i, shipment := range shipments {
		if err := validateShipment(shipment); err != nil {
			return 0, fmt.Errorf("row %d: %w", i+1, err)
		}
	}

	if len(shipments) == 0 {
		return 0, nil
	}

	if err := s.repo.Create(ctx, shipments); err != nil {
		return 0, fmt.Errorf("store shipments: %w", err)
	}

	s.logger.Info("imported shipments", zap.Int("rows", len(shipments)))
	return len(shipments), nil
}

func validateShipment(s domain.Shipment) error {
	switch {
	case s.Quarter < 1 || s.Quarter > 4:
		return fmt.Errorf("%w: quarter %d out of range 1-4", domain.ErrInvalidShipment, s.Quarter)
	case math.IsNaN(s.SizeInches) || math.IsInf(s.SizeInches, 0):
		return fmt.Errorf("%w: size %v is not a number", domain.ErrInvalidShipment, s.SizeInches)
	case s.SizeInches < 0:
		return fmt.Errorf("%w: negative size %v", domain.ErrInvalidShipment, s.SizeInches)
	case s.UnitsK.IsNegative():
		return fmt.Errorf("%w: negative units %s", domain.ErrInvalidShipment, s.UnitsK)
	case strings.TrimSpace(s.Brand) == "":
		return fmt.Errorf("%w: brand is required", domain.ErrInvalidShipment)
	}
	return nil
}

// shipmentCacheKey builds a canonical cache key from a filter.
// Format: "shipments:y=..|q=..|b=..|a=..|m=..|t=.." with sorted, lower-cased values
func shipmentCacheKey(filter domain.ShipmentFilter) string {
	parts := []string{
		"y=" + joinInts(filter.Years),
		"q=" + joinInts(filter.Quarters),
		"b=" + joinStrings(filter.Brands),
		"a=" + joinStrings(filter.Applications),
		"m=" + joinStrings(filter.PanelMakers),
		"t=" + joinStrings(filter.Technologies),
	}
	return "shipments:" + strings.Join(parts, "|")
}

func joinInts(values []int) string {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	out := make([]string, len(sorted))
	for i, v := range sorted {
		out[i] = strconv.Itoa(v)
	}
	return strings.Join(out, ",")
}

func joinStrings(values []string) string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(strings.TrimSpace(v))
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}

// getFromCache retrieves an enriched query result from cache
func (s *ShipmentService) getFromCache(ctx context.Context, key string) ([]domain.EnrichedShipment, error) {
	if s.cache == nil {
		return nil, domain.ErrCacheMiss
	}

	value, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	if rows, ok := value.([]domain.EnrichedShipment); ok {
		return rows, nil
	}

	// Cache backends hand back decoded JSON; re-decode into the typed rows
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, domain.ErrCacheMiss
	}
	var rows []domain.EnrichedShipment
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, domain.ErrCacheMiss
	}
	return rows, nil
}

// setInCache stores an enriched query result in cache
func (s *ShipmentService) setInCache(ctx context.Context, key string, rows []domain.EnrichedShipment) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Set(ctx, key, rows, s.cacheTTL)
}
