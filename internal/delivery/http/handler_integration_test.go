package http

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/panellens/backend/config"
	"github.com/panellens/backend/internal/domain"
	"github.com/panellens/backend/internal/infrastructure/cache"
	"github.com/panellens/backend/internal/infrastructure/persistence"
	"github.com/panellens/backend/internal/usecase"
)

const (
	testEmail    = "analyst@panellens.io"
	testPassword = "correct-horse"
	testCookie   = "panellens_session"
)

// TestMain sets up test environment before running tests
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var testShipments = []domain.Shipment{
	{Year: 2024, Quarter: 1, Brand: "Apple", Application: "Smartphone", SizeInches: 6.12, PanelMaker: "SDC", Technology: "OLED", UnitsK: decimal.RequireFromString("1200")},
	{Year: 2024, Quarter: 1, Brand: "Apple", Application: "Smartphone", SizeInches: 6.12, PanelMaker: "LGD", Technology: "OLED", UnitsK: decimal.RequireFromString("800")},
	{Year: 2024, Quarter: 2, Brand: "Samsung", Application: "Smartphone", SizeInches: 6.8, PanelMaker: "SDC", Technology: "OLED", UnitsK: decimal.RequireFromString("500.5")},
	{Year: 2023, Quarter: 4, Brand: "Huawei", Application: "Tablet", SizeInches: 12.6, PanelMaker: "BOE", Technology: "LCD", UnitsK: decimal.RequireFromString("90")},
}

// setupTestRouter wires the full stack against an in-memory store with seeded shipments and one account
func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "8080",
			Environment:    "test",
			AllowedOrigins: []string{"http://localhost:3000"},
		},
		Auth: config.AuthConfig{CookieName: testCookie},
	}

	db, err := persistence.Open(persistence.Config{Path: ":memory:"}, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = persistence.Close(db) })

	memoryCache := cache.NewMemoryCache()
	shipments := usecase.NewShipmentService(
		persistence.NewGormShipmentRepository(db),
		memoryCache,
		zap.NewNop(),
		usecase.ShipmentServiceConfig{},
	)
	auth := usecase.NewAuthService(
		persistence.NewGormUserRepository(db),
		memoryCache,
		zap.NewNop(),
		usecase.AuthServiceConfig{BcryptCost: bcrypt.MinCost},
	)

	ctx := context.Background()
	_, err = shipments.Import(ctx, testShipments)
	require.NoError(t, err)
	_, err = auth.Register(ctx, testEmail, testPassword)
	require.NoError(t, err)

	handler := NewHandler(shipments, auth, CookieConfig{Name: testCookie})
	return SetupRouter(cfg, handler, zap.NewNop())
}

// login returns the session cookie for the seeded account
func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()

	body := `{"email":"` + testEmail + `","password":"` + testPassword + `"}`
	req := httptest.NewRequest("POST", "/api/v1/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == testCookie {
			return cookie
		}
	}
	t.Fatalf("login did not set %s cookie", testCookie)
	return nil
}

func doRequest(router *gin.Engine, method, path string, body []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealthCheckEndpoint(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("returns healthy status", func(t *testing.T) {
		w := doRequest(router, "GET", "/health", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var response map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "healthy", response["status"])
		assert.Equal(t, "panellens-backend", response["service"])
		assert.NotEmpty(t, response["version"])
	})

	t.Run("accepts GET requests only", func(t *testing.T) {
		for _, method := range []string{"POST", "PUT", "DELETE", "PATCH"} {
			w := doRequest(router, method, "/health", nil, nil)
			if w.Code != http.StatusNotFound {
				t.Errorf("%s /health status = %d, want %d", method, w.Code, http.StatusNotFound)
			}
		}
	})
}

func TestAuthEndpoints(t *testing.T) {
	router := setupTestRouter(t)

	t.Run("rejects wrong password", func(t *testing.T) {
		body := []byte(`{"email":"` + testEmail + `","password":"wrong-password"}`)
		w := doRequest(router, "POST", "/api/v1/auth/login", body, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/auth/login", []byte(`{"email":"x@y.z"}`), nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("session cookie is http-only", func(t *testing.T) {
		cookie := login(t, router)
		assert.True(t, cookie.HttpOnly)
		assert.NotEmpty(t, cookie.Value)
	})

	t.Run("logout ends the session", func(t *testing.T) {
		cookie := login(t, router)
		require.Equal(t, http.StatusOK, doRequest(router, "GET", "/api/v1/shipments", nil, cookie).Code)

		w := doRequest(router, "POST", "/api/v1/auth/logout", nil, cookie)
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = doRequest(router, "GET", "/api/v1/shipments", nil, cookie)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	router := setupTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/inference/product"},
		{"POST", "/api/v1/inference/enrich"},
		{"GET", "/api/v1/shipments"},
		{"GET", "/api/v1/shipments/summary"},
		{"GET", "/api/v1/shipments/filters"},
		{"GET", "/api/v1/shipments/export.csv"},
	}

	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			w := doRequest(router, route.method, route.path, nil, nil)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestInferProductEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	cookie := login(t, router)

	tests := []struct {
		name           string
		body           string
		wantStatus     int
		wantProduct    string
		wantConfidence domain.Confidence
	}{
		{
			name:           "iPhone Pro from LGD",
			body:           `{"brand":"Apple","application":"Smartphone","size_inches":6.12,"panel_maker":"LGD"}`,
			wantStatus:     http.StatusOK,
			wantProduct:    "iPhone Pro",
			wantConfidence: domain.ConfidenceHigh,
		},
		{
			name:           "size as string",
			body:           `{"brand":"Apple","application":"Tablet","size_inches":"12.9","panel_maker":"SDC"}`,
			wantStatus:     http.StatusOK,
			wantProduct:    "iPad Pro 12.9\"",
			wantConfidence: domain.ConfidenceHigh,
		},
		{
			name:           "unknown brand",
			body:           `{"brand":"UnknownBrand","application":"Smartphone","size_inches":6.1,"panel_maker":"SDC"}`,
			wantStatus:     http.StatusOK,
			wantProduct:    "UnknownBrand Smartphone",
			wantConfidence: domain.ConfidenceLow,
		},
		{
			name:       "not an object",
			body:       `[1,2,3]`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed JSON",
			body:       `{"brand":`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(router, "POST", "/api/v1/inference/product", []byte(tt.body), cookie)
			require.Equal(t, tt.wantStatus, w.Code, w.Body.String())
			if tt.wantStatus != http.StatusOK {
				return
			}

			var result domain.Inference
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
			assert.Equal(t, tt.wantProduct, result.Product)
			assert.Equal(t, tt.wantConfidence, result.Confidence)
			assert.NotNil(t, result.Alternatives)
		})
	}
}

func TestEnrichTableEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	cookie := login(t, router)

	t.Run("appends inference columns", func(t *testing.T) {
		body := []byte(`{
			"columns": ["brand","application","size_inches","panel_maker","units_k"],
			"rows": [
				{"brand":"Samsung","application":"Smartphone","size_inches":6.8,"panel_maker":"SDC","units_k":10},
				{"brand":"Apple","application":"Notebook","size_inches":14.2,"panel_maker":"LGD","units_k":3}
			]
		}`)
		w := doRequest(router, "POST", "/api/v1/inference/enrich", body, cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var table domain.Table
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &table))
		assert.Equal(t, []string{
			"brand", "application", "size_inches", "panel_maker", "units_k",
			domain.ColumnInferredProduct, domain.ColumnInferenceConfidence,
		}, table.Columns)
		require.Len(t, table.Rows, 2)
		assert.Equal(t, "Galaxy S Ultra", table.Rows[0][domain.ColumnInferredProduct])
		assert.Equal(t, "high", table.Rows[0][domain.ColumnInferenceConfidence])
		assert.Equal(t, "MacBook Pro 14\"", table.Rows[1][domain.ColumnInferredProduct])
	})

	t.Run("requires columns", func(t *testing.T) {
		w := doRequest(router, "POST", "/api/v1/inference/enrich", []byte(`{"rows":[]}`), cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestShipmentEndpoints(t *testing.T) {
	router := setupTestRouter(t)
	cookie := login(t, router)

	t.Run("lists enriched shipments", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments?brand=Apple", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var response struct {
			Shipments []domain.EnrichedShipment `json:"shipments"`
			Count     int                       `json:"count"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Equal(t, 2, response.Count)
		assert.Equal(t, "iPhone (standard)", response.Shipments[0].InferredProduct)
		assert.Equal(t, "iPhone Pro", response.Shipments[1].InferredProduct)
		for _, s := range response.Shipments {
			assert.Equal(t, domain.ConfidenceHigh, s.InferenceConfidence)
		}
	})

	t.Run("filters by year and quarter", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments?year=2024&quarter=2", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Shipments []domain.EnrichedShipment `json:"shipments"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Shipments, 1)
		assert.Equal(t, "Galaxy S Ultra", response.Shipments[0].InferredProduct)
	})

	t.Run("rejects non-numeric year", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments?year=recent", nil, cookie)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("summarizes units per product", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments/summary", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var response struct {
			Products []domain.ProductSummary `json:"products"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Products, 4)
		assert.Equal(t, "iPhone (standard)", response.Products[0].Product)
		assert.True(t, decimal.RequireFromString("1200").Equal(response.Products[0].UnitsK))
		assert.Equal(t, "MatePad Pro 12.6\"", response.Products[3].Product)
	})

	t.Run("lists filter options", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments/filters", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)

		var options domain.FilterOptions
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &options))
		assert.Equal(t, []int{2023, 2024}, options.Years)
		assert.Equal(t, []string{"Apple", "Huawei", "Samsung"}, options.Brands)
		assert.Equal(t, []string{"BOE", "LGD", "SDC"}, options.PanelMakers)
		assert.Equal(t, []string{"LCD", "OLED"}, options.Technologies)
	})

	t.Run("exports CSV", func(t *testing.T) {
		w := doRequest(router, "GET", "/api/v1/shipments/export.csv?brand=Samsung", nil, cookie)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")

		records, err := csv.NewReader(w.Body).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		header := records[0]
		assert.Equal(t, domain.ColumnInferredProduct, header[len(header)-2])
		assert.Equal(t, domain.ColumnInferenceConfidence, header[len(header)-1])
		assert.Equal(t, "Galaxy S Ultra", records[1][len(header)-2])
	})
}

func TestCORSIntegration(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest("OPTIONS", "/api/v1/shipments", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
