package main

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	config "coal-market-api/configs"
	"coal-market-api/pkg/handlers"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// テスト環境の設定
	gin.SetMode(gin.TestMode)

	// .envファイルを読み込み（存在しなくてもよい）
	_ = godotenv.Load("../../.env")

	os.Exit(m.Run())
}

func TestApplicationSetup(t *testing.T) {
	t.Setenv("MARKET_HISTORICAL_COUNT", "50")
	t.Setenv("MARKET_CATALOG_PATH", "")

	cfg := config.LoadConfig()
	require.NotNil(t, cfg, "Config should not be nil")

	deps, err := handlers.BuildDependencies(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	assert.NotNil(t, deps.Engine)
	assert.NotNil(t, deps.Store)
	assert.Len(t, deps.Store.Snapshot(), 50)
	assert.NotNil(t, deps.Store.Prediction())
}

func TestApplicationSetupBadCatalog(t *testing.T) {
	t.Setenv("MARKET_CATALOG_PATH", "does-not-exist.yaml")

	_, err := handlers.BuildDependencies(config.LoadConfig(), nil)
	assert.Error(t, err)
}

func TestRouterSetup(t *testing.T) {
	t.Setenv("MARKET_HISTORICAL_COUNT", "10")
	t.Setenv("MARKET_CATALOG_PATH", "")
	t.Setenv("API_KEY", "")

	deps, err := handlers.BuildDependencies(config.LoadConfig(), nil)
	require.NoError(t, err)
	r := handlers.SetupRouter(deps)

	// ヘルスチェックのテスト
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")

	// API_KEY 未設定なら認証なし
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/market/stats", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
