package handler

import (
	"log"
	"log/slog"
	"net/http"
	"os"
	"sync"

	config "coal-market-api/configs"
	"coal-market-api/pkg/handlers"

	"github.com/gin-gonic/gin"
)

var (
	app     *gin.Engine
	initErr error
	once    sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境ではリクエストごとに初期化しないよう sync.Once で一度だけ実行します。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		// 環境変数はホスティング側の設定から読み込まれるため godotenv は呼ばない
		cfg := config.LoadConfig()
		logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

		deps, err := handlers.BuildDependencies(cfg, logger)
		if err != nil {
			initErr = err
			return
		}
		app = handlers.SetupRouter(deps)
		log.Printf("[setupApp] market dataset seeded with %d records", len(deps.Store.Snapshot()))
	})
	return app, initErr
}

// Handler はサーバーレス関数のエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	app, err := setupApp()
	if err != nil {
		log.Printf("[Handler] initialization failed: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	app.ServeHTTP(w, r)
}
