package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"coal-market-api/pkg/models"
	"coal-market-api/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	stopTimeout  = 5 * time.Second
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

// StreamHandler リアルタイム生成の開始・停止と WebSocket 配信
type StreamHandler struct {
	store    *services.MarketStore
	hub      *services.StreamHub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewStreamHandler 新しいストリーミングハンドラーを作成
func NewStreamHandler(store *services.MarketStore, hub *services.StreamHub, logger *slog.Logger) *StreamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamHandler{
		store: store,
		hub:   hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// ダッシュボードは別オリジンから接続する
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger.With(slog.String("component", "stream.ws")),
	}
}

// bindStreamFilters はリクエストボディの煤種・地点を読み込みます。ボディが空なら全件。
func bindStreamFilters(c *gin.Context) (models.StreamFilters, bool) {
	var filters models.StreamFilters
	if err := c.ShouldBindJSON(&filters); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, err)
		return filters, false
	}
	return filters, true
}

// Start ストリーミングを開始
func (h *StreamHandler) Start(c *gin.Context) {
	filters, ok := bindStreamFilters(c)
	if !ok {
		return
	}
	sessionID, err := h.store.Start(filters)
	if errors.Is(err, services.ErrStreamRunning) {
		respondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, gin.H{"sessionId": sessionID, "status": h.store.Status()})
}

// Stop ストリーミングを停止
func (h *StreamHandler) Stop(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), stopTimeout)
	defer cancel()

	err := h.store.Stop(ctx)
	if errors.Is(err, services.ErrStreamNotRunning) {
		respondError(c, http.StatusConflict, err)
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, err)
		return
	}
	respondOK(c, h.store.Status())
}

// UpdateFilters 実行中のストリーミングの絞り込みを変更
func (h *StreamHandler) UpdateFilters(c *gin.Context) {
	filters, ok := bindStreamFilters(c)
	if !ok {
		return
	}
	h.store.UpdateFilters(filters)
	respondOK(c, h.store.Status())
}

// Status ストリーミングの状態
func (h *StreamHandler) Status(c *gin.Context) {
	respondOK(c, h.store.Status())
}

// Subscribe は WebSocket にアップグレードし、追加されたレコードを JSON で送り続けます。
func (h *StreamHandler) Subscribe(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	defer conn.Close()

	id, records := h.hub.Subscribe()
	defer h.hub.Unsubscribe(id)

	// 読み取りはクローズ検知のためだけ
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(pingInterval)
	defer ping.Stop()

	for {
		select {
		case record, ok := <-records:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "subscriber too slow"),
					time.Now().Add(writeTimeout))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := conn.WriteJSON(record); err != nil {
				h.logger.Debug("websocket write failed", slog.String("subscriber_id", id), slog.String("error", err.Error()))
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout)); err != nil {
				return
			}
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		}
	}
}
