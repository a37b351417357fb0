package owner

import (
	"net/http"
	"strings"
	"time"

	"github.com/mesa-next/internal/config"
	"github.com/mesa-next/internal/http/response"
	"github.com/mesa-next/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	liveWriteWait  = 10 * time.Second
	livePongWait   = 60 * time.Second
	livePingPeriod = 50 * time.Second
)

// liveUpgrader 握手来源沿用 CORS 白名单
func liveUpgrader(cfg config.CORSConfig) *websocket.Upgrader {
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			return originAllowed(cfg, r.Header.Get("Origin"))
		},
	}
}

// originAllowed 无 Origin 头（非浏览器客户端）、白名单为空或含 * 时放行，否则精确匹配
func originAllowed(cfg config.CORSConfig, origin string) bool {
	origin = strings.TrimSpace(origin)
	if origin == "" || len(cfg.AllowedOrigins) == 0 {
		return true
	}
	origin = strings.TrimSuffix(origin, "/")
	for _, allowed := range cfg.AllowedOrigins {
		allowed = strings.TrimSuffix(strings.TrimSpace(allowed), "/")
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}

// LiveOrders 推送本餐厅订单事件的 WebSocket
func (h *Handler) LiveOrders(c *gin.Context) {
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	if !websocket.IsWebSocketUpgrade(c.Request) {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	events, cancel, err := h.OrderService.Subscribe(c.Request.Context(), rid)
	if err != nil {
		respondError(c, response.CodeUnavailable, "error.live_feed_unavailable", err)
		return
	}
	defer cancel()

	var cors config.CORSConfig
	if h.Config != nil {
		cors = h.Config.CORS
	}
	conn, err := liveUpgrader(cors).Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warnw("owner_live_upgrade_failed", "restaurant_id", rid, "error", err)
		return
	}
	defer conn.Close()

	// 读循环只处理 pong 与关闭
	closed := make(chan struct{})
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(livePongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(livePongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePingPeriod)
	defer ticker.Stop()
	logger.Debugw("owner_live_connected", "restaurant_id", rid)
	for {
		select {
		case <-closed:
			return
		case event, ok := <-events:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(liveWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteWait))
			if err := conn.WriteJSON(event); err != nil {
				logger.Debugw("owner_live_write_failed", "restaurant_id", rid, "error", err)
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteWait)); err != nil {
				return
			}
		}
	}
}
