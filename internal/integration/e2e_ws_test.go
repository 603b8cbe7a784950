package integration

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cryptofarm/internal/catalog"
	"cryptofarm/internal/game"
	httpserver "cryptofarm/internal/http"
	"cryptofarm/internal/http/handlers"
	"cryptofarm/internal/http/middleware"
	"cryptofarm/internal/repository"
	"cryptofarm/internal/service"
	"cryptofarm/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Full stack on Postgres: guest login, purchase, push channel, and a
// reload from the stored snapshot after the server goes away.
func TestE2E_SaveAndReload(t *testing.T) {
	db := connectPostgres(t)
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret", time.Hour)
	middleware.InitRedisRateLimiter(nil)

	cat := catalog.MustDefault()
	store := repository.NewSaveRepository(db)
	audit := service.NewAuditService(repository.NewAuditRepository(db))
	iv := service.Intervals{Accrual: time.Hour, Market: time.Hour, BoostPrune: time.Hour}

	hub := ws.NewHub()
	sessions := service.NewSessionManager(cat, service.ManagerConfig{Intervals: iv}, nil, store, hub, audit)
	games := service.NewGameService(sessions, audit)

	r := gin.New()
	limits := httpserver.RateLimits{API: 1000, APIWindow: time.Minute, Auth: 1000, AuthWindow: time.Minute, Action: 1000, ActionWindow: time.Minute}
	httpserver.RegisterRoutes(r, handlers.NewHandler(games, sessions, cat, ""), handlers.NewHealthHandler(store, store.Name(), sessions, hub, "it"), hub, limits)
	srv := httptest.NewServer(r)
	defer srv.Close()

	ctx := context.Background()
	sess, err := sessions.Create(ctx)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	playerID := sess.PlayerID
	if _, err := games.HireWorker(ctx, playerID, "technician"); err != nil {
		t.Fatalf("hire: %v", err)
	}
	if _, err := games.BuyComputer(ctx, playerID, "budget-rig"); err != nil {
		t.Fatalf("buy: %v", err)
	}

	token, _ := service.GenerateJWT(playerID)
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws?token=" + token
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var frame struct {
		Type    string           `json:"type"`
		Payload game.RenderFrame `json:"payload"`
	}
	for frame.Type != ws.MsgFrame {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&frame); err != nil {
			t.Fatalf("read: %v", err)
		}
	}
	if len(frame.Payload.Computers) != 1 || frame.Payload.Cash != 17500 {
		t.Fatalf("frame = %+v", frame.Payload)
	}
	conn.Close()

	if err := sessions.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	reloaded := service.NewSessionManager(cat, service.ManagerConfig{Intervals: iv}, nil, store, nil, nil)
	defer reloaded.Close(ctx)
	state, err := service.NewGameService(reloaded, nil).State(ctx, playerID)
	if err != nil {
		t.Fatalf("state: %v", err)
	}
	if len(state.Computers) != 1 || len(state.Workers) != 1 {
		t.Fatalf("reloaded = %d computers, %d workers", len(state.Computers), len(state.Workers))
	}
}
