package core

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	ReloadPath = "/__harness_reload"

	reloadMessage      = "reload"
	reloadWriteTimeout = 2 * time.Second
)

type LiveReloaderInterface interface {
	BroadcastReload()
	Handler(http.ResponseWriter, *http.Request)
}

// LiveReloader pushes "reload" to every connected runner or component page.
type LiveReloader struct {
	clients  map[string]*websocket.Conn
	lock     sync.Mutex
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

var NewLiveReloader = func(logger *zap.Logger) LiveReloaderInterface {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LiveReloader{
		clients: make(map[string]*websocket.Conn),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		logger: logger,
	}
}

func (lr *LiveReloader) Handler(w http.ResponseWriter, r *http.Request) {
	conn, err := lr.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	id := uuid.NewString()
	lr.lock.Lock()
	lr.clients[id] = conn
	lr.lock.Unlock()
	lr.logger.Debug("live reload client connected", zap.String("client", id))

	go func() {
		defer func() {
			lr.lock.Lock()
			delete(lr.clients, id)
			lr.lock.Unlock()
			conn.Close()
			lr.logger.Debug("live reload client gone", zap.String("client", id))
		}()

		for {
			if _, _, err := conn.NextReader(); err != nil {
				break
			}
		}
	}()
}

func (lr *LiveReloader) BroadcastReload() {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	sent := 0
	for id, conn := range lr.clients {
		conn.SetWriteDeadline(time.Now().Add(reloadWriteTimeout))
		if err := conn.WriteMessage(websocket.TextMessage, []byte(reloadMessage)); err != nil {
			lr.logger.Debug("dropping live reload client", zap.String("client", id), zap.Error(err))
			conn.Close()
			delete(lr.clients, id)
			continue
		}
		sent++
	}
	lr.logger.Info("live reload broadcast", zap.Int("clients", sent))
}

func (lr *LiveReloader) ClientCount() int {
	lr.lock.Lock()
	defer lr.lock.Unlock()
	return len(lr.clients)
}
