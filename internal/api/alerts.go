package api

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/vitals-triage-server/internal/domain"
)

const (
	alertWriteWait  = 10 * time.Second
	alertPongWait   = 60 * time.Second
	alertPingPeriod = 50 * time.Second

	// A subscriber that cannot drain this many pending alerts is dropped.
	alertSendBuffer = 16
)

// AlertEvent is the wire envelope pushed to websocket subscribers when an
// assessment classifies as CRITICAL.
type AlertEvent struct {
	Type       string                     `json:"type"`
	Assessment *domain.SeverityAssessment `json:"assessment"`
	EmittedAt  time.Time                  `json:"emittedAt"`
}

// AlertHub fans critical assessments out to websocket subscribers. Slow
// subscribers are disconnected rather than allowed to block publication.
type AlertHub struct {
	logger   *logrus.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*alertSubscriber]struct{}
}

type alertSubscriber struct {
	conn *websocket.Conn
	send chan AlertEvent
}

// NewAlertHub creates an alert hub with no subscribers.
func NewAlertHub(logger *logrus.Logger) *AlertHub {
	return &AlertHub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*alertSubscriber]struct{}),
	}
}

// PublishAlert broadcasts a critical assessment to all subscribers. Delivery
// is best effort; publication never blocks the assessment path. Sends happen
// under the same lock that closes subscriber channels, so a concurrent
// disconnect can never turn a send into a send on a closed channel. The
// sends are non-blocking, keeping the critical section short.
func (h *AlertHub) PublishAlert(assessment *domain.SeverityAssessment) {
	event := AlertEvent{
		Type:       "critical_assessment",
		Assessment: assessment,
		EmittedAt:  time.Now().UTC(),
	}

	h.mu.Lock()
	delivered := 0
	dropped := 0
	for sub := range h.subscribers {
		select {
		case sub.send <- event:
			delivered++
		default:
			delete(h.subscribers, sub)
			close(sub.send)
			dropped++
		}
	}
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"assessment_id": assessment.ID,
		"subscribers":   delivered,
		"dropped":       dropped,
	}).Info("Critical alert published")
}

// SubscriberCount returns the number of active websocket subscribers.
func (h *AlertHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *AlertHub) Close() {
	h.mu.Lock()
	subscribers := make([]*alertSubscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subscribers = append(subscribers, sub)
	}
	h.subscribers = make(map[*alertSubscriber]struct{})
	h.mu.Unlock()

	for _, sub := range subscribers {
		close(sub.send)
	}
}

func (h *AlertHub) add(sub *alertSubscriber) {
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()
}

func (h *AlertHub) remove(sub *alertSubscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; ok {
		delete(h.subscribers, sub)
		close(sub.send)
	}
	h.mu.Unlock()
}

// handleAlertStream upgrades the connection and streams critical alerts
// until the client disconnects.
func (s *Server) handleAlertStream(c *gin.Context) {
	conn, err := s.alerts.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.WithError(err).Warn("Websocket upgrade failed")
		return
	}

	sub := &alertSubscriber{
		conn: conn,
		send: make(chan AlertEvent, alertSendBuffer),
	}
	s.alerts.add(sub)

	s.logger.WithField("remote_addr", conn.RemoteAddr().String()).
		Info("Alert subscriber connected")

	go s.alerts.writePump(sub)
	s.alerts.readPump(sub)
}

// readPump discards inbound frames and detects disconnects.
func (h *AlertHub) readPump(sub *alertSubscriber) {
	defer func() {
		h.remove(sub)
		sub.conn.Close()
	}()

	sub.conn.SetReadLimit(512)
	_ = sub.conn.SetReadDeadline(time.Now().Add(alertPongWait))
	sub.conn.SetPongHandler(func(string) error {
		return sub.conn.SetReadDeadline(time.Now().Add(alertPongWait))
	})

	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.WithError(err).Debug("Alert subscriber read error")
			}
			return
		}
	}
}

// writePump delivers queued alerts and keepalive pings to one subscriber.
func (h *AlertHub) writePump(sub *alertSubscriber) {
	ticker := time.NewTicker(alertPingPeriod)
	defer func() {
		ticker.Stop()
		sub.conn.Close()
	}()

	for {
		select {
		case event, ok := <-sub.send:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if !ok {
				_ = sub.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := sub.conn.WriteJSON(event); err != nil {
				h.logger.WithError(err).Debug("Alert subscriber write error")
				return
			}
		case <-ticker.C:
			_ = sub.conn.SetWriteDeadline(time.Now().Add(alertWriteWait))
			if err := sub.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
