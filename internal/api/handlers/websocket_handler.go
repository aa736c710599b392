package handlers

import (
	"time"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/loadbroker/backend/internal/metrics"
	"github.com/loadbroker/backend/pkg/logger"
)

// writeTimeout bounds each snapshot push so a stalled client cannot block
// the stream loop forever.
const writeTimeout = 10 * time.Second

// metricsConn is the subset of *websocket.Conn the stream loop needs.
type metricsConn interface {
	WriteJSON(v interface{}) error
	SetWriteDeadline(t time.Time) error
}

// MetricsStreamHandler pushes aggregator snapshots to websocket subscribers
// on a fixed interval, so dashboards do not have to poll.
type MetricsStreamHandler struct {
	aggregator *metrics.Aggregator
	interval   time.Duration
}

func NewMetricsStreamHandler(aggregator *metrics.Aggregator, interval time.Duration) *MetricsStreamHandler {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &MetricsStreamHandler{
		aggregator: aggregator,
		interval:   interval,
	}
}

func (h *MetricsStreamHandler) HandleConnection(c *websocket.Conn) {
	logger.Info("Metrics stream connected", zap.String("remote", c.RemoteAddr().String()))

	defer func() {
		c.Close()
		logger.Info("Metrics stream closed", zap.String("remote", c.RemoteAddr().String()))
	}()

	h.stream(c)
}

func (h *MetricsStreamHandler) stream(c metricsConn) {
	if err := h.push(c); err != nil {
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for range ticker.C {
		if err := h.push(c); err != nil {
			return
		}
	}
}

func (h *MetricsStreamHandler) push(c metricsConn) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		return err
	}
	return c.WriteJSON(h.aggregator.Snapshot())
}
