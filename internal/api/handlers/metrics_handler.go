package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/loadbroker/backend/internal/metrics"
)

type MetricsHandler struct {
	aggregator *metrics.Aggregator
	apiKey     string
}

func NewMetricsHandler(aggregator *metrics.Aggregator, apiKey string) *MetricsHandler {
	return &MetricsHandler{
		aggregator: aggregator,
		apiKey:     apiKey,
	}
}

func (h *MetricsHandler) GetMetrics(c *fiber.Ctx) error {
	return c.JSON(h.aggregator.Snapshot())
}

const dashboardHTML = `<!doctype html><meta charset="utf-8">
<title>Inbound Metrics</title>
<style>body{font-family:system-ui;margin:2rem} pre{background:#f6f6f6;padding:1rem;border-radius:8px}</style>
<h1>Inbound Metrics</h1>
<pre id="m">Loading...</pre>
<script>
function refresh() {
  fetch('/metrics',{headers:{'x-api-key':'__API_KEY__'}})
    .then(r=>r.json())
    .then(j=>{ document.getElementById('m').textContent = JSON.stringify(j,null,2) })
    .catch(e=>{ document.getElementById('m').textContent = 'Error: '+e });
}
refresh();
setInterval(refresh, 5000);
</script>
`

func (h *MetricsHandler) Dashboard(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/html; charset=utf-8")
	return c.SendString(strings.Replace(dashboardHTML, "__API_KEY__", h.apiKey, 1))
}
