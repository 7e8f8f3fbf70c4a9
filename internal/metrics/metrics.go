// Package metrics exposes Prometheus metrics backed by database counts.
package metrics

import (
	"context"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/aviranmz/thedude/internal/db"
)

var (
	redirectsDesc = prometheus.NewDesc(
		"thedude_redirects_total",
		"Issued redirects by category",
		[]string{"type"},
		nil,
	)
	clicksDesc = prometheus.NewDesc(
		"thedude_redirect_clicks_total",
		"Consumed redirect clicks by category",
		[]string{"type"},
		nil,
	)
)

// ClickCollector is a custom Prometheus collector that reads redirect and
// click totals from the database on each scrape.
type ClickCollector struct {
	db *db.DB
}

// Describe sends the metric descriptors to the channel.
func (c *ClickCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- redirectsDesc
	ch <- clicksDesc
}

// Collect queries the database for per-category totals and emits them.
func (c *ClickCollector) Collect(ch chan<- prometheus.Metric) {
	totals, err := c.db.GetClickTotals(context.Background())
	if err != nil {
		log.Error().Err(err).Msg("failed to collect redirect click metrics")
		return
	}
	for _, t := range totals {
		ch <- prometheus.MustNewConstMetric(redirectsDesc, prometheus.CounterValue, float64(t.Redirects), string(t.Type))
		ch <- prometheus.MustNewConstMetric(clicksDesc, prometheus.CounterValue, float64(t.Clicks), string(t.Type))
	}
}

var initOnce sync.Once

// Init registers the custom collector. Must be called once at startup.
func Init(database *db.DB) {
	initOnce.Do(func() {
		prometheus.MustRegister(&ClickCollector{db: database})
	})
}
