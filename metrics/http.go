// Package metrics exposes HTTP and database timings to Prometheus. All
// collectors register on the Registerer they are given; nothing touches the
// global default registry.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Builder describes the metric names shared by the HTTP middlewares.
type Builder struct {
	Namespace string
	Subsystem string
	// Name prefixes every metric, e.g. "http" gives http_resp_seconds.
	Name       string
	InstanceID string
	Registerer prometheus.Registerer
}

// ResponseTime observes the duration of every request, labelled by method,
// route pattern and status. Unmatched routes are reported with an empty pattern.
func (b *Builder) ResponseTime() (gin.HandlerFunc, error) {
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_resp_seconds",
		Help:        "HTTP response time by method, route pattern and status",
		ConstLabels: b.constLabels(),
		Buckets:     prometheus.DefBuckets,
	}, []string{"method", "pattern", "status"})
	if err := b.Registerer.Register(vec); err != nil {
		return nil, err
	}

	return func(ctx *gin.Context) {
		start := time.Now()
		defer func() {
			vec.WithLabelValues(ctx.Request.Method, ctx.FullPath(), strconv.Itoa(ctx.Writer.Status())).
				Observe(time.Since(start).Seconds())
		}()
		ctx.Next()
	}, nil
}

// ActiveRequests tracks requests currently being served.
func (b *Builder) ActiveRequests() (gin.HandlerFunc, error) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   b.Namespace,
		Subsystem:   b.Subsystem,
		Name:        b.Name + "_active_req",
		Help:        "HTTP requests in flight",
		ConstLabels: b.constLabels(),
	})
	if err := b.Registerer.Register(gauge); err != nil {
		return nil, err
	}

	return func(ctx *gin.Context) {
		gauge.Inc()
		defer gauge.Dec()
		ctx.Next()
	}, nil
}

func (b *Builder) constLabels() prometheus.Labels {
	if b.InstanceID == "" {
		return nil
	}
	return prometheus.Labels{"instance_id": b.InstanceID}
}

// Handler serves the exposition format for the given gatherer.
func Handler(g prometheus.Gatherer) gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(g, promhttp.HandlerOpts{}))
}
