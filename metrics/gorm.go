package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

const startTimeKey = "metrics:start_time"

// Callbacks times gorm operations per statement type and table.
type Callbacks struct {
	Namespace  string
	Subsystem  string
	Name       string
	InstanceID string
	Registerer prometheus.Registerer

	vector *prometheus.HistogramVec
}

// Register hooks the timers around every query, raw, create, update and delete.
func (c *Callbacks) Register(db *gorm.DB) error {
	labels := prometheus.Labels{"db_name": db.Name()}
	if c.InstanceID != "" {
		labels["instance_id"] = c.InstanceID
	}
	c.vector = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.Namespace,
		Subsystem:   c.Subsystem,
		Name:        c.Name,
		Help:        "database operation time by type and table",
		ConstLabels: labels,
		Buckets:     prometheus.DefBuckets,
	}, []string{"type", "table"})
	if err := c.Registerer.Register(c.vector); err != nil {
		return err
	}

	cb := db.Callback()
	steps := []func() error{
		func() error { return cb.Query().Before("*").Register("metrics_query_before", c.before) },
		func() error { return cb.Query().After("*").Register("metrics_query_after", c.after("query")) },
		func() error { return cb.Raw().Before("*").Register("metrics_raw_before", c.before) },
		func() error { return cb.Raw().After("*").Register("metrics_raw_after", c.after("raw")) },
		func() error { return cb.Create().Before("*").Register("metrics_create_before", c.before) },
		func() error { return cb.Create().After("*").Register("metrics_create_after", c.after("create")) },
		func() error { return cb.Update().Before("*").Register("metrics_update_before", c.before) },
		func() error { return cb.Update().After("*").Register("metrics_update_after", c.after("update")) },
		func() error { return cb.Delete().Before("*").Register("metrics_delete_before", c.before) },
		func() error { return cb.Delete().After("*").Register("metrics_delete_after", c.after("delete")) },
	}
	for _, register := range steps {
		if err := register(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Callbacks) before(db *gorm.DB) {
	db.InstanceSet(startTimeKey, time.Now())
}

func (c *Callbacks) after(typ string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		val, ok := db.InstanceGet(startTimeKey)
		if !ok {
			return
		}
		start, ok := val.(time.Time)
		if !ok {
			return
		}
		c.vector.WithLabelValues(typ, db.Statement.Table).Observe(time.Since(start).Seconds())
	}
}
