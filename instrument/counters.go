package instrument

import (
	"context"
	"log"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Counters are the adapter's metric instruments.
type Counters struct {
	scans        metric.Int64Counter
	rowsReturned metric.Int64Counter
	rowsInserted metric.Int64Counter
}

// NewCounters creates the counters from the global MeterProvider.
// Instrument creation errors are logged and leave a no-op counter in place.
func NewCounters() *Counters {
	meter := otel.GetMeterProvider().Meter(TracerName)
	return &Counters{
		scans:        int64Counter(meter, "scans_total", "Number of foreign scans begun"),
		rowsReturned: int64Counter(meter, "rows_returned_total", "Number of rows returned by foreign scans"),
		rowsInserted: int64Counter(meter, "rows_inserted_total", "Number of rows inserted through foreign modify"),
	}
}

func int64Counter(meter metric.Meter, name, description string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		log.Printf("[WARN] failed to create counter %s: %s", name, err)
		c, _ = noop.NewMeterProvider().Meter(TracerName).Int64Counter(name)
	}
	return c
}

func (c *Counters) ScanBegun(ctx context.Context, relation string) {
	c.scans.Add(ctx, 1, metric.WithAttributes(attribute.String("relation", relation)))
}

func (c *Counters) RowsReturned(ctx context.Context, relation string, n int64) {
	if n == 0 {
		return
	}
	c.rowsReturned.Add(ctx, n, metric.WithAttributes(attribute.String("relation", relation)))
}

func (c *Counters) RowInserted(ctx context.Context, relation string) {
	c.rowsInserted.Add(ctx, 1, metric.WithAttributes(attribute.String("relation", relation)))
}
