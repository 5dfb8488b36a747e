package telemetry

import (
	"context"
	"errors"

	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/metric"
)

const ledgerMeterName = "farm-backend/ledger"

// LedgerMetrics records stock ledger adjustments and bulk removal outcomes.
// It satisfies stock.AdjustmentRecorder and the bulk outcome recorder used
// by the application services.
type LedgerMetrics struct {
	adjustments      *Counter
	rejections       *Counter
	adjustedQuantity *Histogram
	bulkRequests     *Counter
	bulkItems        *Counter
}

// NewLedgerMetrics creates the ledger instruments on the given meter.
func NewLedgerMetrics(meter metric.Meter) (*LedgerMetrics, error) {
	adjustments, err := NewCounter(meter,
		"stock_adjustments_total",
		"Stock ledger adjustments applied",
		"{adjustment}",
	)
	if err != nil {
		return nil, err
	}

	rejections, err := NewCounter(meter,
		"stock_adjustments_rejected_total",
		"Stock ledger adjustments rejected, by error code",
		"{adjustment}",
	)
	if err != nil {
		return nil, err
	}

	adjustedQuantity, err := NewHistogram(meter, HistogramOpts{
		Name:        "stock_adjustment_quantity",
		Description: "Canonical quantity moved by a single adjustment",
		Unit:        "1",
		Boundaries:  QuantityBuckets,
	})
	if err != nil {
		return nil, err
	}

	bulkRequests, err := NewCounter(meter,
		"bulk_removals_total",
		"Bulk removal requests, by outcome status",
		"{request}",
	)
	if err != nil {
		return nil, err
	}

	bulkItems, err := NewCounter(meter,
		"bulk_removal_items_total",
		"Identifiers processed by bulk removals, by outcome",
		"{item}",
	)
	if err != nil {
		return nil, err
	}

	return &LedgerMetrics{
		adjustments:      adjustments,
		rejections:       rejections,
		adjustedQuantity: adjustedQuantity,
		bulkRequests:     bulkRequests,
		bulkItems:        bulkItems,
	}, nil
}

// NewLedgerMetricsFromProvider creates the ledger instruments on the provider's meter.
func NewLedgerMetricsFromProvider(mp *MeterProvider) (*LedgerMetrics, error) {
	return NewLedgerMetrics(mp.Meter(ledgerMeterName))
}

// RecordAdjustment counts one ledger adjustment. A non-nil err counts as a
// rejection labelled with its domain error code.
func (m *LedgerMetrics) RecordAdjustment(ctx context.Context, kind stock.ResourceKind, direction stock.Direction, canonical decimal.Decimal, err error) {
	if err != nil {
		m.rejections.Inc(ctx,
			AttrResourceKind.String(string(kind)),
			AttrDirection.String(string(direction)),
			AttrErrorCode.String(errorCode(err)),
		)
		return
	}
	m.adjustments.Inc(ctx,
		AttrResourceKind.String(string(kind)),
		AttrDirection.String(string(direction)),
	)
	m.adjustedQuantity.Record(ctx, canonical.InexactFloat64(),
		AttrResourceKind.String(string(kind)),
		AttrDirection.String(string(direction)),
	)
}

// RecordBulkOutcome counts one bulk removal and its per-id results.
func (m *LedgerMetrics) RecordBulkOutcome(ctx context.Context, aggregateType string, outcome *bulk.Outcome) {
	if outcome == nil {
		return
	}
	m.bulkRequests.Inc(ctx,
		AttrAggregateType.String(aggregateType),
		AttrOutcome.String(string(outcome.Status())),
	)
	if n := len(outcome.Success); n > 0 {
		m.bulkItems.Add(ctx, int64(n), AttrAggregateType.String(aggregateType), AttrOutcome.String("success"))
	}
	if n := len(outcome.Failed); n > 0 {
		m.bulkItems.Add(ctx, int64(n), AttrAggregateType.String(aggregateType), AttrOutcome.String("failed"))
	}
}

func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return "INTERNAL"
}
