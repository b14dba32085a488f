package inventory

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/wolfman30/smart-hospital/internal/observability/metrics"
	"github.com/wolfman30/smart-hospital/internal/store"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

const (
	// DefaultThreshold is the shortage threshold when none is configured.
	DefaultThreshold = 5
	// DefaultUnits seeds every blood group when the document is empty.
	DefaultUnits = 10
)

// DocumentStore is the part of store.Store the engine needs.
type DocumentStore interface {
	Load(ctx context.Context, name string) []json.RawMessage
	Save(ctx context.Context, name string, records any) bool
}

// Config tunes an Engine. Nil or empty fields take the package defaults;
// a threshold of 0 is honoured and flags only negative counts.
type Config struct {
	Threshold    *int
	DefaultUnits *int
	Document     string
	Logger       *logging.Logger
	Metrics      *metrics.InventoryMetrics
}

type resolvedConfig struct {
	threshold    int
	defaultUnits int
	document     string
	logger       *logging.Logger
	metrics      *metrics.InventoryMetrics
}

func (c Config) resolve() resolvedConfig {
	r := resolvedConfig{
		threshold:    DefaultThreshold,
		defaultUnits: DefaultUnits,
		document:     c.Document,
		logger:       c.Logger,
		metrics:      c.Metrics,
	}
	if c.Threshold != nil {
		r.threshold = *c.Threshold
	}
	if c.DefaultUnits != nil {
		r.defaultUnits = *c.DefaultUnits
	}
	if r.document == "" {
		r.document = store.Inventory
	}
	if r.logger == nil {
		r.logger = logging.Default()
	}
	return r
}

// StockLevel is a read-only view of one blood group.
type StockLevel struct {
	BloodGroup BloodType `json:"blood_group"`
	Units      int       `json:"units"`
	Low        bool      `json:"low"`
}

// Engine holds the unit counts loaded from one read of the inventory
// document. It is not safe for concurrent use; build one per interaction.
type Engine struct {
	store     DocumentStore
	document  string
	threshold int
	counts    [vocabularySize]int
	shape     Shape
	logger    *logging.Logger
	metrics   *metrics.InventoryMetrics
}

// NewEngine loads the inventory document and normalises it. An empty document
// is seeded with cfg.DefaultUnits per group and saved immediately; a legacy
// array is converted on the next save. It fails only with ErrUnrecognizedShape.
func NewEngine(ctx context.Context, st DocumentStore, cfg Config) (*Engine, error) {
	if st == nil {
		panic("inventory: document store required")
	}
	rc := cfg.resolve()

	doc, err := parseDocument(st.Load(ctx, rc.document), rc.logger)
	if err != nil {
		rc.logger.Error("inventory: cannot load stock", "document", rc.document, "error", err)
		return nil, err
	}

	e := &Engine{
		store:     st,
		document:  rc.document,
		threshold: rc.threshold,
		counts:    doc.counts(rc.defaultUnits),
		shape:     doc.shape(),
		logger:    rc.logger,
		metrics:   rc.metrics,
	}
	if e.shape == ShapeEmpty {
		if !e.save(ctx) {
			e.logger.Warn("inventory: default stock not saved", "document", e.document)
		}
	}
	e.publish()
	return e, nil
}

// Shape reports which stored layout the engine was loaded from.
func (e *Engine) Shape() Shape { return e.shape }

// Threshold returns the shortage threshold.
func (e *Engine) Threshold() int { return e.threshold }

// Units returns the count for bt.
func (e *Engine) Units(bt BloodType) (int, bool) {
	i, ok := vocabularyIndex[bt]
	if !ok {
		return 0, false
	}
	return e.counts[i], true
}

// Levels returns every blood group in vocabulary order.
func (e *Engine) Levels() []StockLevel {
	out := make([]StockLevel, vocabularySize)
	for i, bt := range vocabulary {
		out[i] = StockLevel{BloodGroup: bt, Units: e.counts[i], Low: e.counts[i] < e.threshold}
	}
	return out
}

// LowStock returns the blood groups whose count is below the threshold, in
// vocabulary order.
func (e *Engine) LowStock() []BloodType {
	out := []BloodType{}
	for i, bt := range vocabulary {
		if e.counts[i] < e.threshold {
			out = append(out, bt)
		}
	}
	return out
}

// UpdateStock adds delta to bloodType's count and saves the whole document.
// Counts are not clamped. An unknown blood type changes nothing and returns
// ErrUnknownBloodType; a failed save keeps the in-memory change and returns
// ErrNotPersisted. Both are logged.
func (e *Engine) UpdateStock(ctx context.Context, bloodType string, delta int) error {
	bt, ok := ParseBloodType(bloodType)
	if !ok {
		e.logger.Error("inventory: unknown blood type", "blood_group", bloodType)
		e.metrics.ObserveUpdate("unknown_type")
		return fmt.Errorf("%w %q", ErrUnknownBloodType, bloodType)
	}
	i := vocabularyIndex[bt]
	e.counts[i] += delta
	if e.counts[i] < 0 {
		e.logger.Warn("inventory: stock below zero", "blood_group", bt, "units", e.counts[i])
	}
	e.publish()

	if !e.save(ctx) {
		e.metrics.ObserveUpdate("not_persisted")
		return fmt.Errorf("%w: %s", ErrNotPersisted, bt)
	}
	e.metrics.ObserveUpdate("ok")
	e.logger.Info("inventory: stock updated", "blood_group", bt, "delta", delta, "units", e.counts[i])
	return nil
}

// Persist writes the current counts in canonical form. cmd/migrate uses it to
// convert a legacy document without changing any count.
func (e *Engine) Persist(ctx context.Context) error {
	if !e.save(ctx) {
		return fmt.Errorf("%w: %s", ErrNotPersisted, e.document)
	}
	e.shape = ShapeCanonical
	return nil
}

// Records returns the canonical records for the current counts.
func (e *Engine) Records() []StockRecord {
	out := make([]StockRecord, vocabularySize)
	for i, bt := range vocabulary {
		out[i] = StockRecord{BloodGroup: bt, Units: e.counts[i]}
	}
	return out
}

func (e *Engine) save(ctx context.Context) bool {
	return e.store.Save(ctx, e.document, e.Records())
}

func (e *Engine) publish() {
	if e.metrics == nil {
		return
	}
	for _, lvl := range e.Levels() {
		e.metrics.SetLevel(lvl.BloodGroup.String(), lvl.Units, lvl.Low)
	}
}

// NewlyLow returns the groups in after that were not in before.
func NewlyLow(before, after []BloodType) []BloodType {
	seen := make(map[BloodType]struct{}, len(before))
	for _, bt := range before {
		seen[bt] = struct{}{}
	}
	var out []BloodType
	for _, bt := range after {
		if _, ok := seen[bt]; !ok {
			out = append(out, bt)
		}
	}
	return out
}
