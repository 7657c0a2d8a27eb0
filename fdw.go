// Package fdw implements the adapter side of a Postgres foreign data wrapper:
// option validation, planning callbacks and the scan and modify session
// lifecycles. Access to the external source is delegated to a Backend.
package fdw

import (
	"context"
	"log"
	"sync"

	"github.com/gertd/go-pluralize"
	"github.com/turbot/pg-fdw/config"
	"github.com/turbot/pg-fdw/instrument"
	"github.com/turbot/pg-fdw/logging"
	"github.com/turbot/pg-fdw/options"
	"github.com/turbot/pg-fdw/settings"
	"github.com/turbot/pg-fdw/types"
)

// FDW is one registered adapter.
type FDW struct {
	backend  Backend
	settings *settings.PlannerSettings
	counters *instrument.Counters
	plural   *pluralize.Client

	scanMetadata []ScanMetadata
	metadataLock sync.Mutex

	telemetryShutdownFunc func(context.Context) error
}

// New returns an FDW using backend. A nil backend is replaced with NullBackend.
func New(backend Backend) *FDW {
	if backend == nil {
		backend = NullBackend{}
	}
	return &FDW{
		backend:  backend,
		settings: settings.NewPlannerSettings(),
		counters: instrument.NewCounters(),
		plural:   pluralize.NewClient(),
	}
}

// Start loads configuration from the environment, configures logging and
// telemetry, and returns an FDW using backend.
func Start(ctx context.Context, backend Backend) (*FDW, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg, nil)

	shutdown, err := instrument.InitTracing(ctx, cfg)
	if err != nil {
		return nil, err
	}
	f := New(backend)
	f.telemetryShutdownFunc = shutdown
	log.Printf("[INFO] fdw started, telemetry: %s", cfg.Telemetry)
	return f, nil
}

// Close shuts down telemetry.
func (f *FDW) Close(ctx context.Context) error {
	log.Println("[TRACE] fdw: close")
	if f.telemetryShutdownFunc == nil {
		return nil
	}
	log.Println("[TRACE] shutdown telemetry")
	return f.telemetryShutdownFunc(ctx)
}

// Validator is called for every CREATE or ALTER of a data wrapper, server,
// user mapping or foreign table which uses this adapter.
func (f *FDW) Validator(supplied []options.Supplied, objectContext options.Context) error {
	_, err := options.Validate(supplied, objectContext)
	return err
}

// tableOptions resolves rel's options for op. The options were validated
// when the table was created, so a failure here is logged and nil returned.
func tableOptions(op string, rel *types.Relation) *options.Set {
	opts, err := options.Validate(rel.Options, options.ContextTable)
	if err != nil {
		log.Printf("[WARN] %s: invalid options for %s: %s", op, rel.QualifiedName(), err)
		return nil
	}
	return opts
}

// ApplySetting applies a planner setting; value is json encoded.
func (f *FDW) ApplySetting(key, value string) error {
	log.Printf("[TRACE] ApplySetting %s => %s", key, value)
	return f.settings.Apply(key, value)
}
