package planner

import (
	"context"
	"log/slog"
	"time"

	"raidctl/internal/metrics"
	"raidctl/internal/raiderr"
	"raidctl/internal/resource"
	"raidctl/pkg/redfish"
)

// StorageReadyPollInterval is the delay between storage-readiness polls.
const StorageReadyPollInterval = 30 * time.Second

// SettleWait is the fixed pause between volume-creation submissions that lets
// the BMC publish updated state before the next request is issued.
const SettleWait = 20 * time.Second

// Transport is the subset of *transport.Client the planner depends on. Duck
// typed so tests can supply an in-memory fake without importing the
// concrete transport package.
type Transport interface {
	resource.Loader
	Post(ctx context.Context, odataID string, body, out interface{}) (taskLocation string, err error)
	Patch(ctx context.Context, odataID, etag string, body interface{}) error
	Delete(ctx context.Context, odataID, etag string) (taskLocation string, err error)
}

// Planner orchestrates the RAID configuration pipeline against one Redfish
// System.
type Planner struct {
	transport     Transport
	systemODataID string
	logger        *slog.Logger
}

// New constructs a Planner addressing the System at systemODataID (e.g.
// "/redfish/v1/Systems/1").
func New(transport Transport, systemODataID string, logger *slog.Logger) *Planner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Planner{transport: transport, systemODataID: systemODataID, logger: logger}
}

func (p *Planner) loadSystem(ctx context.Context) (*resource.System, error) {
	var raw redfish.System
	etag, err := p.transport.Get(ctx, p.systemODataID, &raw)
	if err != nil {
		return nil, err
	}
	return resource.NewSystem(raw, etag), nil
}

// ListStorage returns every Storage resource attached to the planner's
// System, fully decoded.
func (p *Planner) ListStorage(ctx context.Context) ([]*resource.Storage, error) {
	sys, err := p.loadSystem(ctx)
	if err != nil {
		return nil, err
	}
	if sys.StorageODataID() == "" {
		return nil, nil
	}

	var coll redfish.StorageCollection
	if _, err := p.transport.Get(ctx, sys.StorageODataID(), &coll); err != nil {
		return nil, err
	}

	out := make([]*resource.Storage, 0, len(coll.Members))
	for _, ref := range coll.Members {
		var raw redfish.Storage
		etag, err := p.transport.Get(ctx, ref.ODataID, &raw)
		if err != nil {
			return nil, err
		}
		out = append(out, resource.NewStorage(raw, etag))
	}
	return out, nil
}

// waitStorageReady polls System.Oem.Huawei.StorageConfigReady every
// StorageReadyPollInterval until it reports 1, or returns immediately if the
// controller never reports the attribute at all (feature unsupported).
func (p *Planner) waitStorageReady(ctx context.Context) error {
	start := time.Now()
	defer func() { metrics.ObserveProvisioningPhase(metrics.PhaseStorageReadyGate, time.Since(start)) }()

	ticker := time.NewTicker(StorageReadyPollInterval)
	defer ticker.Stop()

	for {
		sys, err := p.loadSystem(ctx)
		if err != nil {
			return err
		}
		value, present := sys.StorageConfigReadyState()
		if !present {
			return nil
		}
		if value == 1 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Planner) waitTask(ctx context.Context, taskODataID string) (redfish.Task, error) {
	start := time.Now()
	defer func() { metrics.ObserveProvisioningPhase(metrics.PhaseTaskWait, time.Since(start)) }()
	return resource.WaitTask(ctx, p.transport, taskODataID)
}

func (p *Planner) sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// taskCreatedODataID extracts the oData id of a just-created resource from a
// completed Task's first message argument.
func taskCreatedODataID(t redfish.Task) (string, error) {
	if len(t.Messages) == 0 || len(t.Messages[0].Args) == 0 {
		return "", raiderr.New(raiderr.KindMalformedAttribute,
			"task "+t.ID+" completed without a created-resource message argument")
	}
	return t.Messages[0].Args[0], nil
}
