// Package raidctl is the public entry point for out-of-band RAID
// configuration of a single Redfish BMC: connect, enumerate storage
// controllers, and plan/apply/tear-down RAID volumes without the host OS
// ever coming up. The session plays a "one session, one BMC" role: no
// resource-specific operation can run before connect establishes it.
package raidctl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"raidctl/internal/ctxkeys"
	"raidctl/internal/planner"
	"raidctl/internal/raiderr"
	"raidctl/internal/resource"
	"raidctl/internal/transport"
	"raidctl/pkg/redfish"
)

// Config configures a session against one BMC.
type Config struct {
	Endpoint    string // e.g. https://10.0.0.5
	Username    string
	Password    string
	Vendor      string // free-form; tunes retry/backoff and labels metrics
	InsecureTLS bool
	Timeout     time.Duration
	Retries     int
	Logger      *slog.Logger
}

// Client is a connected session: it owns the Redfish transport and the
// Planner orchestrating RAID operations against the BMC's sole
// ComputerSystem.
type Client struct {
	transport *transport.Client
	planner   *planner.Planner
	logger    *slog.Logger
}

// Connect opens a Redfish session against cfg.Endpoint, discovers the
// service root, and resolves the resource id addressing Systems/{id} and
// Managers/{id} for the lifetime of the session.
func Connect(ctx context.Context, cfg Config) (*Client, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, correlationID := ctxkeys.EnsureCorrelationID(ctx)
	logger = logger.With("correlation_id", correlationID)

	tc, err := transport.New(transport.Config{
		Endpoint:    cfg.Endpoint,
		Username:    cfg.Username,
		Password:    cfg.Password,
		Vendor:      cfg.Vendor,
		InsecureTLS: cfg.InsecureTLS,
		Timeout:     cfg.Timeout,
		Retries:     cfg.Retries,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	if err := tc.Open(ctx); err != nil {
		return nil, err
	}
	if err := tc.Discover(ctx); err != nil {
		_ = tc.Close(ctx)
		return nil, err
	}
	resourceID, err := tc.ResourceID(ctx)
	if err != nil {
		_ = tc.Close(ctx)
		return nil, err
	}

	systemODataID := strings.TrimRight(tc.SystemsODataID(), "/") + "/" + resourceID
	return &Client{
		transport: tc,
		planner:   planner.New(tc, systemODataID, logger),
		logger:    logger,
	}, nil
}

// Close logs out of the BMC session, best-effort.
func (c *Client) Close(ctx context.Context) error {
	return c.transport.Close(ctx)
}

// ListStorage returns every Storage resource (and the Controller views
// hanging off each) attached to the session's ComputerSystem.
func (c *Client) ListStorage(ctx context.Context) ([]*resource.Storage, error) {
	return c.planner.ListStorage(ctx)
}

// Summarize renders a short, human-readable description of one Storage
// resource's drives (as returned by ListStorage).
func (c *Client) Summarize(ctx context.Context, storage *resource.Storage) (string, error) {
	return c.planner.StorageSummary(ctx, storage)
}

// DeleteAllRAIDConfiguration tears down every existing RAID volume on every
// out-of-band-capable controller and restores any drives left in a
// hot-spare or JBOD firmware state.
func (c *Client) DeleteAllRAIDConfiguration(ctx context.Context) error {
	return c.planner.DeleteAllRAIDConfiguration(ctx)
}

// LogicalDiskSpec is one unresolved logical-disk declaration supplied to
// ApplyRAIDConfiguration.
type LogicalDiskSpec = planner.LogicalDiskSpec

// ApplyRAIDConfiguration plans and creates the given logical disks across
// their resolved controllers, in the scheduling order of the seven
// processing cohorts.
func (c *Client) ApplyRAIDConfiguration(ctx context.Context, specs []LogicalDiskSpec) error {
	return c.planner.ApplyRAIDConfiguration(ctx, specs)
}

// Controller is a resolvable handle to one storage controller, exposing the
// supplemented operations (Restore, InitializeVolume, Summary) alongside the
// read-only resource.Controller view.
type Controller struct {
	*resource.Controller
	client *Client
}

// FindController resolves the controller matching hint across every Storage
// resource on the session's System (an empty hint requires exactly one
// controller to exist across all of them).
func (c *Client) FindController(ctx context.Context, hint string) (*Controller, error) {
	storages, err := c.ListStorage(ctx)
	if err != nil {
		return nil, err
	}
	var all []*resource.Controller
	for _, s := range storages {
		all = append(all, s.Controllers()...)
	}
	if len(all) == 0 {
		return nil, raiderr.New(raiderr.KindNoRaidControllerFound, "no RAID storage controller was found")
	}
	if hint == "" {
		if len(all) == 1 {
			return &Controller{Controller: all[0], client: c}, nil
		}
		return nil, raiderr.New(raiderr.KindControllerHintRequired,
			"multiple storage controllers are present; a controller hint is required")
	}
	for _, ctrl := range all {
		if ctrl.Matches(hint) {
			return &Controller{Controller: ctrl, client: c}, nil
		}
	}
	return nil, raiderr.New(raiderr.KindNoControllerMatchesHint, "no storage controller matches hint "+hint)
}

// Restore resets this controller's vendor-specific settings to factory
// defaults.
func (ctrl *Controller) Restore(ctx context.Context) error {
	return ctrl.client.planner.RestoreControllerDefaults(ctx, ctrl.Controller)
}

// InitializeVolume issues the Volume.Initialize action for volumeODataID
// using initType (redfish.VolumeInitTypeQuick/Full/Cancel).
func (ctrl *Controller) InitializeVolume(ctx context.Context, volumeODataID, initType string) error {
	return ctrl.client.planner.InitializeVolume(ctx, volumeODataID, initType)
}

// Summary renders this controller's parent storage resource as a short,
// human-readable description of its drives (count and total capacity;
// volumes are not included).
func (ctrl *Controller) Summary(ctx context.Context) (string, error) {
	var raw redfish.Storage
	etag, err := ctrl.client.transport.Get(ctx, ctrl.StorageODataID(), &raw)
	if err != nil {
		return "", err
	}
	storage := resource.NewStorage(raw, etag)
	return ctrl.client.planner.StorageSummary(ctx, storage)
}
