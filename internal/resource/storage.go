package resource

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"raidctl/internal/raiderr"
	"raidctl/pkg/redfish"
)

// Storage is a planning-time view of one Redfish Storage resource: its
// controllers, and (lazily, via Drives/Volumes) the drives and volumes
// attached to it.
type Storage struct {
	raw  redfish.Storage
	etag string
}

// NewStorage wraps a decoded Redfish Storage body and the ETag it arrived with.
func NewStorage(raw redfish.Storage, etag string) *Storage {
	return &Storage{raw: raw, etag: etag}
}

func (s *Storage) ODataID() string        { return s.raw.ODataID }
func (s *Storage) ID() string             { return s.raw.ID }
func (s *Storage) Name() string           { return s.raw.Name }
func (s *Storage) ETagValue() string      { return s.etag }
func (s *Storage) VolumesODataID() string { return s.raw.Volumes.ODataID }

// Controllers returns the storage resource's embedded controller views.
func (s *Storage) Controllers() []*Controller {
	out := make([]*Controller, 0, len(s.raw.StorageControllers))
	for _, c := range s.raw.StorageControllers {
		out = append(out, newController(c, s.raw.ODataID, s.etag))
	}
	return out
}

// Matches reports whether hint equals this storage resource's id, its name,
// or its first controller's name. A null/empty hint never matches; callers
// decide the "single-controller no-hint" default for themselves.
func (s *Storage) Matches(hint string) bool {
	if hint == "" {
		return false
	}
	if strings.EqualFold(s.raw.ID, hint) || strings.EqualFold(s.raw.Name, hint) {
		return true
	}
	if len(s.raw.StorageControllers) > 0 && strings.EqualFold(s.raw.StorageControllers[0].Name, hint) {
		return true
	}
	return false
}

// FindController resolves the unique controller matching hint. An empty
// hint is legal only when the storage resource carries exactly one
// controller; a hint matching zero or more than one controller fails.
func (s *Storage) FindController(hint string) (*Controller, error) {
	all := s.Controllers()
	if hint == "" {
		if len(all) == 1 {
			return all[0], nil
		}
		return nil, raiderr.New(raiderr.KindControllerHintRequired,
			"storage resource has multiple controllers; a controller hint is required")
	}
	var matched []*Controller
	for _, c := range all {
		if c.Matches(hint) {
			matched = append(matched, c)
		}
	}
	if len(matched) != 1 {
		return nil, raiderr.New(raiderr.KindNoControllerMatchesHint,
			fmt.Sprintf("no single controller matches hint %q", hint))
	}
	return matched[0], nil
}

// Drives fetches and decodes every drive referenced by this storage
// resource's Drives array.
func (s *Storage) Drives(ctx context.Context, loader Loader) ([]*Drive, error) {
	out := make([]*Drive, 0, len(s.raw.Drives))
	for _, ref := range s.raw.Drives {
		var raw redfish.Drive
		etag, err := loader.Get(ctx, ref.ODataID, &raw)
		if err != nil {
			return nil, err
		}
		out = append(out, NewDrive(raw, etag))
	}
	return out, nil
}

// Volumes fetches the storage resource's Volumes collection and decodes
// every member.
func (s *Storage) Volumes(ctx context.Context, loader Loader) ([]*Volume, error) {
	if s.raw.Volumes.ODataID == "" {
		return nil, nil
	}
	var coll redfish.VolumeCollection
	if _, err := loader.Get(ctx, s.raw.Volumes.ODataID, &coll); err != nil {
		return nil, err
	}
	out := make([]*Volume, 0, len(coll.Members))
	for _, ref := range coll.Members {
		var raw redfish.Volume
		etag, err := loader.Get(ctx, ref.ODataID, &raw)
		if err != nil {
			return nil, err
		}
		out = append(out, NewVolume(raw, etag))
	}
	return out, nil
}

// Summary renders a short, human-readable description of the storage
// resource's capacity for logging.
func (s *Storage) Summary(ctx context.Context, loader Loader) (string, error) {
	drives, err := s.Drives(ctx, loader)
	if err != nil {
		return "", err
	}
	var total int64
	for _, d := range drives {
		total += d.CapacityBytes()
	}
	return fmt.Sprintf("%s: %d drives, %s total", s.raw.Name, len(drives), humanize.Bytes(uint64(total))), nil
}
