// Package raiderr defines the tagged-variant error type shared by the
// transport, resource, RAID algebra, and planner packages.
//
// Every failure across connection setup, HTTP classification, RAID
// validation, and disk selection is one struct with a Kind, so callers
// pattern-match with errors.As/errors.Is instead of walking a class
// hierarchy.
package raiderr

import (
	"errors"
	"fmt"
)

// Kind classifies a raidctl error. Values line up with the error taxonomy.
type Kind string

const (
	// Transport errors.
	KindConnectionFailure Kind = "connection_failure"
	KindBadRequest        Kind = "bad_request"
	KindResourceNotFound  Kind = "resource_not_found"
	KindAccessDenied      Kind = "access_denied"
	KindServerError       Kind = "server_error"
	KindHTTPOther         Kind = "http_other"
	KindMissingAuthToken  Kind = "missing_auth_token"

	// Resource errors.
	KindMissingAttribute   Kind = "missing_attribute"
	KindMalformedAttribute Kind = "malformed_attribute"
	KindMissingAction      Kind = "missing_action"
	KindFeatureNotSupported Kind = "feature_not_supported"

	// Validation errors.
	KindNotSupportedRaidLevel   Kind = "not_supported_raid_level"
	KindInvalidPhysicalDiskNum  Kind = "invalid_physical_disk_number"
	KindInvalidLogicalDiskCfg   Kind = "invalid_logical_disk_config"
	KindNoRaidControllerFound   Kind = "no_raid_controller_found"
	KindControllerHintRequired  Kind = "controller_hint_required"
	KindNoControllerMatchesHint Kind = "no_controller_matches_hint"
	KindNoDriveMatchesHint      Kind = "no_drive_matches_hint"
	KindControllerNotSupportOOB Kind = "controller_not_support_oob"

	// Selection errors.
	KindLackOfDiskSpace               Kind = "lack_of_disk_space"
	KindSpecifiedDisksHasNotEnoughSpace Kind = "specified_disks_has_not_enough_space"
	KindNotSuitablePhysicalDiskGroup  Kind = "not_suitable_physical_disk_group"

	// Task errors.
	KindTaskFailed Kind = "task_failed"
)

// Error is the single error type raised across the module. It carries a
// Kind for programmatic matching and an optional wrapped cause.
type Error struct {
	kind    Kind
	message string
	cause   error
}

func New(kind Kind, message string) *Error {
	return &Error{kind: kind, message: message}
}

func Wrap(kind Kind, message string, cause error) *Error {
	return &Error{kind: kind, message: message, cause: cause}
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

func (e *Error) Kind() Kind { return e.kind }

func (e *Error) Unwrap() error { return e.cause }

// Is reports whether err is a *Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.kind == kind
	}
	return false
}
