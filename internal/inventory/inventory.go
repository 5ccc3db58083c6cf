// Package inventory is the reclaimer's view of the cloud provider: list
// snapshots, volumes and running instances, and delete snapshots.
package inventory

import (
	"context"
	"errors"

	"github.com/aws/smithy-go"

	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// ErrNotFound is wrapped by DeleteSnapshot and ListVolumes when the
// referenced resource does not exist.
var ErrNotFound = errors.New("resource not found")

// Client is the capability set the reclaimer needs from the provider.
type Client interface {
	ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error)
	ListRunningInstances(ctx context.Context) ([]snapshot.Instance, error)
	// ListVolumes returns all volumes, or only those in ids when given.
	ListVolumes(ctx context.Context, ids ...string) ([]snapshot.Volume, error)
	DeleteSnapshot(ctx context.Context, id string) error
}

// ErrorClass buckets delete failures for logs and metrics.
type ErrorClass string

const (
	ClassNone         ErrorClass = ""
	ClassNotFound     ErrorClass = "not-found"
	ClassUnauthorized ErrorClass = "unauthorized"
	ClassThrottled    ErrorClass = "throttled"
	ClassInUse        ErrorClass = "in-use"
	ClassMalformed    ErrorClass = "malformed"
	ClassOther        ErrorClass = "other"
)

var apiCodeClass = map[string]ErrorClass{
	"InvalidSnapshot.NotFound":    ClassNotFound,
	"InvalidVolume.NotFound":      ClassNotFound,
	"UnauthorizedOperation":       ClassUnauthorized,
	"AuthFailure":                 ClassUnauthorized,
	"AccessDenied":                ClassUnauthorized,
	"RequestLimitExceeded":        ClassThrottled,
	"Throttling":                  ClassThrottled,
	"ThrottlingException":         ClassThrottled,
	"InvalidSnapshot.InUse":       ClassInUse,
	"InvalidSnapshotID.Malformed": ClassMalformed,
	"InvalidParameterValue":       ClassMalformed,
}

// Classify maps an error to its class. ErrNotFound and provider
// not-found codes both map to ClassNotFound.
func Classify(err error) ErrorClass {
	if err == nil {
		return ClassNone
	}
	if errors.Is(err, ErrNotFound) {
		return ClassNotFound
	}
	var ae smithy.APIError
	if errors.As(err, &ae) {
		if c, ok := apiCodeClass[ae.ErrorCode()]; ok {
			return c
		}
	}
	return ClassOther
}

// IsNotFound reports whether err means the resource is already gone.
func IsNotFound(err error) bool {
	return Classify(err) == ClassNotFound
}
