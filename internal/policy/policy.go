// Package policy decides whether a snapshot is safe to reclaim.
package policy

import (
	"time"

	"github.com/raoulx24/snapshot-reclaimer/internal/config"
	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// Reason names the rule that produced a decision. Values are stable and
// used as metric labels.
type Reason string

const (
	ReasonNoVolume           Reason = "no-volume"
	ReasonVolumeNotFound     Reason = "volume-not-found"
	ReasonVolumeUnattached   Reason = "volume-unattached"
	ReasonAttachedNotRunning Reason = "attached-not-running"
	ReasonVolumeAttached     Reason = "volume-attached"
	ReasonLookupFailed       Reason = "volume-lookup-failed"
	ReasonProtectedTag       Reason = "protected-tag"
	ReasonTooYoung           Reason = "too-young"
)

// Describe returns the human readable form used in log lines.
func (r Reason) Describe() string {
	switch r {
	case ReasonNoVolume:
		return "not attached to any volume"
	case ReasonVolumeNotFound:
		return "volume not found"
	case ReasonVolumeUnattached:
		return "volume not attached to any instance"
	case ReasonAttachedNotRunning:
		return "volume attached only to instances that are not running"
	case ReasonVolumeAttached:
		return "volume attached"
	case ReasonLookupFailed:
		return "volume lookup failed"
	case ReasonProtectedTag:
		return "protected by tag"
	case ReasonTooYoung:
		return "younger than minimum age"
	default:
		return string(r)
	}
}

// Decision is the classification of one snapshot.
type Decision struct {
	Eligible bool
	Reason   Reason
}

func eligible(r Reason) Decision { return Decision{Eligible: true, Reason: r} }
func keep(r Reason) Decision     { return Decision{Reason: r} }

// Lookup is the read side of the inventory the policy needs.
// *snapshot.Inventory satisfies it.
type Lookup interface {
	LookupVolume(id string) snapshot.VolumeLookup
	IsRunning(instanceID string) bool
}

// Policy holds the rule set. The zero value applies only the volume rules.
type Policy struct {
	requireRunning bool
	protectTags    map[string]string
	minAge         time.Duration
	now            func() time.Time
}

// New builds a policy from configuration.
func New(cfg config.PolicyConfig) *Policy {
	return &Policy{
		requireRunning: cfg.RequireRunningAttachment,
		protectTags:    cfg.ProtectTags,
		minAge:         cfg.MinAge,
		now:            time.Now,
	}
}

// Classify evaluates the rules in order; the first match wins.
// It only reads from inv and never calls out.
func (p *Policy) Classify(snap snapshot.Snapshot, inv Lookup) Decision {
	if p.isProtected(snap) {
		return keep(ReasonProtectedTag)
	}
	if p.tooYoung(snap) {
		return keep(ReasonTooYoung)
	}

	if !snap.HasVolume() {
		return eligible(ReasonNoVolume)
	}

	res := inv.LookupVolume(snap.VolumeID)
	switch res.Status {
	case snapshot.VolumeNotFound:
		return eligible(ReasonVolumeNotFound)
	case snapshot.VolumeFound:
		// fall through to attachment checks
	default:
		return keep(ReasonLookupFailed)
	}

	if !res.Volume.Attached() {
		return eligible(ReasonVolumeUnattached)
	}

	if p.requireRunning && !anyRunning(res.Volume, inv) {
		return eligible(ReasonAttachedNotRunning)
	}
	return keep(ReasonVolumeAttached)
}

func anyRunning(v snapshot.Volume, inv Lookup) bool {
	for _, a := range v.Attachments {
		if inv.IsRunning(a.InstanceID) {
			return true
		}
	}
	return false
}

func (p *Policy) isProtected(snap snapshot.Snapshot) bool {
	for k, want := range p.protectTags {
		got, ok := snap.Tags[k]
		if ok && (want == "" || want == got) {
			return true
		}
	}
	return false
}

func (p *Policy) tooYoung(snap snapshot.Snapshot) bool {
	if p.minAge <= 0 || snap.StartTime.IsZero() {
		return false
	}
	now := time.Now
	if p.now != nil {
		now = p.now
	}
	return now().Sub(snap.StartTime) < p.minAge
}
