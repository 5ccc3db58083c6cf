package inventory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/raoulx24/snapshot-reclaimer/internal/snapshot"
)

// Memory is an in-process Client. Deletes mutate its state, so repeated
// runs against the same Memory observe earlier deletions.
type Memory struct {
	mu        sync.Mutex
	snapshots map[string]snapshot.Snapshot
	volumes   map[string]snapshot.Volume
	instances map[string]snapshot.Instance

	// DeleteErrs forces DeleteSnapshot to fail for the given ids.
	DeleteErrs map[string]error
	// ListErr, when set, is returned by every List call.
	ListErr error

	deleteCalls []string
}

// NewMemory seeds a Memory inventory.
func NewMemory(snaps []snapshot.Snapshot, volumes []snapshot.Volume, instances []snapshot.Instance) *Memory {
	m := &Memory{
		snapshots:  make(map[string]snapshot.Snapshot, len(snaps)),
		volumes:    make(map[string]snapshot.Volume, len(volumes)),
		instances:  make(map[string]snapshot.Instance, len(instances)),
		DeleteErrs: map[string]error{},
	}
	for _, s := range snaps {
		m.snapshots[s.ID] = s
	}
	for _, v := range volumes {
		m.volumes[v.ID] = v
	}
	for _, i := range instances {
		m.instances[i.ID] = i
	}
	return m
}

func (m *Memory) ListSnapshots(ctx context.Context) ([]snapshot.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	out := make([]snapshot.Snapshot, 0, len(m.snapshots))
	for _, s := range m.snapshots {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListRunningInstances(ctx context.Context) ([]snapshot.Instance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var out []snapshot.Instance
	for _, i := range m.instances {
		if i.Running() {
			out = append(out, i)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) ListVolumes(ctx context.Context, ids ...string) ([]snapshot.Volume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	if len(ids) > 0 {
		out := make([]snapshot.Volume, 0, len(ids))
		for _, id := range ids {
			v, ok := m.volumes[id]
			if !ok {
				return nil, fmt.Errorf("volume %s: %w", id, ErrNotFound)
			}
			out = append(out, v)
		}
		return out, nil
	}
	out := make([]snapshot.Volume, 0, len(m.volumes))
	for _, v := range m.volumes {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) DeleteSnapshot(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, id)
	if err, ok := m.DeleteErrs[id]; ok {
		return err
	}
	if _, ok := m.snapshots[id]; !ok {
		return fmt.Errorf("snapshot %s: %w", id, ErrNotFound)
	}
	delete(m.snapshots, id)
	return nil
}

// RemoveSnapshot drops a snapshot without recording a delete call, as an
// external actor would.
func (m *Memory) RemoveSnapshot(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.snapshots, id)
}

// DeleteCalls returns the ids passed to DeleteSnapshot, in call order.
func (m *Memory) DeleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleteCalls...)
}

// ResetCalls clears the recorded delete calls.
func (m *Memory) ResetCalls() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = nil
}

var _ Client = (*Memory)(nil)
