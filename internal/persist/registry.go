// Package persist saves selected state slices and seeds new containers
// with their last saved values.
package persist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jask/appshell/internal/database/repository"
	"github.com/jask/appshell/internal/store"
)

// SnapshotStore is the storage behind the registry.
type SnapshotStore interface {
	List(ctx context.Context) ([]repository.Snapshot, error)
	Upsert(ctx context.Context, key string, value []byte) (string, error)
}

type slice struct {
	decode func([]byte) (any, error)
}

// Registry tracks which state keys are persisted.
type Registry struct {
	mu      sync.Mutex
	repo    SnapshotStore
	slices  map[string]slice
	saved   map[string][]byte
	timeout time.Duration
	log     logrus.FieldLogger
}

func NewRegistry(repo SnapshotStore, log logrus.FieldLogger) *Registry {
	if log == nil {
		l := logrus.New()
		l.SetLevel(logrus.PanicLevel)
		log = l
	}
	return &Registry{
		repo:    repo,
		slices:  map[string]slice{},
		saved:   map[string][]byte{},
		timeout: 2 * time.Second,
		log:     log,
	}
}

// Register marks key as persisted with values of type T.
func Register[T any](r *Registry, key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.slices[key] = slice{decode: func(data []byte) (any, error) {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return nil, err
		}
		return v, nil
	}}
}

// Keys returns the registered keys.
func (r *Registry) Keys() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.slices))
	for k := range r.slices {
		keys = append(keys, k)
	}
	return keys
}

// PersistedState returns the last saved value of every registered slice.
// Storage errors are logged and yield whatever could be read.
func (r *Registry) PersistedState() store.State {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	state, err := r.Load(ctx)
	if err != nil {
		r.log.WithError(err).Warn("persisted state unavailable, starting fresh")
	}
	return state
}

// Load reads every registered slice from storage.
func (r *Registry) Load(ctx context.Context) (store.State, error) {
	state := store.State{}
	if r.repo == nil {
		return state, nil
	}
	snaps, err := r.repo.List(ctx)
	if err != nil {
		return state, fmt.Errorf("list snapshots: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, snap := range snaps {
		sl, ok := r.slices[snap.Key]
		if !ok {
			continue
		}
		v, err := sl.decode(snap.Value)
		if err != nil {
			r.log.WithError(err).WithField("key", snap.Key).Warn("dropping unreadable snapshot")
			continue
		}
		state[snap.Key] = v
		r.saved[snap.Key] = snap.Value
	}
	return state, nil
}

// Persist writes every registered slice whose encoding changed since it
// was last loaded or saved.
func (r *Registry) Persist(ctx context.Context, state store.State) error {
	if r.repo == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.slices {
		v, ok := state[key]
		if !ok {
			continue
		}
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if bytes.Equal(data, r.saved[key]) {
			continue
		}
		rev, err := r.repo.Upsert(ctx, key, data)
		if err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
		r.saved[key] = data
		r.log.WithFields(logrus.Fields{"key": key, "revision": rev}).Debug("state persisted")
	}
	return nil
}

// Attach registers a state listener that persists on every change of a
// registered slice.
func (r *Registry) Attach(listeners *store.ListenerRegistry) {
	listeners.Register(func(s store.State) any {
		r.mu.Lock()
		defer r.mu.Unlock()
		selected := make(map[string]any, len(r.slices))
		for k := range r.slices {
			if v, ok := s[k]; ok {
				selected[k] = v
			}
		}
		return selected
	}, func(_ any, api store.API, _ any) {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.Persist(ctx, api.GetState()); err != nil {
			r.log.WithError(err).Warn("persist state")
		}
	})
}
