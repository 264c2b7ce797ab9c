// Package store defines the optional document-store persistence boundary
// (spec §4.N "Persistence ... occurs only when the caller supplies a
// project identifier"). The document database itself is a named external
// collaborator, not part of this module's scope; InMemoryStore exists so
// the orchestrator has something to upsert into during tests and local
// runs, and FirestoreStub covers the GOOGLE_APPLICATION_CREDENTIALS case
// without pulling in a real Firestore client.
package store

import (
	"context"
	"sync"

	"github.com/go-logr/logr"

	"github.com/brajen/contentbrief/pkg/brief"
)

// BriefStore persists a Brief under a caller-supplied project identifier.
type BriefStore interface {
	Upsert(ctx context.Context, projectID string, b *brief.Brief) error
	Get(ctx context.Context, projectID string) (*brief.Brief, bool, error)
}

// InMemoryStore is the zero-configuration default BriefStore.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]*brief.Brief
}

// NewInMemoryStore builds an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{data: map[string]*brief.Brief{}}
}

func (s *InMemoryStore) Upsert(ctx context.Context, projectID string, b *brief.Brief) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[projectID] = b
	return nil
}

func (s *InMemoryStore) Get(ctx context.Context, projectID string) (*brief.Brief, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.data[projectID]
	return b, ok, nil
}

// FirestoreStub stands in for the real document store named in spec §1 and
// §9: when GOOGLE_APPLICATION_CREDENTIALS is set the operator has declared
// intent to use it, but this module doesn't carry a Firestore client, so
// Upsert/Get log and no-op rather than fail the request.
type FirestoreStub struct {
	Logger logr.Logger
}

// NewFirestoreStub builds a FirestoreStub that logs through logger.
func NewFirestoreStub(logger logr.Logger) *FirestoreStub {
	return &FirestoreStub{Logger: logger}
}

func (s *FirestoreStub) Upsert(ctx context.Context, projectID string, b *brief.Brief) error {
	s.Logger.Info("firestore persistence not configured, dropping upsert", "project_id", projectID)
	return nil
}

func (s *FirestoreStub) Get(ctx context.Context, projectID string) (*brief.Brief, bool, error) {
	s.Logger.Info("firestore persistence not configured, reporting miss", "project_id", projectID)
	return nil, false, nil
}
