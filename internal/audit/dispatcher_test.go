package audit

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu     sync.Mutex
	events []Event
	fail   bool
}

func (s *memStore) Log(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return errors.New("db down")
	}
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	store := &memStore{}
	d := NewDispatcher(store)

	d.Dispatch(Event{AccountID: 1, Action: ActionAppointmentCreated, Entity: EntityAppointment, EntityID: Ptr(5)})
	d.Dispatch(Event{AccountID: 1, Action: ActionAppointmentDeleted, Entity: EntityAppointment})
	d.Close()

	require.Len(t, store.events, 2)
	assert.Equal(t, ActionAppointmentCreated, store.events[0].Action)
	assert.Equal(t, uint(5), *store.events[0].EntityID)
}

func TestDispatcherSurvivesStoreErrors(t *testing.T) {
	store := &memStore{fail: true}
	d := NewDispatcher(store)

	d.Dispatch(Event{Action: ActionAppointmentUpdated})
	d.Close()
	d.Close()

	assert.Empty(t, store.events)
}

func TestPtr(t *testing.T) {
	assert.Nil(t, Ptr(0))
	assert.Equal(t, uint(3), *Ptr(3))
}
