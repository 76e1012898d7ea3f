// README: Concurrency tests for competing resolutions.
package request

import (
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Under the strict policy, concurrent accept/reject decisions on one
// request must produce exactly one winner; everyone else sees
// ErrInvalidTransition.
func TestResolveConcurrentStrict(t *testing.T) {
	svc, _ := newTestService(PolicyStrict)
	ctx := context.Background()
	id := mustCreate(t, svc, "h1")

	decisions := []Status{
		StatusAccepted, StatusRejected, StatusAccepted,
		StatusRejected, StatusAccepted, StatusRejected,
	}
	errs := make(chan error, len(decisions))
	start := make(chan struct{})
	var wg sync.WaitGroup

	for _, d := range decisions {
		wg.Add(1)
		go func(decision Status) {
			defer wg.Done()
			<-start
			errs <- svc.Resolve(ctx, ResolveCommand{RequestID: id, Decision: decision})
		}(d)
	}

	close(start)
	wg.Wait()
	close(errs)

	success := 0
	for err := range errs {
		if err == nil {
			success++
		} else {
			assert.ErrorIs(t, err, ErrInvalidTransition)
		}
	}
	assert.Equal(t, 1, success, "exactly one decision must win")

	got, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.NotEqual(t, StatusPending, got.Status)
}

// Concurrent creates against different hospitals are independent units of
// work and must all land as pending rows.
func TestCreateConcurrent(t *testing.T) {
	store := newMemStore()
	svc := NewService(store, PolicyStrict, zerolog.Nop())
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, CreateCommand{
				PatientType:   "Serious",
				EmergencyType: "Accident",
				HospitalID:    "h1",
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	counts, err := svc.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, n, counts.Pending)
}
