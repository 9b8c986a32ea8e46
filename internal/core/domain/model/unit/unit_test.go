package unit_test

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"tracking/internal/core/domain/model/kernel"
	"tracking/internal/core/domain/model/unit"
	"tracking/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRecord(t *testing.T, status unit.Status, ts time.Time) unit.CheckpointRecord {
	t.Helper()
	record, err := unit.NewCheckpointRecord(status, ts, unit.RecordDetails{})
	require.NoError(t, err)
	return record
}

func newUnitAt(t *testing.T, trackingID string, start time.Time) *unit.Unit {
	t.Helper()
	u, err := unit.NewUnitFromRecord(kernel.MustTrackingID(trackingID), mustRecord(t, unit.Created, start))
	require.NoError(t, err)
	return u
}

func assertInvariants(t *testing.T, u *unit.Unit) {
	t.Helper()
	records := u.Checkpoints()
	require.NotEmpty(t, records)
	assert.Equal(t, records[len(records)-1].Status(), u.CurrentStatus())
	for i := 1; i < len(records); i++ {
		assert.True(t, records[i-1].Status().CanTransition(records[i].Status()))
		assert.True(t, records[i].Timestamp().After(records[i-1].Timestamp()))
	}
}

func TestNewUnit(t *testing.T) {
	t.Run("should start in CREATED with one record", func(t *testing.T) {
		u, err := unit.NewUnit(kernel.MustTrackingID("TEST123"), unit.Created)

		require.NoError(t, err)
		require.NoError(t, u.Validate())
		require.NoError(t, u.ID().Validate())
		assert.Equal(t, "TEST123", u.TrackingID().String())
		assert.Equal(t, unit.Created, u.CurrentStatus())
		assert.Len(t, u.Checkpoints(), 1)
		assert.True(t, u.IsNew())
		assert.Len(t, u.PendingCheckpoints(), 1)
		assert.Equal(t, int64(0), u.Version())
		assert.False(t, u.IsDelivered())
		assert.False(t, u.HasException())
	})

	t.Run("should honor a non-default initial status", func(t *testing.T) {
		u, err := unit.NewUnit(kernel.MustTrackingID("TEST124"), unit.AtFacility)

		require.NoError(t, err)
		assert.Equal(t, unit.AtFacility, u.CurrentStatus())
	})

	t.Run("should reject invalid inputs", func(t *testing.T) {
		u, err := unit.NewUnit(kernel.TrackingID{}, unit.Unknown)

		require.Error(t, err)
		assert.Nil(t, u)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUnit_AddCheckpoint_PickedUpAfterCreated(t *testing.T) {
	u, err := unit.NewUnit(kernel.MustTrackingID("TEST123"), unit.Created)
	require.NoError(t, err)
	time.Sleep(time.Millisecond)

	err = u.AddCheckpoint(mustRecord(t, unit.PickedUp, time.Now()))

	require.NoError(t, err)
	assert.Equal(t, unit.PickedUp, u.CurrentStatus())
	assert.Len(t, u.Checkpoints(), 2)
	assertInvariants(t, u)
}

func TestUnit_AddCheckpoint_DirectDeliveryRejected(t *testing.T) {
	u := newUnitAt(t, "TEST123", time.Now().Add(-time.Hour))

	err := u.AddCheckpoint(mustRecord(t, unit.Delivered, time.Now()))

	require.ErrorIs(t, err, unit.ErrInvalidTransition)
	var transitionErr *unit.InvalidTransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, unit.Created, transitionErr.From)
	assert.Equal(t, unit.Delivered, transitionErr.To)
	assert.Contains(t, err.Error(), "CREATED")
	assert.Contains(t, err.Error(), "DELIVERED")
	assert.Equal(t, unit.Created, u.CurrentStatus())
	assert.Len(t, u.Checkpoints(), 1)
}

func TestUnit_AddCheckpoint_EarlierTimestampRejected(t *testing.T) {
	now := time.Now()
	u := newUnitAt(t, "TEST123", now.Add(-3*time.Hour))
	require.NoError(t, u.AddCheckpoint(mustRecord(t, unit.PickedUp, now)))

	err := u.AddCheckpoint(mustRecord(t, unit.InTransit, now.Add(-time.Hour)))

	require.ErrorIs(t, err, unit.ErrOutOfOrderTimestamp)
	var orderErr *unit.OutOfOrderTimestampError
	require.ErrorAs(t, err, &orderErr)
	assert.True(t, orderErr.Last.Equal(now.UTC().Truncate(time.Microsecond)))
	assert.Equal(t, unit.PickedUp, u.CurrentStatus())
	assert.Len(t, u.Checkpoints(), 2)
}

func TestUnit_AddCheckpoint_EqualTimestampIsOutOfOrder(t *testing.T) {
	ts := time.Now().Add(-time.Minute)
	u := newUnitAt(t, "TEST123", ts)

	err := u.AddCheckpoint(mustRecord(t, unit.PickedUp, ts))

	require.ErrorIs(t, err, unit.ErrOutOfOrderTimestamp)
}

func TestUnit_AddCheckpoint_TransitionCheckedBeforeOrdering(t *testing.T) {
	ts := time.Now().Add(-time.Minute)
	u := newUnitAt(t, "TEST123", ts)

	err := u.AddCheckpoint(mustRecord(t, unit.Delivered, ts.Add(-time.Hour)))

	require.ErrorIs(t, err, unit.ErrInvalidTransition)
	assert.False(t, errors.Is(err, unit.ErrOutOfOrderTimestamp))
}

func TestUnit_FullDeliveryPath(t *testing.T) {
	start := time.Now().Add(-10 * time.Hour)
	u := newUnitAt(t, "TEST123", start)

	path := []unit.Status{unit.PickedUp, unit.InTransit, unit.OutForDelivery, unit.Delivered}
	var deliveredAt time.Time
	for i, status := range path {
		ts := start.Add(time.Duration(i+1) * time.Hour)
		require.NoError(t, u.AddCheckpoint(mustRecord(t, status, ts)))
		deliveredAt = ts
	}

	assert.True(t, u.IsDelivered())
	deliveryTime, ok := u.DeliveryTime()
	require.True(t, ok)
	assert.True(t, deliveryTime.Equal(deliveredAt.UTC().Truncate(time.Microsecond)))
	assertInvariants(t, u)

	for _, status := range unit.AllStatuses() {
		err := u.AddCheckpoint(mustRecord(t, status, start.Add(9*time.Hour)))
		require.ErrorIs(t, err, unit.ErrInvalidTransition, status.String())
	}
	assert.Len(t, u.Checkpoints(), 5)
}

func TestUnit_ExceptionRecovery(t *testing.T) {
	start := time.Now().Add(-5 * time.Hour)
	u := newUnitAt(t, "TEST123", start)

	require.NoError(t, u.AddCheckpoint(mustRecord(t, unit.Exception, start.Add(time.Hour))))
	assert.True(t, u.HasException())

	require.NoError(t, u.AddCheckpoint(mustRecord(t, unit.AtFacility, start.Add(2*time.Hour))))
	assert.False(t, u.HasException())
	assert.Equal(t, unit.AtFacility, u.CurrentStatus())
}

func TestUnit_DeliveryTimeAbsent(t *testing.T) {
	u := newUnitAt(t, "TEST123", time.Now().Add(-time.Hour))

	_, ok := u.DeliveryTime()

	assert.False(t, ok)
}

func TestUnit_RandomWalkKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	start := time.Now().Add(-1000 * time.Hour)

	for walk := 0; walk < 50; walk++ {
		u := newUnitAt(t, "WALK-001", start)
		ts := start
		for step := 0; step < 20; step++ {
			ts = ts.Add(time.Minute)
			candidate := unit.AllStatuses()[rng.Intn(len(unit.AllStatuses()))]
			err := u.AddCheckpoint(mustRecord(t, candidate, ts))
			if err != nil {
				require.ErrorIs(t, err, unit.ErrInvalidTransition)
			}
			assertInvariants(t, u)
		}
	}
}

func TestUnit_CheckpointsAreCopies(t *testing.T) {
	u := newUnitAt(t, "TEST123", time.Now().Add(-time.Hour))

	records := u.Checkpoints()
	records[0] = mustRecord(t, unit.Exception, time.Now().Add(-time.Minute))

	assert.Equal(t, unit.Created, u.Checkpoints()[0].Status())
}

func TestNewBootstrapUnit(t *testing.T) {
	trackingID := kernel.MustTrackingID("NEW999")
	ts := time.Now().Add(-time.Minute)

	t.Run("should synthesize CREATED just before a non-CREATED record", func(t *testing.T) {
		incoming := mustRecord(t, unit.PickedUp, ts)

		u, err := unit.NewBootstrapUnit(trackingID, incoming)
		require.NoError(t, err)

		assert.Equal(t, unit.Created, u.CurrentStatus())
		assert.True(t, u.LastCheckpoint().Timestamp().Before(incoming.Timestamp()))
		assert.Equal(t, time.Microsecond, incoming.Timestamp().Sub(u.LastCheckpoint().Timestamp()))

		require.NoError(t, u.AddCheckpoint(incoming))
		assert.Equal(t, unit.PickedUp, u.CurrentStatus())
		assert.Len(t, u.PendingCheckpoints(), 2)
		assertInvariants(t, u)
	})

	t.Run("should create from a CREATED record directly", func(t *testing.T) {
		incoming, err := unit.NewCheckpointRecord(unit.Created, ts, unit.RecordDetails{Location: "Origin"})
		require.NoError(t, err)

		u, err := unit.NewBootstrapUnit(trackingID, incoming)
		require.NoError(t, err)

		assert.Len(t, u.Checkpoints(), 1)
		assert.True(t, u.LastCheckpoint().Equal(incoming))
	})

	t.Run("should leave unreachable statuses to the transition check", func(t *testing.T) {
		incoming := mustRecord(t, unit.Delivered, ts)

		u, err := unit.NewBootstrapUnit(trackingID, incoming)
		require.NoError(t, err)

		require.ErrorIs(t, u.AddCheckpoint(incoming), unit.ErrInvalidTransition)
	})

	t.Run("should reject zero-value record", func(t *testing.T) {
		_, err := unit.NewBootstrapUnit(trackingID, unit.CheckpointRecord{})

		require.ErrorIs(t, err, unit.ErrCheckpointRecordIsNotConstructed)
	})
}

func TestRestoreUnit(t *testing.T) {
	id := kernel.NewUUID()
	trackingID := kernel.MustTrackingID("TEST123")
	start := time.Now().Add(-time.Hour)
	created := mustRecord(t, unit.Created, start)
	picked := mustRecord(t, unit.PickedUp, start.Add(time.Minute))

	t.Run("should derive status from the last record", func(t *testing.T) {
		u, err := unit.RestoreUnit(id, trackingID, start, start, 3, []unit.CheckpointRecord{created, picked})

		require.NoError(t, err)
		assert.True(t, u.ID().IsEqual(id))
		assert.Equal(t, unit.PickedUp, u.CurrentStatus())
		assert.Equal(t, int64(3), u.Version())
		assert.False(t, u.IsNew())
		assert.Empty(t, u.PendingCheckpoints())
	})

	t.Run("should track records appended after restore", func(t *testing.T) {
		u, err := unit.RestoreUnit(id, trackingID, start, start, 1, []unit.CheckpointRecord{created, picked})
		require.NoError(t, err)

		require.NoError(t, u.AddCheckpoint(mustRecord(t, unit.InTransit, start.Add(2*time.Minute))))

		pending := u.PendingCheckpoints()
		require.Len(t, pending, 1)
		assert.Equal(t, unit.InTransit, pending[0].Status())
	})

	t.Run("should reject an empty ledger", func(t *testing.T) {
		_, err := unit.RestoreUnit(id, trackingID, start, start, 1, nil)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject a corrupted ledger", func(t *testing.T) {
		_, err := unit.RestoreUnit(id, trackingID, start, start, 1, []unit.CheckpointRecord{picked, created})

		require.ErrorIs(t, err, unit.ErrInvalidTransition)
	})
}

func TestUnit_ZeroValue(t *testing.T) {
	var nilUnit *unit.Unit
	assert.Equal(t, unit.ErrUnitIsNotConstructed, nilUnit.Validate())

	err := (&unit.Unit{}).AddCheckpoint(mustRecord(t, unit.PickedUp, time.Now()))
	require.ErrorIs(t, err, unit.ErrUnitIsNotConstructed)
}
