package directory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtledger-backend/internal/directory"
	"courtledger-backend/internal/domain"
	"courtledger-backend/internal/repository"
)

// fakeSource feeds snapshots through a channel the test controls and
// closes it when the subscription context is canceled.
type fakeSource struct {
	snaps chan repository.UserSnapshot
	err   error
}

func newFakeSource() *fakeSource {
	return &fakeSource{snaps: make(chan repository.UserSnapshot)}
}

func (f *fakeSource) Watch(ctx context.Context) (<-chan repository.UserSnapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make(chan repository.UserSnapshot)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-f.snaps:
				if !ok {
					return
				}
				out <- snap
			}
		}
	}()
	return out, nil
}

func waitForUsers(t *testing.T, d *directory.Directory, n int) []domain.User {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		users := d.CurrentUsers()
		if len(users) == n {
			return users
		}
		select {
		case <-deadline:
			t.Fatalf("directory never reached %d users, have %d", n, len(d.CurrentUsers()))
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestDirectory_ReplacesSnapshotWholesale(t *testing.T) {
	source := newFakeSource()
	d := directory.New(source)
	require.NoError(t, d.Subscribe(context.Background()))
	defer d.Teardown()

	source.snaps <- repository.UserSnapshot{Users: []domain.User{
		{ID: "u1", Name: "Alice", BalanceCents: 5000},
		{ID: "u2", Name: "Bob", BalanceCents: -200},
	}}
	waitForUsers(t, d, 2)

	u, ok := d.Lookup("u2")
	require.True(t, ok)
	assert.Equal(t, "Bob", u.Name)
	assert.Equal(t, int64(-200), u.BalanceCents)

	// The next snapshot is a full replacement, not a merge.
	source.snaps <- repository.UserSnapshot{Users: []domain.User{
		{ID: "u2", Name: "Bob", BalanceCents: 800},
	}}
	waitForUsers(t, d, 1)

	_, ok = d.Lookup("u1")
	assert.False(t, ok, "removed user must disappear from the snapshot")
	u, _ = d.Lookup("u2")
	assert.Equal(t, int64(800), u.BalanceCents)
}

func TestDirectory_KeepsLastGoodSnapshotOnWatchError(t *testing.T) {
	source := newFakeSource()
	d := directory.New(source)
	require.NoError(t, d.Subscribe(context.Background()))
	defer d.Teardown()

	source.snaps <- repository.UserSnapshot{Users: []domain.User{{ID: "u1", Name: "Alice"}}}
	waitForUsers(t, d, 1)

	watchErr := errors.New("stream reset")
	source.snaps <- repository.UserSnapshot{Err: watchErr}

	require.Eventually(t, func() bool {
		return d.LastError() != nil
	}, 2*time.Second, 5*time.Millisecond)

	users := d.CurrentUsers()
	require.Len(t, users, 1, "stale snapshot must keep serving")
	assert.Equal(t, "Alice", users[0].Name)
	assert.ErrorIs(t, d.LastError(), watchErr)

	// Recovery clears the recorded error.
	source.snaps <- repository.UserSnapshot{Users: []domain.User{
		{ID: "u1", Name: "Alice"},
		{ID: "u3", Name: "Carol"},
	}}
	waitForUsers(t, d, 2)
	assert.NoError(t, d.LastError())
}

func TestDirectory_NotifiesObservers(t *testing.T) {
	source := newFakeSource()
	d := directory.New(source)

	seen := make(chan []domain.User, 1)
	d.OnChange(func(users []domain.User) { seen <- users })

	require.NoError(t, d.Subscribe(context.Background()))
	defer d.Teardown()

	source.snaps <- repository.UserSnapshot{Users: []domain.User{{ID: "u1", Name: "Alice"}}}

	select {
	case users := <-seen:
		require.Len(t, users, 1)
		assert.Equal(t, "u1", users[0].ID)
	case <-time.After(2 * time.Second):
		t.Fatal("observer was never notified")
	}
}

func TestDirectory_SubscribeFailsWhenWatchFails(t *testing.T) {
	source := newFakeSource()
	source.err = errors.New("store unavailable")

	d := directory.New(source)
	err := d.Subscribe(context.Background())
	assert.ErrorIs(t, err, source.err)
}

func TestDirectory_TeardownIsIdempotent(t *testing.T) {
	source := newFakeSource()
	d := directory.New(source)
	require.NoError(t, d.Subscribe(context.Background()))

	source.snaps <- repository.UserSnapshot{Users: []domain.User{{ID: "u1"}}}
	waitForUsers(t, d, 1)

	d.Teardown()
	d.Teardown()

	// The last snapshot stays readable after teardown.
	assert.Len(t, d.CurrentUsers(), 1)
}
