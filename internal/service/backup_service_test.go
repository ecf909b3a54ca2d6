package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/entity"
	"chatroom-be/internal/mapper"
	"chatroom-be/internal/repository/memory"
	"chatroom-be/pkg/snapshot"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore keeps the snapshot blob in memory, standing in for redis or s3.
type memStore struct {
	mu   sync.Mutex
	blob []byte
}

func (m *memStore) Push(ctx context.Context, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.blob = append([]byte(nil), blob...)
	return nil
}

func (m *memStore) Pull(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.blob == nil {
		return nil, snapshot.ErrNotFound
	}
	return append([]byte(nil), m.blob...), nil
}

// nopLogger satisfies logger.ILogger without touching the filesystem.
type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error                                                  { return nil }

func newBackupFixture(t *testing.T, store snapshot.Store) (IBackupService, IPublisherService, *memory.AccountStore, *memory.MessageLog) {
	t.Helper()
	accounts := memory.NewAccountStore(time.Hour)
	log := memory.NewMessageLog(100)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	publisher := NewPublisherService("state.changed", pubSub)
	backup := NewBackupService(accounts, log, store, pubSub, "state.changed", 20*time.Millisecond, nopLogger{})
	return backup, publisher, accounts, log
}

func TestRestoreStartsEmptyWithoutSnapshot(t *testing.T) {
	backup, _, accounts, log := newBackupFixture(t, &memStore{})

	require.NoError(t, backup.Restore(context.Background()))
	assert.Equal(t, 0, log.Count())
	assert.Empty(t, accounts.SnapshotAccounts())
}

func TestRestoreToleratesCorruptBlob(t *testing.T) {
	store := &memStore{blob: []byte("not json at all")}
	backup, _, accounts, log := newBackupFixture(t, store)

	// A bad blob degrades to empty state, never an error.
	require.NoError(t, backup.Restore(context.Background()))
	assert.Equal(t, 0, log.Count())
	assert.Empty(t, accounts.SnapshotAccounts())
}

func TestRestoreRejectsVersionMismatch(t *testing.T) {
	envelope := dto.SnapshotEnvelope{
		Version: dto.EnvelopeVersion + 1,
		Id:      uuid.New(),
		TakenAt: time.Now(),
	}
	blob, err := json.Marshal(envelope)
	require.NoError(t, err)

	backup, _, accounts, _ := newBackupFixture(t, &memStore{blob: blob})
	require.NoError(t, backup.Restore(context.Background()))
	assert.Empty(t, accounts.SnapshotAccounts())
}

func TestRestoreLoadsEnvelope(t *testing.T) {
	envelope := dto.SnapshotEnvelope{
		Version: dto.EnvelopeVersion,
		Id:      uuid.New(),
		TakenAt: time.Now(),
		Accounts: mapper.ToSnapshotAccounts([]entity.Account{
			{Username: "alice", DisplayName: "Alice", Color: "#667eea", MessageCount: 2},
		}),
		Messages: mapper.ToSnapshotMessages([]entity.Message{
			{Id: 1, Username: "alice", Text: "hi", CreatedAt: time.Now()},
			{Id: 2, Username: "alice", Text: "again", CreatedAt: time.Now()},
		}),
	}
	blob, err := json.Marshal(envelope)
	require.NoError(t, err)

	backup, _, accounts, log := newBackupFixture(t, &memStore{blob: blob})
	require.NoError(t, backup.Restore(context.Background()))

	acc, err := accounts.FindAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, 2, acc.MessageCount)
	assert.Equal(t, 2, log.Count())
	assert.Equal(t, "again", log.Since(1)[0].Text)
}

func TestRunPushesAfterStateChange(t *testing.T) {
	store := &memStore{}
	backup, publisher, accounts, log := newBackupFixture(t, store)

	require.NoError(t, accounts.CreateAccount(entity.Account{Username: "alice", DisplayName: "Alice"}))
	log.Append(entity.Message{Username: "alice", Text: "hello", CreatedAt: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- backup.Run(ctx) }()

	// An engine event marks the state dirty; the next tick pushes. Publishing
	// inside the poll loop covers the window before the subscriber is up.
	require.Eventually(t, func() bool {
		require.NoError(t, publisher.Publish(ctx, testEvent{}))
		_, err := store.Pull(context.Background())
		return err == nil
	}, 2*time.Second, 25*time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	// Round trip: a second engine restores what the first pushed.
	backup2, _, accounts2, log2 := newBackupFixture(t, store)
	require.NoError(t, backup2.Restore(context.Background()))
	_, err := accounts2.FindAccount("alice")
	require.NoError(t, err)
	assert.Equal(t, 1, log2.Count())
}

// gatedStore blocks its first Push until released, holding the push window
// open so the test can mutate state while a snapshot is in flight.
type gatedStore struct {
	memStore
	inPush chan struct{}
	gate   chan struct{}
	once   sync.Once
}

func newGatedStore() *gatedStore {
	return &gatedStore{
		inPush: make(chan struct{}),
		gate:   make(chan struct{}),
	}
}

func (g *gatedStore) Push(ctx context.Context, blob []byte) error {
	g.once.Do(func() {
		close(g.inPush)
		<-g.gate
	})
	return g.memStore.Push(ctx, blob)
}

func TestMutationDuringPushIsCapturedNextTick(t *testing.T) {
	store := newGatedStore()
	backup, publisher, _, log := newBackupFixture(t, store)

	log.Append(entity.Message{Username: "alice", Text: "first", CreatedAt: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- backup.Run(ctx) }()

	// Dirty the state until the first push is underway.
	require.Eventually(t, func() bool {
		require.NoError(t, publisher.Publish(ctx, testEvent{}))
		select {
		case <-store.inPush:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// A message lands while the push is in flight, with its change event.
	// No further events follow, so only the re-marked flag can trigger the
	// next push.
	log.Append(entity.Message{Username: "alice", Text: "second", CreatedAt: time.Now()})
	require.NoError(t, publisher.Publish(ctx, testEvent{}))
	time.Sleep(100 * time.Millisecond)
	close(store.gate)

	require.Eventually(t, func() bool {
		blob, err := store.Pull(context.Background())
		if err != nil {
			return false
		}
		var env dto.SnapshotEnvelope
		if err := json.Unmarshal(blob, &env); err != nil {
			return false
		}
		return len(env.Messages) == 2
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

// flakyStore fails its first Push and succeeds afterwards.
type flakyStore struct {
	memStore
	failed    atomic.Bool
	attempted chan struct{}
}

func (f *flakyStore) Push(ctx context.Context, blob []byte) error {
	if f.failed.CompareAndSwap(false, true) {
		close(f.attempted)
		return errors.New("backend unavailable")
	}
	return f.memStore.Push(ctx, blob)
}

func TestFailedPushRetriesNextTick(t *testing.T) {
	store := &flakyStore{attempted: make(chan struct{})}
	backup, publisher, _, log := newBackupFixture(t, store)

	log.Append(entity.Message{Username: "alice", Text: "hello", CreatedAt: time.Now()})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- backup.Run(ctx) }()

	require.Eventually(t, func() bool {
		require.NoError(t, publisher.Publish(ctx, testEvent{}))
		select {
		case <-store.attempted:
			return true
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	// No events after the failure; the retained flag alone drives the retry.
	require.Eventually(t, func() bool {
		_, err := store.Pull(context.Background())
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

// testEvent is the minimal events.Event used to poke the bus.
type testEvent struct{}

func (testEvent) EventType() string               { return "TEST" }
func (testEvent) Payload() map[string]interface{} { return nil }
func (testEvent) Timestamp() time.Time            { return time.Now() }
