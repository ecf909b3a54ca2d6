// FILE: internal/service/backup_service.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"chatroom-be/internal/dto"
	"chatroom-be/internal/mapper"
	"chatroom-be/internal/pkg/logger"
	"chatroom-be/internal/repository/memory"
	"chatroom-be/pkg/snapshot"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IBackupService interface {
	// Restore is called once at startup, before serving traffic.
	Restore(ctx context.Context) error
	// Run drives the periodic snapshot loop until ctx is cancelled, then
	// attempts one final push.
	Run(ctx context.Context) error
}

// backupService is the durability gateway. It listens on the in-process bus
// to learn that state changed, and on every tick pushes a snapshot of the
// credential store and message log to the external blob store. Pushes happen
// entirely outside the stores' locks; a backend failure is logged and
// retried on the next tick, never surfaced to a chat operation.
type backupService struct {
	accounts  *memory.AccountStore
	log       *memory.MessageLog
	store     snapshot.Store
	pubSub    *gochannel.GoChannel
	topicName string
	interval  time.Duration
	logger    logger.ILogger
	dirty     atomic.Bool
}

func NewBackupService(
	accounts *memory.AccountStore,
	messageLog *memory.MessageLog,
	store snapshot.Store,
	pubSub *gochannel.GoChannel,
	topicName string,
	interval time.Duration,
	log logger.ILogger,
) IBackupService {
	return &backupService{
		accounts:  accounts,
		log:       messageLog,
		store:     store,
		pubSub:    pubSub,
		topicName: topicName,
		interval:  interval,
		logger:    log,
	}
}

func (s *backupService) Restore(ctx context.Context) error {
	if s.store == nil {
		s.logger.Info("Backup", "No snapshot store configured, starting empty", nil)
		return nil
	}

	pullCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	blob, err := s.store.Pull(pullCtx)
	if errors.Is(err, snapshot.ErrNotFound) {
		s.logger.Info("Backup", "No snapshot found, starting empty", nil)
		return nil
	}
	if err != nil {
		// Degrade to empty state rather than refusing to serve.
		s.logger.Warn("Backup", "Snapshot pull failed, starting empty", map[string]interface{}{"error": err.Error()})
		return nil
	}

	var envelope dto.SnapshotEnvelope
	if err := json.Unmarshal(blob, &envelope); err != nil {
		s.logger.Warn("Backup", "Snapshot blob is corrupt, starting empty", map[string]interface{}{"error": err.Error()})
		return nil
	}
	if envelope.Version != dto.EnvelopeVersion {
		s.logger.Warn("Backup", "Snapshot version mismatch, starting empty", map[string]interface{}{
			"got":  envelope.Version,
			"want": dto.EnvelopeVersion,
		})
		return nil
	}

	s.accounts.RestoreAccounts(mapper.FromSnapshotAccounts(envelope.Accounts))
	s.log.RestoreMessages(mapper.FromSnapshotMessages(envelope.Messages))

	s.logger.Info("Backup", "State restored from snapshot", map[string]interface{}{
		"snapshot_id": envelope.Id.String(),
		"taken_at":    envelope.TakenAt,
		"accounts":    len(envelope.Accounts),
		"messages":    len(envelope.Messages),
	})
	return nil
}

func (s *backupService) Run(ctx context.Context) error {
	if err := s.consume(ctx); err != nil {
		return err
	}

	if s.store == nil {
		<-ctx.Done()
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !s.dirty.Load() {
				continue
			}
			s.push(ctx)
		case <-ctx.Done():
			// Best-effort final snapshot on shutdown; the parent context is
			// already cancelled so use a fresh one.
			if s.dirty.Load() {
				finalCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				s.push(finalCtx)
				cancel()
			}
			return nil
		}
	}
}

// consume marks the state dirty whenever an engine event arrives.
func (s *backupService) consume(ctx context.Context) error {
	messages, err := s.pubSub.Subscribe(ctx, s.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			s.processMessage(msg)
		}
	}()

	return nil
}

func (s *backupService) processMessage(msg *message.Message) {
	s.dirty.Store(true)
	msg.Ack()
}

func (s *backupService) push(ctx context.Context) {
	// The flag is cleared before the copies are taken so a mutation landing
	// during the push window re-marks the state and gets the next tick.
	s.dirty.Store(false)

	// Snapshots are taken store by store: copy under one lock, release,
	// then copy under the other. The network call sees no lock at all.
	accounts := s.accounts.SnapshotAccounts()
	messages := s.log.SnapshotMessages()

	envelope := dto.SnapshotEnvelope{
		Version:  dto.EnvelopeVersion,
		Id:       uuid.New(),
		TakenAt:  time.Now(),
		Accounts: mapper.ToSnapshotAccounts(accounts),
		Messages: mapper.ToSnapshotMessages(messages),
	}

	blob, err := json.Marshal(envelope)
	if err != nil {
		s.dirty.Store(true)
		s.logger.Error("Backup", "Failed to marshal snapshot", map[string]interface{}{"error": err.Error()})
		return
	}

	pushCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := s.store.Push(pushCtx, blob); err != nil {
		// Re-mark so the next tick retries.
		s.dirty.Store(true)
		s.logger.Warn("Backup", "Snapshot push failed, will retry next tick", map[string]interface{}{"error": err.Error()})
		return
	}

	s.logger.Info("Backup", "Snapshot pushed", map[string]interface{}{
		"snapshot_id": envelope.Id.String(),
		"accounts":    len(accounts),
		"messages":    len(messages),
		"bytes":       len(blob),
	})
}
