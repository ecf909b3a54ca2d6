// FILE: internal/repository/memory/message_log.go
package memory

import (
	"sort"
	"sync"

	"chatroom-be/internal/entity"
)

// MessageLog is the append-only, capacity-bounded chat history. Ids are
// assigned max+1 under the lock; once the cap is exceeded the oldest entries
// are dropped and the survivors are renumbered 1..N in order. Renumbering is
// part of the observable contract, so a "since" bookmark can silently skip or
// repeat messages across a truncation.
type MessageLog struct {
	mu       sync.Mutex
	messages []entity.Message
	cap      int
}

func NewMessageLog(capacity int) *MessageLog {
	if capacity <= 0 {
		capacity = 100
	}
	return &MessageLog{cap: capacity}
}

// Append stores the message under the next id and returns it as assigned.
// The returned id is the one handed to the poster even when the append
// itself pushed the log over the cap and triggered a renumber, matching the
// behavior clients already depend on.
func (l *MessageLog) Append(msg entity.Message) entity.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	var maxID int64
	for _, m := range l.messages {
		if m.Id > maxID {
			maxID = m.Id
		}
	}
	msg.Id = maxID + 1
	l.messages = append(l.messages, msg)

	if len(l.messages) > l.cap {
		l.messages = l.messages[len(l.messages)-l.cap:]
		l.renumberLocked()
	}
	return msg
}

// Since returns every retained message whose current id is strictly greater
// than the given id, in log order. Because truncation renumbers survivors,
// a bookmark id held across a truncation is only eventually consistent.
func (l *MessageLog) Since(id int64) []entity.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entity.Message, 0)
	for _, m := range l.messages {
		if m.Id > id {
			out = append(out, m)
		}
	}
	return out
}

// LastID returns the id of the newest retained message, 0 when empty.
func (l *MessageLog) LastID() int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.messages) == 0 {
		return 0
	}
	return l.messages[len(l.messages)-1].Id
}

// Count returns the number of retained messages.
func (l *MessageLog) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.messages)
}

// SnapshotMessages copies out the retained log in order.
func (l *MessageLog) SnapshotMessages() []entity.Message {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]entity.Message, len(l.messages))
	copy(out, l.messages)
	return out
}

// RestoreMessages replaces the log with the given messages, trims to the cap
// and renumbers 1..N so id continuity is re-derived from the restored set.
func (l *MessageLog) RestoreMessages(messages []entity.Message) {
	l.mu.Lock()
	defer l.mu.Unlock()

	restored := make([]entity.Message, len(messages))
	copy(restored, messages)
	sort.SliceStable(restored, func(i, j int) bool { return restored[i].Id < restored[j].Id })

	if len(restored) > l.cap {
		restored = restored[len(restored)-l.cap:]
	}
	l.messages = restored
	l.renumberLocked()
}

func (l *MessageLog) renumberLocked() {
	for i := range l.messages {
		l.messages[i].Id = int64(i + 1)
	}
}
