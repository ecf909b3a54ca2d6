// FILE: internal/repository/memory/presence_repository.go
package memory

import (
	"sort"
	"strings"
	"time"

	"chatroom-be/internal/entity"

	"github.com/patrickmn/go-cache"
)

// PresenceRepository tracks which sessions are online and which accounts are
// composing. Both facts are ephemeral, so they live in TTL caches whose
// janitor is the periodic sweep: stale entries are purged on the cleanup
// interval, not lazily on read. Typing expires much faster than presence to
// avoid stuck indicators.
type PresenceRepository struct {
	presence *cache.Cache // token -> presenceEntry
	typing   *cache.Cache // lowercased username -> typingEntry
}

type presenceEntry struct {
	Username    string
	DisplayName string
	LastBeat    time.Time
}

type typingEntry struct {
	Username    string
	DisplayName string
}

func NewPresenceRepository(presenceTTL, typingTTL, sweepInterval time.Duration) *PresenceRepository {
	typingSweep := typingTTL / 2
	if typingSweep <= 0 {
		typingSweep = time.Second
	}
	return &PresenceRepository{
		presence: cache.New(presenceTTL, sweepInterval),
		typing:   cache.New(typingTTL, typingSweep),
	}
}

// Heartbeat registers the session as online or refreshes its TTL.
func (r *PresenceRepository) Heartbeat(token, username, displayName string) {
	r.presence.Set(token, presenceEntry{
		Username:    username,
		DisplayName: displayName,
		LastBeat:    time.Now(),
	}, cache.DefaultExpiration)
}

// Remove drops the presence entry for a session, used on logout so a revoked
// session never lingers as "online" until the TTL runs out.
func (r *PresenceRepository) Remove(token string) {
	r.presence.Delete(token)
}

// SetTyping flips the account's composing flag. Setting it refreshes the
// short TTL; clearing it deletes the entry immediately.
func (r *PresenceRepository) SetTyping(username, displayName string, typing bool) {
	key := strings.ToLower(username)
	if !typing {
		r.typing.Delete(key)
		return
	}
	r.typing.Set(key, typingEntry{Username: username, DisplayName: displayName}, cache.DefaultExpiration)
}

// ListOnline returns the distinct accounts with a live presence entry,
// sorted by display name for deterministic rendering.
func (r *PresenceRepository) ListOnline() []entity.PresenceUser {
	seen := make(map[string]entity.PresenceUser)
	for _, item := range r.presence.Items() {
		e := item.Object.(presenceEntry)
		seen[strings.ToLower(e.Username)] = entity.PresenceUser{
			Username:    e.Username,
			DisplayName: e.DisplayName,
		}
	}
	return sortedUsers(seen)
}

// ListTyping returns accounts currently composing, excluding the caller.
func (r *PresenceRepository) ListTyping(excludeUsername string) []entity.PresenceUser {
	exclude := strings.ToLower(excludeUsername)
	seen := make(map[string]entity.PresenceUser)
	for key, item := range r.typing.Items() {
		if key == exclude {
			continue
		}
		e := item.Object.(typingEntry)
		seen[key] = entity.PresenceUser{Username: e.Username, DisplayName: e.DisplayName}
	}
	return sortedUsers(seen)
}

func sortedUsers(m map[string]entity.PresenceUser) []entity.PresenceUser {
	out := make([]entity.PresenceUser, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName == out[j].DisplayName {
			return out[i].Username < out[j].Username
		}
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}
