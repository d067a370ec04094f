package engine

import (
	"strings"
	"sync"
	"time"
)

const defaultInteractiveTTL = 24 * time.Hour

// Button is one reply option of an outbound interactive message.
type Button struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type interactiveEntry struct {
	messageID string
	buttons   []Button
	storedAt  time.Time
}

// interactiveCache keeps the most recent interactive message per conversation
// so a free-text button reply can be matched back to its button id. Entries
// expire lazily; stale ones are pruned whenever the map grows.
type interactiveCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]interactiveEntry
}

func newInteractiveCache(ttl time.Duration) *interactiveCache {
	if ttl <= 0 {
		ttl = defaultInteractiveTTL
	}
	return &interactiveCache{
		ttl:     ttl,
		entries: make(map[string]interactiveEntry),
	}
}

func cacheKey(instanceID, contact string) string {
	return instanceID + "|" + contact
}

func (c *interactiveCache) put(instanceID, contact, messageID string, buttons []Button, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.prune(now)
	c.entries[cacheKey(instanceID, contact)] = interactiveEntry{
		messageID: messageID,
		buttons:   buttons,
		storedAt:  now,
	}
}

// match resolves a reply body against the buttons of the conversation's last
// interactive message. Comparison is case-insensitive on the trimmed title.
func (c *interactiveCache) match(instanceID, contact, body string, now time.Time) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[cacheKey(instanceID, contact)]
	if !ok {
		return "", false
	}
	if now.Sub(entry.storedAt) > c.ttl {
		delete(c.entries, cacheKey(instanceID, contact))
		return "", false
	}

	want := strings.ToLower(strings.TrimSpace(body))
	for _, button := range entry.buttons {
		if strings.ToLower(strings.TrimSpace(button.Title)) == want {
			return button.ID, true
		}
	}
	return "", false
}

func (c *interactiveCache) prune(now time.Time) {
	for key, entry := range c.entries {
		if now.Sub(entry.storedAt) > c.ttl {
			delete(c.entries, key)
		}
	}
}
