package relay

import (
	"sync"

	"photomarket/internal/domain"
)

// Mirror is the local best-effort copy of the user's notification list. It
// is mutated from two sides at once, the stream reader and user actions, so
// every rule here exists to keep those from fighting:
//
//   - is_read is monotonic: once true locally it never reverts, which
//     absorbs a stale server echo racing an optimistic mark-as-read
//   - the unread count is recomputed from the list after every list
//     mutation, never incremented or decremented through the stream
//   - an unread-count push is the one authoritative override
type Mirror struct {
	mu     sync.RWMutex
	list   []domain.Notification
	unread int64
	total  int64
}

func NewMirror() *Mirror {
	return &Mirror{list: []domain.Notification{}}
}

// Replace installs the result of a full fetch.
func (m *Mirror) Replace(list []domain.Notification, unread, total int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.list = append([]domain.Notification(nil), list...)
	m.unread = unread
	m.total = total
}

// ApplyNew prepends a pushed notification. A duplicate id is treated as an
// update so redelivery cannot double-insert.
func (m *Mirror) ApplyNew(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(n.ID); i >= 0 {
		m.merge(i, n)
	} else {
		m.list = append([]domain.Notification{n}, m.list...)
		m.total++
	}
	m.unread = m.countUnread()
}

// ApplyUpdate merges pushed fields into the matching notification. An
// unknown id is ignored.
func (m *Mirror) ApplyUpdate(n domain.Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(n.ID); i >= 0 {
		m.merge(i, n)
		m.unread = m.countUnread()
	}
}

// ApplyDelete removes the notification. Deleting an unknown id is a no-op.
func (m *Mirror) ApplyDelete(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if i := m.index(id); i >= 0 {
		m.list = append(m.list[:i], m.list[i+1:]...)
		if m.total > 0 {
			m.total--
		}
		m.unread = m.countUnread()
	}
}

// SetUnread applies an authoritative unread-count push.
func (m *Mirror) SetUnread(count int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.unread = count
}

// MarkReadLocal is the optimistic half of mark-as-read: flip the flag and
// drop the counter before the server answers. Already-read ids change
// nothing.
func (m *Mirror) MarkReadLocal(id int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.index(id)
	if i < 0 || m.list[i].IsRead {
		return
	}
	m.list[i].IsRead = true
	if m.unread > 0 {
		m.unread--
	}
}

// Snapshot returns a copy of the current state.
func (m *Mirror) Snapshot() ([]domain.Notification, int64, int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]domain.Notification(nil), m.list...), m.unread, m.total
}

func (m *Mirror) UnreadCount() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.unread
}

// IDs returns every held notification id, newest first.
func (m *Mirror) IDs() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]int64, len(m.list))
	for i := range m.list {
		out[i] = m.list[i].ID
	}
	return out
}

func (m *Mirror) index(id int64) int {
	for i := range m.list {
		if m.list[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *Mirror) merge(i int, n domain.Notification) {
	// Last write wins for everything except is_read, which only moves
	// forward.
	wasRead := m.list[i].IsRead
	m.list[i] = n
	if wasRead {
		m.list[i].IsRead = true
	}
}

func (m *Mirror) countUnread() int64 {
	var c int64
	for i := range m.list {
		if !m.list[i].IsRead {
			c++
		}
	}
	return c
}
