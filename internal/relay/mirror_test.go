package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"photomarket/internal/domain"
)

func unreadInList(list []domain.Notification) int64 {
	var c int64
	for _, n := range list {
		if !n.IsRead {
			c++
		}
	}
	return c
}

func TestMirror_CountStaysConsistentUnderEventMix(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{
		{ID: 1, IsRead: false},
		{ID: 2, IsRead: true},
		{ID: 3, IsRead: false},
	}, 2, 3)

	m.ApplyNew(domain.Notification{ID: 4, IsRead: false})
	m.ApplyUpdate(domain.Notification{ID: 1, IsRead: true})
	m.ApplyDelete(3)
	m.ApplyNew(domain.Notification{ID: 5, IsRead: true})
	m.ApplyDelete(99) // unknown id, no-op
	m.ApplyUpdate(domain.Notification{ID: 98, IsRead: false})

	list, unread, total := m.Snapshot()
	assert.Equal(t, unreadInList(list), unread)
	assert.Equal(t, int64(len(list)), total)
}

func TestMirror_NewPrependsAndRecounts(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1, IsRead: true}}, 0, 1)

	m.ApplyNew(domain.Notification{ID: 2, IsRead: false})

	list, unread, total := m.Snapshot()
	require.Len(t, list, 2)
	assert.Equal(t, int64(2), list[0].ID)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, int64(2), total)
}

func TestMirror_DuplicateNewDoesNotDoubleInsert(t *testing.T) {
	m := NewMirror()

	m.ApplyNew(domain.Notification{ID: 1, IsRead: false})
	m.ApplyNew(domain.Notification{ID: 1, IsRead: false})

	list, unread, total := m.Snapshot()
	assert.Len(t, list, 1)
	assert.Equal(t, int64(1), unread)
	assert.Equal(t, int64(1), total)
}

func TestMirror_IsReadIsMonotonic(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1, IsRead: false}, {ID: 2, IsRead: false}}, 2, 2)

	// User marks id 1 read optimistically.
	m.MarkReadLocal(1)
	assert.Equal(t, int64(1), m.UnreadCount())

	// Stale echo from the server arrives with is_read=false.
	m.ApplyUpdate(domain.Notification{ID: 1, IsRead: false, Title: "fresher title"})

	list, unread, _ := m.Snapshot()
	assert.True(t, list[0].IsRead, "is_read must not revert")
	assert.Equal(t, "fresher title", list[0].Title, "other fields are last-write-wins")
	assert.Equal(t, int64(1), unread)
}

func TestMirror_MarkReadLocalIdempotent(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1, IsRead: false}}, 1, 1)

	m.MarkReadLocal(1)
	m.MarkReadLocal(1)
	m.MarkReadLocal(404)

	assert.Equal(t, int64(0), m.UnreadCount())
}

func TestMirror_DeleteScenario(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1, IsRead: false}}, 1, 1)

	m.ApplyDelete(1)

	list, unread, total := m.Snapshot()
	assert.Empty(t, list)
	assert.Equal(t, int64(0), unread)
	assert.Equal(t, int64(0), total)
}

func TestMirror_UnreadCountOverrideIsAuthoritative(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1, IsRead: false}}, 1, 1)

	// Server knows about notifications this mirror never fetched.
	m.SetUnread(12)
	assert.Equal(t, int64(12), m.UnreadCount())
}

func TestMirror_SnapshotIsACopy(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 1}}, 0, 1)

	list, _, _ := m.Snapshot()
	list[0].ID = 999

	again, _, _ := m.Snapshot()
	assert.Equal(t, int64(1), again[0].ID)
}

func TestMirror_IDsNewestFirst(t *testing.T) {
	m := NewMirror()
	m.Replace([]domain.Notification{{ID: 3}, {ID: 1}}, 0, 2)
	m.ApplyNew(domain.Notification{ID: 5})

	assert.Equal(t, []int64{5, 3, 1}, m.IDs())
}
