package repository

import (
	"context"
	"testing"
	"time"

	"FitSocial/model"
	"FitSocial/pkg/idgen"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDirect(from, to, content string, at time.Time) *model.Message {
	return &model.Message{Id: idgen.NextID(), SenderId: from, ReceiverId: to, Content: content, SentAt: at}
}

func TestMessageCreateAndUnread(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	m := newDirect("bob", "alice", "hi", now)
	require.NoError(t, repo.Create(ctx, m))
	assert.Equal(t, "alice", m.PeerLow)
	assert.Equal(t, "bob", m.PeerHigh)

	require.NoError(t, repo.Create(ctx, newDirect("bob", "alice", "again", now.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newDirect("carol", "alice", "yo", now.Add(2*time.Second))))
	require.NoError(t, repo.Create(ctx, newDirect("alice", "bob", "reply", now.Add(3*time.Second))))

	total, err := repo.CountUnreadDirect(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	bySender, err := repo.UnreadBySender(ctx, "alice", []string{"bob", "carol", "dave"})
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{"bob": 2, "carol": 1}, bySender)

	n, err := repo.MarkRead(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.MarkRead(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Zero(t, n, "mark read is idempotent")

	total, err = repo.CountUnreadDirect(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// bob 发出的那条回复仍是未读
	total, err = repo.CountUnreadDirect(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestMessageLatestWithPeers(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, repo.Create(ctx, newDirect("bob", "alice", "1", now)))
	require.NoError(t, repo.Create(ctx, newDirect("alice", "bob", "2", now.Add(time.Second))))
	require.NoError(t, repo.Create(ctx, newDirect("alice", "aaron", "3", now.Add(2*time.Second))))
	require.NoError(t, repo.Create(ctx, newDirect("zed", "alice", "4", now.Add(3*time.Second))))

	latest, err := repo.LatestWithPeers(ctx, "alice", []string{"bob", "aaron", "zed", "nobody"})
	require.NoError(t, err)
	require.Len(t, latest, 3)
	assert.Equal(t, "2", latest["bob"].Content)
	assert.Equal(t, "3", latest["aaron"].Content)
	assert.Equal(t, "4", latest["zed"].Content)

	latest, err = repo.LatestWithPeers(ctx, "alice", nil)
	require.NoError(t, err)
	assert.Empty(t, latest)
}

func TestMessageDirectHistory(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()
	base := time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		from, to := "a", "b"
		if i%2 == 1 {
			from, to = to, from
		}
		require.NoError(t, repo.Create(ctx, newDirect(from, to, string(rune('0'+i)), base.Add(time.Duration(i)*time.Minute))))
	}
	require.NoError(t, repo.Create(ctx, newDirect("a", "c", "other", base)))

	page1, total, err := repo.DirectHistory(ctx, "b", "a", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, page1, 2)
	assert.Equal(t, "4", page1[0].Content)
	assert.Equal(t, "3", page1[1].Content)

	page3, _, err := repo.DirectHistory(ctx, "a", "b", 3, 2)
	require.NoError(t, err)
	require.Len(t, page3, 1)
	assert.Equal(t, "0", page3[0].Content)

	empty, total, err := repo.DirectHistory(ctx, "a", "nobody", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, empty)
}

func TestMessageGroupHistoryAndLatest(t *testing.T) {
	repo := NewMessageRepository(newTestDB(t))
	ctx := context.Background()
	now := time.Now()

	g1 := &model.Message{Id: idgen.NextID(), SenderId: "a", GroupId: 1, Content: "g1-1", SentAt: now}
	require.NoError(t, repo.Create(ctx, g1))
	assert.True(t, g1.IsRead)
	assert.Empty(t, g1.PeerLow)

	require.NoError(t, repo.Create(ctx, &model.Message{Id: idgen.NextID(), SenderId: "b", GroupId: 1, Content: "g1-2", SentAt: now.Add(time.Second)}))
	require.NoError(t, repo.Create(ctx, &model.Message{Id: idgen.NextID(), SenderId: "b", GroupId: 2, Content: "g2-1", SentAt: now}))

	msgs, total, err := repo.GroupHistory(ctx, 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, msgs, 2)
	assert.Equal(t, "g1-2", msgs[0].Content)

	latest, err := repo.LatestInGroups(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	require.Len(t, latest, 2)
	assert.Equal(t, "g1-2", latest[1].Content)
	assert.Equal(t, "g2-1", latest[2].Content)

	maxID, err := repo.MaxGroupMessageID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, latest[1].Id, maxID)
	maxID, err = repo.MaxGroupMessageID(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, maxID)

	// 群消息不计入私聊未读
	unread, err := repo.CountUnreadDirect(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, unread)
}
