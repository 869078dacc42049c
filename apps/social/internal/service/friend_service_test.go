package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/consts"
	"FitSocial/model"
	"FitSocial/pkg/bizerr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRelationshipRepo struct {
	getFn    func(context.Context, string, string) (*model.Relationship, error)
	createFn func(context.Context, *model.Relationship) error
	writes   int
}

func (f *fakeRelationshipRepo) Get(ctx context.Context, a, b string) (*model.Relationship, error) {
	if f.getFn == nil {
		return nil, repository.ErrRecordNotFound
	}
	return f.getFn(ctx, a, b)
}

func (f *fakeRelationshipRepo) Create(ctx context.Context, rel *model.Relationship) error {
	f.writes++
	if f.createFn == nil {
		return nil
	}
	return f.createFn(ctx, rel)
}

func (f *fakeRelationshipRepo) Reopen(context.Context, string, string) (bool, error) {
	f.writes++
	return false, nil
}

func (f *fakeRelationshipRepo) Accept(context.Context, string, string) (bool, error) {
	f.writes++
	return false, nil
}

func (f *fakeRelationshipRepo) Decline(context.Context, string, string) (bool, error) {
	f.writes++
	return false, nil
}

func (f *fakeRelationshipRepo) DeleteUnblocked(context.Context, string, string) (bool, error) {
	f.writes++
	return false, nil
}

func (f *fakeRelationshipRepo) Block(context.Context, string, string) error {
	f.writes++
	return nil
}

func (f *fakeRelationshipRepo) Unblock(context.Context, string, string) (bool, error) {
	f.writes++
	return false, nil
}

func (f *fakeRelationshipRepo) ListIncomingPending(context.Context, string) ([]*model.Relationship, error) {
	return nil, nil
}

func (f *fakeRelationshipRepo) ListAccepted(context.Context, string) ([]*model.Relationship, error) {
	return nil, nil
}

type fakeProfileRepo struct{}

func (fakeProfileRepo) Get(context.Context, string) (*model.UserProfile, error) {
	return nil, repository.ErrRecordNotFound
}

func (fakeProfileRepo) BatchGet(context.Context, []string) (map[string]*model.UserProfile, error) {
	return map[string]*model.UserProfile{}, nil
}

func (fakeProfileRepo) Upsert(context.Context, *model.UserProfile) error { return nil }

func requireBizCode(t *testing.T, err error, code int32) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, code, bizerr.CodeOf(err), "err=%v", err)
}

func countEdges(t *testing.T, env *testEnv, a, b string) int64 {
	t.Helper()
	low, high := model.CanonicalPair(a, b)
	var n int64
	require.NoError(t, env.db.Model(&model.Relationship{}).
		Where("user_low = ? AND user_high = ?", low, high).Count(&n).Error)
	return n
}

func TestSendRequestValidationTouchesNoStore(t *testing.T) {
	initServiceTestLogger()
	repo := &fakeRelationshipRepo{
		getFn: func(context.Context, string, string) (*model.Relationship, error) {
			t.Fatal("store must not be read")
			return nil, nil
		},
	}
	svc := NewFriendService(repo, nil, fakeProfileRepo{}, &recordingCache{}, &recordingPublisher{})

	requireBizCode(t, svc.SendRequest(context.Background(), "a", "a"), consts.CodeSelfRequest)
	requireBizCode(t, svc.SendRequest(context.Background(), "a", ""), consts.CodeInvalidTarget)
	requireBizCode(t, svc.SendRequest(context.Background(), "", "b"), consts.CodeInvalidTarget)
	assert.Zero(t, repo.writes)
}

func TestSendRequestLoserOfInsertRaceRereads(t *testing.T) {
	initServiceTestLogger()

	cases := []struct {
		name     string
		existing *model.Relationship
		want     error
	}{
		{"other side pending", &model.Relationship{UserLow: "a", UserHigh: "b", RequesterId: "b", Status: model.RelationPending}, ErrDuplicateRequest},
		{"already accepted", &model.Relationship{UserLow: "a", UserHigh: "b", RequesterId: "b", Status: model.RelationAccepted}, ErrAlreadyFriends},
		{"blocked", &model.Relationship{UserLow: "a", UserHigh: "b", RequesterId: "b", Status: model.RelationBlocked, BlockedBy: "b"}, ErrBlocked},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gets := 0
			repo := &fakeRelationshipRepo{
				getFn: func(context.Context, string, string) (*model.Relationship, error) {
					gets++
					if gets == 1 {
						return nil, repository.ErrRecordNotFound
					}
					return tc.existing, nil
				},
				createFn: func(context.Context, *model.Relationship) error {
					return repository.ErrDuplicateKey
				},
			}
			pub := &recordingPublisher{}
			svc := NewFriendService(repo, nil, fakeProfileRepo{}, &recordingCache{}, pub)

			err := svc.SendRequest(context.Background(), "a", "b")
			assert.ErrorIs(t, err, tc.want)
			assert.Equal(t, 2, gets)
			assert.Zero(t, pub.count())
		})
	}
}

func TestSendRequestStoreErrorIsInternal(t *testing.T) {
	initServiceTestLogger()
	repo := &fakeRelationshipRepo{
		getFn: func(context.Context, string, string) (*model.Relationship, error) {
			return nil, fmt.Errorf("%w: boom", repository.ErrDatabase)
		},
	}
	svc := NewFriendService(repo, nil, fakeProfileRepo{}, &recordingCache{}, &recordingPublisher{})

	err := svc.SendRequest(context.Background(), "a", "b")
	requireBizCode(t, err, consts.CodeInternalError)
	assert.True(t, bizerr.IsKind(err, bizerr.KindInternal))
}

func TestSendRequestConflicts(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.addProfile(t, "alice", "alice", "小爱")

	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))

	requests := env.pub.to("bob", dispatch.EventFriendRequest)
	require.Len(t, requests, 1)
	payload, ok := requests[0].Event.Data.(dto.FriendRequestEvent)
	require.True(t, ok)
	assert.Equal(t, "alice", payload.RequesterId)
	assert.Equal(t, "小爱", payload.Nickname)

	err := env.friends.SendRequest(ctx, "alice", "bob")
	assert.ErrorIs(t, err, ErrDuplicateRequest)

	// 反方向同样是重复申请，但提示不同
	err = env.friends.SendRequest(ctx, "bob", "alice")
	assert.ErrorIs(t, err, ErrDuplicateRequest)
	be, ok := bizerr.From(err)
	require.True(t, ok)
	assert.NotEqual(t, ErrDuplicateRequest.Message, be.Message)

	require.NoError(t, env.friends.AcceptRequest(ctx, "bob", "alice"))
	assert.ErrorIs(t, env.friends.SendRequest(ctx, "alice", "bob"), ErrAlreadyFriends)
	assert.ErrorIs(t, env.friends.SendRequest(ctx, "bob", "alice"), ErrAlreadyFriends)
	assert.EqualValues(t, 1, countEdges(t, env, "alice", "bob"))
}

func TestConcurrentOppositeRequestsYieldOneEdge(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		a, b := fmt.Sprintf("a%d", i), fmt.Sprintf("b%d", i)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() { defer wg.Done(); errs[0] = env.friends.SendRequest(ctx, a, b) }()
		go func() { defer wg.Done(); errs[1] = env.friends.SendRequest(ctx, b, a) }()
		wg.Wait()

		succeeded := 0
		for _, err := range errs {
			if err == nil {
				succeeded++
				continue
			}
			assert.True(t, errors.Is(err, ErrDuplicateRequest) || errors.Is(err, ErrAlreadyFriends), "unexpected err %v", err)
		}
		assert.Equal(t, 1, succeeded)
		assert.EqualValues(t, 1, countEdges(t, env, a, b))
	}
}

func TestAcceptWithoutRequestIsNoop(t *testing.T) {
	cache := &recordingCache{}
	env := newTestEnv(t, cache)

	require.NoError(t, env.friends.AcceptRequest(context.Background(), "bob", "alice"))
	assert.Empty(t, cache.invalidatedSet())
	assert.Zero(t, env.pub.count())
	assert.Zero(t, countEdges(t, env, "alice", "bob"))
}

func TestAcceptOnlyByTarget(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))

	// 发起方不能替对方接受
	require.NoError(t, env.friends.AcceptRequest(ctx, "alice", "bob"))
	rel, err := env.relRepo.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.RelationPending, rel.Status)
}

func TestAcceptInvalidatesBothAndNotifiesRequester(t *testing.T) {
	cache := &recordingCache{}
	env := newTestEnv(t, cache)
	ctx := context.Background()
	env.addProfile(t, "bob", "bob", "")

	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))
	require.NoError(t, env.friends.AcceptRequest(ctx, "bob", "alice"))

	set := cache.invalidatedSet()
	assert.Equal(t, 1, set["alice"])
	assert.Equal(t, 1, set["bob"])

	accepted := env.pub.to("alice", dispatch.EventFriendAccepted)
	require.Len(t, accepted, 1)
	payload := accepted[0].Event.Data.(dto.FriendAcceptedEvent)
	assert.Equal(t, "bob", payload.UserId)
	assert.Equal(t, "bob", payload.Username)

	// 第二次接受不再通知
	require.NoError(t, env.friends.AcceptRequest(ctx, "bob", "alice"))
	assert.Len(t, env.pub.to("alice", dispatch.EventFriendAccepted), 1)
}

func TestDeclineThenRequestAgain(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()

	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))
	require.NoError(t, env.friends.DeclineRequest(ctx, "bob", "alice"))

	pending, err := env.friends.ListPending(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, pending)

	// 被拒后任一方都可以重新申请，仍只有一条边
	require.NoError(t, env.friends.SendRequest(ctx, "bob", "alice"))
	rel, err := env.relRepo.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, model.RelationPending, rel.Status)
	assert.Equal(t, "bob", rel.RequesterId)
	assert.EqualValues(t, 1, countEdges(t, env, "alice", "bob"))

	require.NoError(t, env.friends.DeclineRequest(ctx, "bob", "nobody"))
}

func TestDeleteFriendIsIdempotentAndAllowsNewRequest(t *testing.T) {
	cache := &recordingCache{}
	env := newTestEnv(t, cache)
	ctx := context.Background()
	env.makeFriends(t, "alice", "bob")

	require.NoError(t, env.friends.DeleteFriend(ctx, "bob", "alice"))
	assert.Zero(t, countEdges(t, env, "alice", "bob"))
	assert.Equal(t, 2, cache.invalidatedSet()["alice"])

	require.NoError(t, env.friends.DeleteFriend(ctx, "bob", "alice"))
	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))
	assert.EqualValues(t, 1, countEdges(t, env, "alice", "bob"))
}

func TestBlockOnlyClearedByBlocker(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.makeFriends(t, "alice", "bob")

	require.NoError(t, env.friends.Block(ctx, "alice", "bob"))
	friends, err := env.friends.ListFriends(ctx, "bob")
	require.NoError(t, err)
	assert.Empty(t, friends)

	assert.ErrorIs(t, env.friends.SendRequest(ctx, "bob", "alice"), ErrBlocked)

	// 被拉黑方无法删除或解除
	require.NoError(t, env.friends.DeleteFriend(ctx, "bob", "alice"))
	require.NoError(t, env.friends.Unblock(ctx, "bob", "alice"))
	assert.ErrorIs(t, env.friends.SendRequest(ctx, "bob", "alice"), ErrBlocked)

	// 拉黑方删除好友也不会清掉拉黑边
	require.NoError(t, env.friends.DeleteFriend(ctx, "alice", "bob"))
	assert.ErrorIs(t, env.friends.SendRequest(ctx, "bob", "alice"), ErrBlocked)

	require.NoError(t, env.friends.Unblock(ctx, "alice", "bob"))
	require.NoError(t, env.friends.SendRequest(ctx, "bob", "alice"))
}

func TestListPendingProjectsRequester(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.addProfile(t, "alice", "alice", "小爱")

	require.NoError(t, env.friends.SendRequest(ctx, "alice", "bob"))
	require.NoError(t, env.friends.SendRequest(ctx, "carol", "bob"))
	require.NoError(t, env.friends.SendRequest(ctx, "bob", "dave"))

	pending, err := env.friends.ListPending(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, pending, 2)

	byID := map[string]model.PendingRequestView{}
	for _, p := range pending {
		byID[p.RequesterId] = p
	}
	assert.Equal(t, "小爱", byID["alice"].Nickname)
	assert.Contains(t, byID, "carol")
	assert.NotContains(t, byID, "dave")
}

func TestListFriendsCarriesLastMessageAndUnread(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx := context.Background()
	env.addProfile(t, "bob", "bob", "阿宝")
	env.makeFriends(t, "alice", "bob")
	env.makeFriends(t, "alice", "carol")

	_, err := env.messages.SendMessage(ctx, "bob", &dto.SendMessageRequest{ReceiverID: "alice", Content: "hi"})
	require.NoError(t, err)
	_, err = env.messages.SendMessage(ctx, "bob", &dto.SendMessageRequest{ReceiverID: "alice", Content: "在吗"})
	require.NoError(t, err)

	friends, err := env.friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, friends, 2)

	byID := map[string]model.FriendView{}
	for _, f := range friends {
		byID[f.UserId] = f
	}
	bob := byID["bob"]
	assert.Equal(t, "阿宝", bob.Nickname)
	assert.EqualValues(t, 2, bob.UnreadCount)
	require.NotNil(t, bob.LastMessage)
	assert.Equal(t, "在吗", bob.LastMessage.Content)

	carol := byID["carol"]
	assert.Nil(t, carol.LastMessage)
	assert.Zero(t, carol.UnreadCount)
}

func TestFriendListNeverStaleThroughRedisCache(t *testing.T) {
	env := newTestEnv(t, newRedisFriendCache(t))
	ctx := context.Background()
	env.makeFriends(t, "alice", "bob")

	first, err := env.friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, first, 1)

	second, err := env.friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].UserId, second[0].UserId)
	assert.True(t, first[0].FriendSince.Equal(second[0].FriendSince))

	_, err = env.messages.SendMessage(ctx, "bob", &dto.SendMessageRequest{ReceiverID: "alice", Content: "hi"})
	require.NoError(t, err)
	afterMsg, err := env.friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, afterMsg, 1)
	assert.EqualValues(t, 1, afterMsg[0].UnreadCount)

	_, err = env.messages.MarkAsRead(ctx, "alice", "bob")
	require.NoError(t, err)
	afterRead, err := env.friends.ListFriends(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, afterRead[0].UnreadCount)

	require.NoError(t, env.friends.DeleteFriend(ctx, "alice", "bob"))
	for _, uid := range []string{"alice", "bob"} {
		list, err := env.friends.ListFriends(ctx, uid)
		require.NoError(t, err)
		assert.Empty(t, list, uid)
	}
}
