package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/model"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// ==================== fakes ====================

type fakeFriendService struct {
	service.IFriendService
	sendFn    func(ctx context.Context, requester, target string) error
	acceptFn  func(ctx context.Context, target, requester string) error
	blockFn   func(ctx context.Context, blocker, target string) error
	pendingFn func(ctx context.Context, userID string) ([]model.PendingRequestView, error)
	listFn    func(ctx context.Context, userID string) ([]model.FriendView, error)
}

func (f *fakeFriendService) SendRequest(ctx context.Context, requester, target string) error {
	if f.sendFn == nil {
		return nil
	}
	return f.sendFn(ctx, requester, target)
}

func (f *fakeFriendService) AcceptRequest(ctx context.Context, target, requester string) error {
	if f.acceptFn == nil {
		return nil
	}
	return f.acceptFn(ctx, target, requester)
}

func (f *fakeFriendService) Block(ctx context.Context, blocker, target string) error {
	if f.blockFn == nil {
		return nil
	}
	return f.blockFn(ctx, blocker, target)
}

func (f *fakeFriendService) ListPending(ctx context.Context, userID string) ([]model.PendingRequestView, error) {
	if f.pendingFn == nil {
		return nil, nil
	}
	return f.pendingFn(ctx, userID)
}

func (f *fakeFriendService) ListFriends(ctx context.Context, userID string) ([]model.FriendView, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(ctx, userID)
}

type fakeMessageService struct {
	service.IMessageService
	sendFn      func(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*model.MessageView, error)
	markGroupFn func(ctx context.Context, readerID string, groupID, lastID int64) error
	historyFn   func(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.MessagePage, error)
}

func (f *fakeMessageService) SendMessage(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*model.MessageView, error) {
	if f.sendFn == nil {
		return &model.MessageView{}, nil
	}
	return f.sendFn(ctx, senderID, req)
}

func (f *fakeMessageService) MarkGroupAsRead(ctx context.Context, readerID string, groupID, lastID int64) error {
	if f.markGroupFn == nil {
		return nil
	}
	return f.markGroupFn(ctx, readerID, groupID, lastID)
}

func (f *fakeMessageService) ChatHistory(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.MessagePage, error) {
	if f.historyFn == nil {
		return &dto.MessagePage{}, nil
	}
	return f.historyFn(ctx, userID, peerID, page, pageSize)
}

type fakeGroupService struct {
	service.IGroupService
	createFn func(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*model.ChatGroup, error)
	addFn    func(ctx context.Context, operatorID string, groupID int64, userID string) error
}

func (f *fakeGroupService) CreateGroup(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*model.ChatGroup, error) {
	if f.createFn == nil {
		return &model.ChatGroup{}, nil
	}
	return f.createFn(ctx, ownerID, req)
}

func (f *fakeGroupService) AddMember(ctx context.Context, operatorID string, groupID int64, userID string) error {
	if f.addFn == nil {
		return nil
	}
	return f.addFn(ctx, operatorID, groupID, userID)
}

type fakePlanService struct {
	service.IPlanService
	createFn   func(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.CreatePlanResponse, error)
	completeFn func(ctx context.Context, userID string, planID int64) error
}

func (f *fakePlanService) CreatePlan(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
	if f.createFn == nil {
		return &dto.CreatePlanResponse{}, nil
	}
	return f.createFn(ctx, userID, req)
}

func (f *fakePlanService) CompletePlan(ctx context.Context, userID string, planID int64) error {
	if f.completeFn == nil {
		return nil
	}
	return f.completeFn(ctx, userID, planID)
}

// ==================== helpers ====================

type resultBody struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

var handlerLoggerOnce sync.Once

func initHandlerLogger() {
	handlerLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
		gin.SetMode(gin.TestMode)
	})
}

// withUser 代替 JWT 中间件注入登录用户，userID 为空表示未登录
func withUser(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(ctxmeta.KeyUserUUID, userID)
		}
		c.Next()
	}
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, resultBody) {
	t.Helper()
	var reader *bytes.Reader
	if s, ok := body.(string); ok {
		reader = bytes.NewReader([]byte(s))
	} else if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var res resultBody
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &res))
	}
	return w, res
}

func newFriendRouter(userID string, friends *fakeFriendService, plans *fakePlanService) *gin.Engine {
	initHandlerLogger()
	h := NewFriendHandler(friends, plans)
	r := gin.New()
	g := r.Group("/api/v1", withUser(userID))
	g.POST("/friends/requests", h.SendRequest)
	g.GET("/friends/requests/pending", h.ListPending)
	g.PUT("/friends/requests/:user_id/accept", h.AcceptRequest)
	g.POST("/friends/:user_id/block", h.Block)
	g.GET("/friends", h.ListFriends)
	return r
}

// ==================== friend ====================

func TestFriendHandlerSendRequest(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotRequester, gotTarget string
		r := newFriendRouter("u1", &fakeFriendService{
			sendFn: func(_ context.Context, requester, target string) error {
				gotRequester, gotTarget = requester, target
				return nil
			},
		}, nil)

		w, res := doRequest(t, r, http.MethodPost, "/api/v1/friends/requests", dto.SendFriendRequest{TargetID: "u2"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, consts.CodeSuccess, res.Code)
		assert.Equal(t, "u1", gotRequester)
		assert.Equal(t, "u2", gotTarget)
	})

	t.Run("missing target is param error", func(t *testing.T) {
		called := false
		r := newFriendRouter("u1", &fakeFriendService{
			sendFn: func(context.Context, string, string) error { called = true; return nil },
		}, nil)

		_, res := doRequest(t, r, http.MethodPost, "/api/v1/friends/requests", `{}`)
		assert.Equal(t, consts.CodeParamError, res.Code)
		assert.False(t, called)
	})

	t.Run("business error keeps code and message", func(t *testing.T) {
		r := newFriendRouter("u1", &fakeFriendService{
			sendFn: func(context.Context, string, string) error { return service.ErrIncomingPending },
		}, nil)

		_, res := doRequest(t, r, http.MethodPost, "/api/v1/friends/requests", dto.SendFriendRequest{TargetID: "u2"})
		assert.Equal(t, consts.CodeFriendRequestSent, res.Code)
		assert.Equal(t, service.ErrIncomingPending.Message, res.Message)
	})

	t.Run("unexpected error is internal", func(t *testing.T) {
		r := newFriendRouter("u1", &fakeFriendService{
			sendFn: func(context.Context, string, string) error { return errors.New("db down") },
		}, nil)

		_, res := doRequest(t, r, http.MethodPost, "/api/v1/friends/requests", dto.SendFriendRequest{TargetID: "u2"})
		assert.Equal(t, consts.CodeInternalError, res.Code)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		r := newFriendRouter("", &fakeFriendService{}, nil)
		w, res := doRequest(t, r, http.MethodPost, "/api/v1/friends/requests", dto.SendFriendRequest{TargetID: "u2"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, consts.CodeUnauthorized, res.Code)
	})
}

func TestFriendHandlerPeerActions(t *testing.T) {
	var gotTarget, gotRequester string
	r := newFriendRouter("u2", &fakeFriendService{
		acceptFn: func(_ context.Context, target, requester string) error {
			gotTarget, gotRequester = target, requester
			return nil
		},
		blockFn: func(context.Context, string, string) error { return service.ErrBlocked },
	}, nil)

	_, res := doRequest(t, r, http.MethodPut, "/api/v1/friends/requests/u1/accept", nil)
	assert.Equal(t, consts.CodeSuccess, res.Code)
	assert.Equal(t, "u2", gotTarget)
	assert.Equal(t, "u1", gotRequester)

	_, res = doRequest(t, r, http.MethodPost, "/api/v1/friends/u1/block", nil)
	assert.Equal(t, consts.CodeIsBlacklist, res.Code)
}

func TestFriendHandlerLists(t *testing.T) {
	r := newFriendRouter("u1", &fakeFriendService{
		pendingFn: func(context.Context, string) ([]model.PendingRequestView, error) {
			return []model.PendingRequestView{{RequesterId: "u3"}}, nil
		},
		listFn: func(_ context.Context, userID string) ([]model.FriendView, error) {
			return []model.FriendView{{UserId: "u2", UnreadCount: 3}}, nil
		},
	}, nil)

	_, res := doRequest(t, r, http.MethodGet, "/api/v1/friends", nil)
	require.Equal(t, consts.CodeSuccess, res.Code)
	var friends dto.FriendListResponse
	require.NoError(t, json.Unmarshal(res.Data, &friends))
	require.Len(t, friends.Items, 1)
	assert.Equal(t, "u2", friends.Items[0].UserId)
	assert.EqualValues(t, 3, friends.Items[0].UnreadCount)

	_, res = doRequest(t, r, http.MethodGet, "/api/v1/friends/requests/pending", nil)
	var pending dto.PendingListResponse
	require.NoError(t, json.Unmarshal(res.Data, &pending))
	require.Len(t, pending.Items, 1)
	assert.Equal(t, "u3", pending.Items[0].RequesterId)
}

// ==================== message ====================

func newMessageRouter(svc *fakeMessageService) *gin.Engine {
	initHandlerLogger()
	h := NewMessageHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1", withUser("u1"))
	g.POST("/messages", h.SendMessage)
	g.PUT("/messages/groups/:group_id/read", h.MarkGroupAsRead)
	g.GET("/messages/history/:user_id", h.ChatHistory)
	return r
}

func TestMessageHandlerSendMessage(t *testing.T) {
	var got *dto.SendMessageRequest
	r := newMessageRouter(&fakeMessageService{
		sendFn: func(_ context.Context, sender string, req *dto.SendMessageRequest) (*model.MessageView, error) {
			got = req
			if req.Content == "" {
				return nil, service.ErrEmptyContent
			}
			return &model.MessageView{Id: 7, SenderId: sender, GroupId: req.GroupID, Content: req.Content}, nil
		},
	})

	_, res := doRequest(t, r, http.MethodPost, "/api/v1/messages", `{"group_id":"123","content":"hi all"}`)
	require.Equal(t, consts.CodeSuccess, res.Code)
	assert.Equal(t, int64(123), got.GroupID)
	var view model.MessageView
	require.NoError(t, json.Unmarshal(res.Data, &view))
	assert.Equal(t, int64(7), view.Id)
	assert.Equal(t, "u1", view.SenderId)

	_, res = doRequest(t, r, http.MethodPost, "/api/v1/messages", `{"receiver_id":"u2"}`)
	assert.Equal(t, consts.CodeEmptyContent, res.Code)
}

func TestMessageHandlerMarkGroupRead(t *testing.T) {
	var gotGroup, gotLast int64
	r := newMessageRouter(&fakeMessageService{
		markGroupFn: func(_ context.Context, _ string, groupID, lastID int64) error {
			gotGroup, gotLast = groupID, lastID
			return nil
		},
	})

	_, res := doRequest(t, r, http.MethodPut, "/api/v1/messages/groups/9/read", `{"last_message_id":"55"}`)
	require.Equal(t, consts.CodeSuccess, res.Code)
	assert.Equal(t, int64(9), gotGroup)
	assert.Equal(t, int64(55), gotLast)

	_, res = doRequest(t, r, http.MethodPut, "/api/v1/messages/groups/9/read", `{}`)
	assert.Equal(t, consts.CodeParamError, res.Code)

	_, res = doRequest(t, r, http.MethodPut, "/api/v1/messages/groups/abc/read", `{"last_message_id":"55"}`)
	assert.Equal(t, consts.CodeParamError, res.Code)
}

func TestMessageHandlerHistoryPaging(t *testing.T) {
	var gotPeer string
	var gotPage, gotSize int
	r := newMessageRouter(&fakeMessageService{
		historyFn: func(_ context.Context, _ string, peer string, page, size int) (*dto.MessagePage, error) {
			gotPeer, gotPage, gotSize = peer, page, size
			return &dto.MessagePage{Page: page, PageSize: size}, nil
		},
	})

	_, res := doRequest(t, r, http.MethodGet, "/api/v1/messages/history/u2?page=2&page_size=30", nil)
	require.Equal(t, consts.CodeSuccess, res.Code)
	assert.Equal(t, "u2", gotPeer)
	assert.Equal(t, 2, gotPage)
	assert.Equal(t, 30, gotSize)

	_, res = doRequest(t, r, http.MethodGet, "/api/v1/messages/history/u2?page_size=1000", nil)
	assert.Equal(t, consts.CodeParamError, res.Code)
}

// ==================== group & plan ====================

func TestGroupHandler(t *testing.T) {
	initHandlerLogger()
	svc := &fakeGroupService{
		createFn: func(_ context.Context, owner string, req *dto.CreateGroupRequest) (*model.ChatGroup, error) {
			return &model.ChatGroup{Id: 1, Name: req.Name, OwnerId: owner}, nil
		},
		addFn: func(context.Context, string, int64, string) error { return service.ErrNotGroupMember },
	}
	h := NewGroupHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1", withUser("u1"))
	g.POST("/groups", h.CreateGroup)
	g.POST("/groups/:group_id/members", h.AddMember)

	_, res := doRequest(t, r, http.MethodPost, "/api/v1/groups", dto.CreateGroupRequest{Name: "晨跑团"})
	require.Equal(t, consts.CodeSuccess, res.Code)
	var group model.ChatGroup
	require.NoError(t, json.Unmarshal(res.Data, &group))
	assert.Equal(t, "u1", group.OwnerId)

	_, res = doRequest(t, r, http.MethodPost, "/api/v1/groups", `{}`)
	assert.Equal(t, consts.CodeParamError, res.Code)

	_, res = doRequest(t, r, http.MethodPost, "/api/v1/groups/1/members", dto.AddMemberRequest{UserID: "u3"})
	assert.Equal(t, consts.CodeNotGroupMember, res.Code)
}

func TestPlanHandler(t *testing.T) {
	initHandlerLogger()
	var completed int64
	svc := &fakePlanService{
		createFn: func(_ context.Context, userID string, req *dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
			if req.EndDate < req.StartDate {
				return nil, service.ErrPlanInvalid
			}
			return &dto.CreatePlanResponse{Plan: &model.Plan{UserId: userID, Title: req.Title}, Notified: 2}, nil
		},
		completeFn: func(_ context.Context, _ string, planID int64) error {
			completed = planID
			return nil
		},
	}
	h := NewPlanHandler(svc)
	r := gin.New()
	g := r.Group("/api/v1", withUser("u1"))
	g.POST("/plans", h.CreatePlan)
	g.PUT("/plans/:plan_id/complete", h.CompletePlan)

	_, res := doRequest(t, r, http.MethodPost, "/api/v1/plans", dto.CreatePlanRequest{
		Title: "30 天跑步", StartDate: "2026-01-01", EndDate: "2026-01-30",
	})
	require.Equal(t, consts.CodeSuccess, res.Code)
	var created dto.CreatePlanResponse
	require.NoError(t, json.Unmarshal(res.Data, &created))
	assert.Equal(t, 2, created.Notified)

	_, res = doRequest(t, r, http.MethodPost, "/api/v1/plans", dto.CreatePlanRequest{
		Title: "倒着来", StartDate: "2026-02-01", EndDate: "2026-01-01",
	})
	assert.Equal(t, consts.CodePlanInvalid, res.Code)

	_, res = doRequest(t, r, http.MethodPut, "/api/v1/plans/77/complete", nil)
	require.Equal(t, consts.CodeSuccess, res.Code)
	assert.Equal(t, int64(77), completed)

	_, res = doRequest(t, r, http.MethodPut, "/api/v1/plans/0/complete", nil)
	assert.Equal(t, consts.CodeParamError, res.Code)
}
