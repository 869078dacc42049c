package service

import (
	"context"
	"errors"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/logger"
)

// friendServiceImpl 好友关系服务实现
type friendServiceImpl struct {
	relRepo     repository.IRelationshipRepository
	msgRepo     repository.IMessageRepository
	profileRepo repository.IProfileRepository
	cache       repository.IFriendCacheRepository
	publisher   dispatch.Publisher
}

// NewFriendService 创建好友服务实例
func NewFriendService(
	relRepo repository.IRelationshipRepository,
	msgRepo repository.IMessageRepository,
	profileRepo repository.IProfileRepository,
	cache repository.IFriendCacheRepository,
	publisher dispatch.Publisher,
) IFriendService {
	return &friendServiceImpl{
		relRepo:     relRepo,
		msgRepo:     msgRepo,
		profileRepo: profileRepo,
		cache:       cache,
		publisher:   publisher,
	}
}

// checkPair 两个 ID 都非空且不相同
func checkPair(self, other string) error {
	if self == "" || other == "" {
		return ErrInvalidTarget
	}
	if self == other {
		return ErrSelfRequest
	}
	return nil
}

// SendRequest 发起好友申请。
// 同一对用户至多一条关系边：已有边按状态给出冲突错误，DECLINED 原地重开；
// 并发插入由唯一索引裁决，输家重新读取后得到与先到者一致的冲突错误。
func (s *friendServiceImpl) SendRequest(ctx context.Context, requester, target string) error {
	if err := checkPair(requester, target); err != nil {
		return err
	}

	for attempt := 0; attempt < 2; attempt++ {
		rel, err := s.relRepo.Get(ctx, requester, target)
		switch {
		case err == nil:
			if rel.Status != model.RelationDeclined {
				return conflictFor(rel, requester)
			}
			ok, err := s.relRepo.Reopen(ctx, requester, target)
			if err != nil {
				return internalError(ctx, "重新打开好友申请失败", err,
					logger.String("requester", requester), logger.String("target", target))
			}
			if ok {
				s.notifyRequest(ctx, requester, target)
				return nil
			}
			// 状态在读取后被改动，重读一次

		case isNotFound(err):
			low, high := model.CanonicalPair(requester, target)
			err = s.relRepo.Create(ctx, &model.Relationship{
				UserLow:     low,
				UserHigh:    high,
				RequesterId: requester,
				Status:      model.RelationPending,
			})
			if err == nil {
				s.notifyRequest(ctx, requester, target)
				return nil
			}
			if !errors.Is(err, repository.ErrDuplicateKey) {
				return internalError(ctx, "创建好友申请失败", err,
					logger.String("requester", requester), logger.String("target", target))
			}
			// 并发申请输给了另一方，重读后按现状返回

		default:
			return internalError(ctx, "查询好友关系失败", err,
				logger.String("requester", requester), logger.String("target", target))
		}
	}

	return ErrDuplicateRequest
}

// conflictFor 已有关系边时 requester 应得到的错误
func conflictFor(rel *model.Relationship, requester string) error {
	switch rel.Status {
	case model.RelationAccepted:
		return ErrAlreadyFriends
	case model.RelationBlocked:
		return ErrBlocked
	case model.RelationPending:
		if rel.RequesterId == requester {
			return ErrDuplicateRequest
		}
		return ErrIncomingPending
	default:
		return ErrDuplicateRequest
	}
}

func (s *friendServiceImpl) notifyRequest(ctx context.Context, requester, target string) {
	event := dto.FriendRequestEvent{RequesterId: requester}
	if p := lookupProfile(ctx, s.profileRepo, requester); p != nil {
		event.Username = p.Username
		event.Nickname = p.Nickname
		event.AvatarUrl = p.AvatarUrl
	}
	event.RequestedAt = nowFunc()
	s.publisher.PublishToUser(ctx, target, dispatch.Event{Type: dispatch.EventFriendRequest, Data: event})
}

// AcceptRequest 比较并交换 PENDING → ACCEPTED，没有匹配的申请时什么也不做
func (s *friendServiceImpl) AcceptRequest(ctx context.Context, target, requester string) error {
	if err := checkPair(target, requester); err != nil {
		return err
	}

	ok, err := s.relRepo.Accept(ctx, target, requester)
	if err != nil {
		return internalError(ctx, "接受好友申请失败", err,
			logger.String("target", target), logger.String("requester", requester))
	}
	if !ok {
		return nil
	}

	s.cache.Invalidate(ctx, target, requester)

	event := dto.FriendAcceptedEvent{UserId: target}
	if p := lookupProfile(ctx, s.profileRepo, target); p != nil {
		event.Username = p.Username
		event.Nickname = p.Nickname
		event.AvatarUrl = p.AvatarUrl
	}
	s.publisher.PublishToUser(ctx, requester, dispatch.Event{Type: dispatch.EventFriendAccepted, Data: event})
	return nil
}

// DeclineRequest PENDING → DECLINED，之后 requester 可以再次申请
func (s *friendServiceImpl) DeclineRequest(ctx context.Context, target, requester string) error {
	if err := checkPair(target, requester); err != nil {
		return err
	}
	if _, err := s.relRepo.Decline(ctx, target, requester); err != nil {
		return internalError(ctx, "拒绝好友申请失败", err,
			logger.String("target", target), logger.String("requester", requester))
	}
	return nil
}

// DeleteFriend 删除关系边（待处理、已接受、已拒绝），双方缓存一并失效。
// 拉黑边不受影响，只能由拉黑方 Unblock 解除。
func (s *friendServiceImpl) DeleteFriend(ctx context.Context, userID, peerID string) error {
	if err := checkPair(userID, peerID); err != nil {
		return err
	}
	deleted, err := s.relRepo.DeleteUnblocked(ctx, userID, peerID)
	if err != nil {
		return internalError(ctx, "删除好友失败", err,
			logger.String("user_id", userID), logger.String("peer_id", peerID))
	}
	if deleted {
		s.cache.Invalidate(ctx, userID, peerID)
	}
	return nil
}

// Block 拉黑后原有好友关系与申请一并失效
func (s *friendServiceImpl) Block(ctx context.Context, blocker, target string) error {
	if err := checkPair(blocker, target); err != nil {
		return err
	}
	if err := s.relRepo.Block(ctx, blocker, target); err != nil {
		return internalError(ctx, "拉黑失败", err,
			logger.String("blocker", blocker), logger.String("target", target))
	}
	s.cache.Invalidate(ctx, blocker, target)
	return nil
}

// Unblock 解除拉黑即删除关系边，双方需重新申请
func (s *friendServiceImpl) Unblock(ctx context.Context, blocker, target string) error {
	if err := checkPair(blocker, target); err != nil {
		return err
	}
	deleted, err := s.relRepo.Unblock(ctx, blocker, target)
	if err != nil {
		return internalError(ctx, "解除拉黑失败", err,
			logger.String("blocker", blocker), logger.String("target", target))
	}
	if deleted {
		s.cache.Invalidate(ctx, blocker, target)
	}
	return nil
}

// ListPending 收到的待处理申请，附申请人资料
func (s *friendServiceImpl) ListPending(ctx context.Context, userID string) ([]model.PendingRequestView, error) {
	rels, err := s.relRepo.ListIncomingPending(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询好友申请失败", err, logger.String("user_id", userID))
	}

	ids := make([]string, 0, len(rels))
	for _, rel := range rels {
		ids = append(ids, rel.RequesterId)
	}
	profiles := lookupProfiles(ctx, s.profileRepo, ids)

	views := make([]model.PendingRequestView, 0, len(rels))
	for _, rel := range rels {
		v := model.PendingRequestView{RequesterId: rel.RequesterId, RequestedAt: rel.UpdatedAt}
		if p, ok := profiles[rel.RequesterId]; ok {
			v.Username = p.Username
			v.Nickname = p.Nickname
			v.AvatarUrl = p.AvatarUrl
		}
		views = append(views, v)
	}
	return views, nil
}

// ListFriends 好友列表走读穿缓存，未命中时由 loadFriends 重建
func (s *friendServiceImpl) ListFriends(ctx context.Context, userID string) ([]model.FriendView, error) {
	views, err := s.cache.GetOrLoad(ctx, userID, func(ctx context.Context) ([]model.FriendView, error) {
		return s.loadFriends(ctx, userID)
	})
	if err != nil {
		return nil, internalError(ctx, "查询好友列表失败", err, logger.String("user_id", userID))
	}
	if views == nil {
		views = []model.FriendView{}
	}
	return views, nil
}

func (s *friendServiceImpl) loadFriends(ctx context.Context, userID string) ([]model.FriendView, error) {
	rels, err := s.relRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return []model.FriendView{}, nil
	}

	peers := make([]string, 0, len(rels))
	for _, rel := range rels {
		peers = append(peers, rel.Other(userID))
	}

	latest, err := s.msgRepo.LatestWithPeers(ctx, userID, peers)
	if err != nil {
		return nil, err
	}
	unread, err := s.msgRepo.UnreadBySender(ctx, userID, peers)
	if err != nil {
		return nil, err
	}
	profiles := lookupProfiles(ctx, s.profileRepo, peers)

	views := make([]model.FriendView, 0, len(rels))
	for _, rel := range rels {
		peer := rel.Other(userID)
		v := model.FriendView{
			UserId:      peer,
			FriendSince: rel.UpdatedAt,
			UnreadCount: unread[peer],
		}
		if p, ok := profiles[peer]; ok {
			v.Username = p.Username
			v.Nickname = p.Nickname
			v.AvatarUrl = p.AvatarUrl
		}
		if m, ok := latest[peer]; ok {
			v.LastMessage = &model.MessageSummary{
				Id:       m.Id,
				SenderId: m.SenderId,
				Content:  m.Content,
				SentAt:   m.SentAt,
			}
		}
		views = append(views, v)
	}
	return views, nil
}
