package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/idgen"
	"FitSocial/pkg/logger"
)

// MessageOptions 消息服务参数
type MessageOptions struct {
	MaxContentLength int // 按字符计
	DefaultPageSize  int
	MaxPageSize      int
}

// messageServiceImpl 消息服务实现
type messageServiceImpl struct {
	msgRepo     repository.IMessageRepository
	relRepo     repository.IRelationshipRepository
	groupRepo   repository.IGroupRepository
	profileRepo repository.IProfileRepository
	cache       repository.IFriendCacheRepository
	publisher   dispatch.Publisher
	opts        MessageOptions
	nextID      func() int64
}

// NewMessageService 创建消息服务实例
func NewMessageService(
	msgRepo repository.IMessageRepository,
	relRepo repository.IRelationshipRepository,
	groupRepo repository.IGroupRepository,
	profileRepo repository.IProfileRepository,
	cache repository.IFriendCacheRepository,
	publisher dispatch.Publisher,
	opts MessageOptions,
) IMessageService {
	if opts.DefaultPageSize <= 0 {
		opts.DefaultPageSize = 20
	}
	if opts.MaxPageSize < opts.DefaultPageSize {
		opts.MaxPageSize = opts.DefaultPageSize
	}
	return &messageServiceImpl{
		msgRepo:     msgRepo,
		relRepo:     relRepo,
		groupRepo:   groupRepo,
		profileRepo: profileRepo,
		cache:       cache,
		publisher:   publisher,
		opts:        opts,
		nextID:      idgen.NextID,
	}
}

// SendMessage 发送消息。参数校验在任何存储访问之前完成。
func (s *messageServiceImpl) SendMessage(ctx context.Context, senderID string, req *dto.SendMessageRequest) (*model.MessageView, error) {
	if senderID == "" || req == nil {
		return nil, ErrInvalidTarget
	}
	direct, group := req.ReceiverID != "", req.GroupID != 0
	if direct == group || req.GroupID < 0 {
		return nil, ErrInvalidTarget
	}
	if direct && req.ReceiverID == senderID {
		return nil, ErrInvalidTarget
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, ErrEmptyContent
	}
	if s.opts.MaxContentLength > 0 && utf8.RuneCountInString(req.Content) > s.opts.MaxContentLength {
		return nil, ErrContentTooLong
	}

	if direct {
		return s.sendDirect(ctx, senderID, req.ReceiverID, req.Content)
	}
	return s.sendGroup(ctx, senderID, req.GroupID, req.Content)
}

func (s *messageServiceImpl) sendDirect(ctx context.Context, senderID, receiverID, content string) (*model.MessageView, error) {
	rel, err := s.relRepo.Get(ctx, senderID, receiverID)
	switch {
	case err == nil:
		if rel.Status == model.RelationBlocked {
			return nil, ErrBlocked
		}
	case isNotFound(err):
	default:
		return nil, internalError(ctx, "查询好友关系失败", err,
			logger.String("sender", senderID), logger.String("receiver", receiverID))
	}

	low, high := model.CanonicalPair(senderID, receiverID)
	msg := &model.Message{
		Id:         s.nextID(),
		SenderId:   senderID,
		ReceiverId: receiverID,
		PeerLow:    low,
		PeerHigh:   high,
		Content:    content,
		SentAt:     nowFunc(),
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, internalError(ctx, "保存私聊消息失败", err,
			logger.String("sender", senderID), logger.String("receiver", receiverID))
	}

	view := model.NewMessageView(msg, lookupProfile(ctx, s.profileRepo, senderID))
	s.cache.Invalidate(ctx, senderID, receiverID)
	s.publisher.PublishToUser(ctx, receiverID, dispatch.Event{Type: dispatch.EventNewMessage, Data: view})
	return &view, nil
}

func (s *messageServiceImpl) sendGroup(ctx context.Context, senderID string, groupID int64, content string) (*model.MessageView, error) {
	if err := s.requireMember(ctx, groupID, senderID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		Id:       s.nextID(),
		SenderId: senderID,
		GroupId:  groupID,
		Content:  content,
		SentAt:   nowFunc(),
		IsRead:   true,
	}
	if err := s.msgRepo.Create(ctx, msg); err != nil {
		return nil, internalError(ctx, "保存群消息失败", err,
			logger.String("sender", senderID), logger.Int64("group_id", groupID))
	}

	view := model.NewMessageView(msg, lookupProfile(ctx, s.profileRepo, senderID))
	s.publisher.PublishToGroup(ctx, groupID, senderID, dispatch.Event{Type: dispatch.EventNewMessage, Data: view})
	return &view, nil
}

// requireMember 群存在且 userID 是成员
func (s *messageServiceImpl) requireMember(ctx context.Context, groupID int64, userID string) error {
	return requireGroupMember(ctx, s.groupRepo, groupID, userID)
}

func requireGroupMember(ctx context.Context, groupRepo repository.IGroupRepository, groupID int64, userID string) error {
	if groupID <= 0 {
		return ErrGroupNotFound
	}
	ok, err := groupRepo.IsMember(ctx, groupID, userID)
	if err != nil {
		return internalError(ctx, "查询群成员失败", err,
			logger.Int64("group_id", groupID), logger.String("user_id", userID))
	}
	if ok {
		return nil
	}
	// 区分群不存在与非成员
	if _, err := groupRepo.GetByID(ctx, groupID); err != nil {
		if isNotFound(err) {
			return ErrGroupNotFound
		}
		return internalError(ctx, "查询群失败", err, logger.Int64("group_id", groupID))
	}
	return ErrNotGroupMember
}

// MarkAsRead 单条 UPDATE 批量置已读，读者的好友列表未读数随之变化
func (s *messageServiceImpl) MarkAsRead(ctx context.Context, readerID, senderID string) (int64, error) {
	if readerID == "" || senderID == "" || readerID == senderID {
		return 0, ErrInvalidTarget
	}
	n, err := s.msgRepo.MarkRead(ctx, readerID, senderID)
	if err != nil {
		return 0, internalError(ctx, "标记已读失败", err,
			logger.String("reader", readerID), logger.String("sender", senderID))
	}
	if n > 0 {
		s.cache.Invalidate(ctx, readerID)
	}
	return n, nil
}

// MarkGroupAsRead 水位线只前进，回退的上报被忽略；超过群内最新消息的上报截断到最新消息
func (s *messageServiceImpl) MarkGroupAsRead(ctx context.Context, readerID string, groupID, lastMessageID int64) error {
	if lastMessageID <= 0 {
		return ErrParam
	}
	if err := s.requireMember(ctx, groupID, readerID); err != nil {
		return err
	}
	maxID, err := s.msgRepo.MaxGroupMessageID(ctx, groupID)
	if err != nil {
		return internalError(ctx, "查询群最新消息失败", err, logger.Int64("group_id", groupID))
	}
	if maxID == 0 {
		return nil
	}
	if lastMessageID > maxID {
		lastMessageID = maxID
	}
	if err := s.groupRepo.AdvanceReadState(ctx, groupID, readerID, lastMessageID); err != nil {
		return internalError(ctx, "更新群已读位置失败", err,
			logger.Int64("group_id", groupID), logger.String("reader", readerID))
	}
	return nil
}

// UnreadCount 私聊未读数 + 各群水位线之后他人发送的消息数
func (s *messageServiceImpl) UnreadCount(ctx context.Context, userID string) (*dto.UnreadCountResponse, error) {
	direct, err := s.msgRepo.CountUnreadDirect(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "统计私聊未读失败", err, logger.String("user_id", userID))
	}
	byGroup, err := s.groupRepo.UnreadByGroup(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "统计群聊未读失败", err, logger.String("user_id", userID))
	}

	var group int64
	for _, n := range byGroup {
		group += n
	}
	return &dto.UnreadCountResponse{Direct: direct, Group: group, Total: direct + group}, nil
}

// ChatHistory 存储按时间倒序分页，返回前翻转为正序
func (s *messageServiceImpl) ChatHistory(ctx context.Context, userID, peerID string, page, pageSize int) (*dto.MessagePage, error) {
	if peerID == "" || peerID == userID {
		return nil, ErrInvalidTarget
	}
	page, pageSize = s.clampPage(page, pageSize)

	msgs, total, err := s.msgRepo.DirectHistory(ctx, userID, peerID, page, pageSize)
	if err != nil {
		return nil, internalError(ctx, "查询聊天记录失败", err,
			logger.String("user_id", userID), logger.String("peer_id", peerID))
	}
	return s.buildPage(ctx, msgs, total, page, pageSize), nil
}

// GroupHistory 仅群成员可查看
func (s *messageServiceImpl) GroupHistory(ctx context.Context, userID string, groupID int64, page, pageSize int) (*dto.MessagePage, error) {
	if err := s.requireMember(ctx, groupID, userID); err != nil {
		return nil, err
	}
	page, pageSize = s.clampPage(page, pageSize)

	msgs, total, err := s.msgRepo.GroupHistory(ctx, groupID, page, pageSize)
	if err != nil {
		return nil, internalError(ctx, "查询群聊记录失败", err,
			logger.String("user_id", userID), logger.Int64("group_id", groupID))
	}
	return s.buildPage(ctx, msgs, total, page, pageSize), nil
}

func (s *messageServiceImpl) clampPage(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = s.opts.DefaultPageSize
	}
	if pageSize > s.opts.MaxPageSize {
		pageSize = s.opts.MaxPageSize
	}
	return page, pageSize
}

func (s *messageServiceImpl) buildPage(ctx context.Context, msgs []*model.Message, total int64, page, pageSize int) *dto.MessagePage {
	senders := make([]string, 0, len(msgs))
	for _, m := range msgs {
		senders = append(senders, m.SenderId)
	}
	profiles := lookupProfiles(ctx, s.profileRepo, senders)

	items := make([]model.MessageView, len(msgs))
	for i, m := range msgs {
		// 倒序 → 正序
		items[len(msgs)-1-i] = model.NewMessageView(m, profiles[m.SenderId])
	}
	return &dto.MessagePage{Items: items, Total: total, Page: page, PageSize: pageSize}
}
