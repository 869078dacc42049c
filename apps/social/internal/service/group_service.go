package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/idgen"
	"FitSocial/pkg/logger"
)

const maxGroupNameLength = 64

// groupServiceImpl 群组服务实现
type groupServiceImpl struct {
	groupRepo   repository.IGroupRepository
	msgRepo     repository.IMessageRepository
	profileRepo repository.IProfileRepository
	nextID      func() int64
}

// NewGroupService 创建群组服务实例
func NewGroupService(
	groupRepo repository.IGroupRepository,
	msgRepo repository.IMessageRepository,
	profileRepo repository.IProfileRepository,
) IGroupService {
	return &groupServiceImpl{
		groupRepo:   groupRepo,
		msgRepo:     msgRepo,
		profileRepo: profileRepo,
		nextID:      idgen.NextID,
	}
}

// CreateGroup 创建者成为群主，初始成员逐个加入，单个失败只记日志
func (s *groupServiceImpl) CreateGroup(ctx context.Context, ownerID string, req *dto.CreateGroupRequest) (*model.ChatGroup, error) {
	if ownerID == "" || req == nil {
		return nil, ErrParam
	}
	name := strings.TrimSpace(req.Name)
	if name == "" || utf8.RuneCountInString(name) > maxGroupNameLength {
		return nil, ErrParam
	}

	group := &model.ChatGroup{
		Id:        s.nextID(),
		Name:      name,
		OwnerId:   ownerID,
		AvatarUrl: req.AvatarUrl,
		Notice:    req.Notice,
	}
	if err := s.groupRepo.Create(ctx, group, ownerID); err != nil {
		return nil, internalError(ctx, "创建群失败", err, logger.String("owner_id", ownerID))
	}

	for _, uid := range req.MemberIDs {
		if uid == "" || uid == ownerID {
			continue
		}
		if _, err := s.groupRepo.AddMember(ctx, group.Id, uid, model.GroupRoleMember); err != nil {
			logger.Warn(ctx, "添加初始群成员失败",
				logger.Int64("group_id", group.Id),
				logger.String("user_id", uid),
				logger.ErrorField("error", err),
			)
		}
	}
	return group, nil
}

// AddMember 群成员才能拉人，重复添加静默成功
func (s *groupServiceImpl) AddMember(ctx context.Context, operatorID string, groupID int64, userID string) error {
	if userID == "" {
		return ErrParam
	}
	if err := requireGroupMember(ctx, s.groupRepo, groupID, operatorID); err != nil {
		return err
	}
	if _, err := s.groupRepo.AddMember(ctx, groupID, userID, model.GroupRoleMember); err != nil {
		return internalError(ctx, "添加群成员失败", err,
			logger.Int64("group_id", groupID), logger.String("user_id", userID))
	}
	return nil
}

// ListMembers 成员按加入时间正序
func (s *groupServiceImpl) ListMembers(ctx context.Context, userID string, groupID int64) ([]dto.GroupMemberView, error) {
	if err := requireGroupMember(ctx, s.groupRepo, groupID, userID); err != nil {
		return nil, err
	}
	members, err := s.groupRepo.ListMembers(ctx, groupID)
	if err != nil {
		return nil, internalError(ctx, "查询群成员失败", err, logger.Int64("group_id", groupID))
	}

	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.UserId)
	}
	profiles := lookupProfiles(ctx, s.profileRepo, ids)

	views := make([]dto.GroupMemberView, 0, len(members))
	for _, m := range members {
		v := dto.GroupMemberView{UserId: m.UserId, Role: m.Role, JoinedAt: m.JoinedAt}
		if p, ok := profiles[m.UserId]; ok {
			v.Username = p.Username
			v.Nickname = p.Nickname
			v.AvatarUrl = p.AvatarUrl
		}
		views = append(views, v)
	}
	return views, nil
}

// ListMyGroups 附每个群最近一条消息和未读数
func (s *groupServiceImpl) ListMyGroups(ctx context.Context, userID string) ([]dto.GroupSummary, error) {
	groups, err := s.groupRepo.ListUserGroups(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询我的群失败", err, logger.String("user_id", userID))
	}
	if len(groups) == 0 {
		return []dto.GroupSummary{}, nil
	}

	ids := make([]int64, 0, len(groups))
	for _, g := range groups {
		ids = append(ids, g.Id)
	}
	latest, err := s.msgRepo.LatestInGroups(ctx, ids)
	if err != nil {
		return nil, internalError(ctx, "查询群最新消息失败", err, logger.String("user_id", userID))
	}
	unread, err := s.groupRepo.UnreadByGroup(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "统计群未读失败", err, logger.String("user_id", userID))
	}

	senders := make([]string, 0, len(latest))
	for _, m := range latest {
		senders = append(senders, m.SenderId)
	}
	profiles := lookupProfiles(ctx, s.profileRepo, senders)

	out := make([]dto.GroupSummary, 0, len(groups))
	for _, g := range groups {
		row := dto.GroupSummary{Group: g, UnreadCount: unread[g.Id]}
		if m, ok := latest[g.Id]; ok {
			v := model.NewMessageView(m, profiles[m.SenderId])
			row.LastMessage = &v
		}
		out = append(out, row)
	}
	return out, nil
}
