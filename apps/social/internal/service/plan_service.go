package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/dto"
	"FitSocial/apps/social/internal/metrics"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/idgen"
	"FitSocial/pkg/logger"
)

const (
	maxPlanTitleLength = 128

	planNotifyTemplate = "我刚刚开始了一个新计划：%s，一起来健身吧！"
)

// planServiceImpl 计划服务实现
type planServiceImpl struct {
	planRepo    repository.IPlanRepository
	relRepo     repository.IRelationshipRepository
	msgRepo     repository.IMessageRepository
	profileRepo repository.IProfileRepository
	cache       repository.IFriendCacheRepository
	publisher   dispatch.Publisher
	nextID      func() int64
}

// NewPlanService 创建计划服务实例
func NewPlanService(
	planRepo repository.IPlanRepository,
	relRepo repository.IRelationshipRepository,
	msgRepo repository.IMessageRepository,
	profileRepo repository.IProfileRepository,
	cache repository.IFriendCacheRepository,
	publisher dispatch.Publisher,
) IPlanService {
	return &planServiceImpl{
		planRepo:    planRepo,
		relRepo:     relRepo,
		msgRepo:     msgRepo,
		profileRepo: profileRepo,
		cache:       cache,
		publisher:   publisher,
		nextID:      idgen.NextID,
	}
}

// parsePlanDates 开始日期缺省为今天，结束日期不得早于开始日期
func parsePlanDates(start, end string) (time.Time, time.Time, error) {
	startDate := today()
	if start != "" {
		t, err := time.ParseInLocation(dto.DateLayout, start, time.Local)
		if err != nil {
			return time.Time{}, time.Time{}, ErrPlanInvalid
		}
		startDate = t
	}
	endDate, err := time.ParseInLocation(dto.DateLayout, end, time.Local)
	if err != nil || endDate.Before(startDate) {
		return time.Time{}, time.Time{}, ErrPlanInvalid
	}
	return startDate, endDate, nil
}

// CreatePlan 先落库计划，再给每个好友写一条通知私信（扇出写）。
// 每个好友的通知相互独立，单个失败只记日志，不影响后续好友，也不回滚计划。
func (s *planServiceImpl) CreatePlan(ctx context.Context, userID string, req *dto.CreatePlanRequest) (*dto.CreatePlanResponse, error) {
	if userID == "" || req == nil {
		return nil, ErrPlanInvalid
	}
	title := strings.TrimSpace(req.Title)
	if title == "" || utf8.RuneCountInString(title) > maxPlanTitleLength {
		return nil, ErrPlanInvalid
	}
	startDate, endDate, err := parsePlanDates(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}

	plan := &model.Plan{
		Id:          s.nextID(),
		UserId:      userID,
		Title:       title,
		Description: req.Description,
		StartDate:   startDate,
		EndDate:     endDate,
		Status:      model.PlanActive,
	}
	if err := s.planRepo.Create(ctx, plan); err != nil {
		return nil, internalError(ctx, "创建计划失败", err, logger.String("user_id", userID))
	}

	notified := s.notifyFriends(ctx, plan)
	return &dto.CreatePlanResponse{Plan: plan, Notified: notified}, nil
}

func (s *planServiceImpl) notifyFriends(ctx context.Context, plan *model.Plan) int {
	rels, err := s.relRepo.ListAccepted(ctx, plan.UserId)
	if err != nil {
		logger.Error(ctx, "计划通知查询好友失败，跳过通知",
			logger.Int64("plan_id", plan.Id),
			logger.ErrorField("error", err),
		)
		return 0
	}
	if len(rels) == 0 {
		return 0
	}

	sender := lookupProfile(ctx, s.profileRepo, plan.UserId)
	content := fmt.Sprintf(planNotifyTemplate, plan.Title)

	notified := 0
	for _, rel := range rels {
		peer := rel.Other(plan.UserId)
		low, high := model.CanonicalPair(plan.UserId, peer)
		msg := &model.Message{
			Id:         s.nextID(),
			SenderId:   plan.UserId,
			ReceiverId: peer,
			PeerLow:    low,
			PeerHigh:   high,
			Content:    content,
			SentAt:     nowFunc(),
		}
		if err := s.msgRepo.Create(ctx, msg); err != nil {
			metrics.PlanNotifyTotal.WithLabelValues(metrics.ResultError).Inc()
			logger.Warn(ctx, "计划通知写入失败",
				logger.Int64("plan_id", plan.Id),
				logger.String("friend_id", peer),
				logger.ErrorField("error", err),
			)
			continue
		}

		metrics.PlanNotifyTotal.WithLabelValues(metrics.ResultDelivered).Inc()
		notified++
		s.cache.Invalidate(ctx, peer)
		s.publisher.PublishToUser(ctx, peer, dispatch.Event{
			Type: dispatch.EventNewMessage,
			Data: model.NewMessageView(msg, sender),
		})
	}

	if notified > 0 {
		s.cache.Invalidate(ctx, plan.UserId)
	}
	return notified
}

// ActivePlans 进行中且未过期
func (s *planServiceImpl) ActivePlans(ctx context.Context, userID string) ([]*model.Plan, error) {
	plans, err := s.planRepo.ListActive(ctx, []string{userID}, today())
	if err != nil {
		return nil, internalError(ctx, "查询进行中计划失败", err, logger.String("user_id", userID))
	}
	return plans, nil
}

// CompletePlan 只有所有者能完成自己进行中的计划
func (s *planServiceImpl) CompletePlan(ctx context.Context, userID string, planID int64) error {
	if planID <= 0 {
		return ErrPlanNotFound
	}
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if isNotFound(err) {
			return ErrPlanNotFound
		}
		return internalError(ctx, "查询计划失败", err, logger.Int64("plan_id", planID))
	}
	if plan.UserId != userID {
		return ErrNoPermission
	}
	if plan.Status != model.PlanActive {
		return ErrPlanNotActive
	}

	ok, err := s.planRepo.Complete(ctx, planID, userID)
	if err != nil {
		return internalError(ctx, "完成计划失败", err, logger.Int64("plan_id", planID))
	}
	if !ok {
		// 并发完成
		return ErrPlanNotActive
	}
	return nil
}

// FriendsActivePlans 所有好友进行中的计划，按开始时间倒序
func (s *planServiceImpl) FriendsActivePlans(ctx context.Context, userID string) ([]dto.FriendPlanView, error) {
	rels, err := s.relRepo.ListAccepted(ctx, userID)
	if err != nil {
		return nil, internalError(ctx, "查询好友失败", err, logger.String("user_id", userID))
	}
	if len(rels) == 0 {
		return []dto.FriendPlanView{}, nil
	}

	peers := make([]string, 0, len(rels))
	for _, rel := range rels {
		peers = append(peers, rel.Other(userID))
	}
	plans, err := s.planRepo.ListActive(ctx, peers, today())
	if err != nil {
		return nil, internalError(ctx, "查询好友计划失败", err, logger.String("user_id", userID))
	}
	profiles := lookupProfiles(ctx, s.profileRepo, peers)

	views := make([]dto.FriendPlanView, 0, len(plans))
	for _, p := range plans {
		v := dto.FriendPlanView{UserId: p.UserId, Nickname: p.UserId, Plan: p}
		if prof, ok := profiles[p.UserId]; ok {
			v.Nickname = prof.DisplayName()
		}
		views = append(views, v)
	}
	return views, nil
}
