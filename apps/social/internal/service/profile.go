package service

import (
	"context"

	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/logger"
)

// 资料只用于展示，查询失败降级为空，不影响主流程

func lookupProfile(ctx context.Context, repo repository.IProfileRepository, userID string) *model.UserProfile {
	p, err := repo.Get(ctx, userID)
	if err != nil {
		if !isNotFound(err) {
			logger.Warn(ctx, "查询用户资料失败", logger.String("user_id", userID), logger.ErrorField("error", err))
		}
		return nil
	}
	return p
}

func lookupProfiles(ctx context.Context, repo repository.IProfileRepository, userIDs []string) map[string]*model.UserProfile {
	if len(userIDs) == 0 {
		return map[string]*model.UserProfile{}
	}
	profiles, err := repo.BatchGet(ctx, userIDs)
	if err != nil || profiles == nil {
		if err != nil {
			logger.Warn(ctx, "批量查询用户资料失败", logger.Int("count", len(userIDs)), logger.ErrorField("error", err))
		}
		return map[string]*model.UserProfile{}
	}
	return profiles
}
