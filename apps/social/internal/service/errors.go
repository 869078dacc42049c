package service

import (
	"context"
	"errors"

	"FitSocial/apps/social/internal/repository"
	"FitSocial/consts"
	"FitSocial/pkg/bizerr"
	"FitSocial/pkg/logger"
)

// 业务错误，handler 通过 bizerr.CodeOf 取错误码
var (
	ErrParam          = bizerr.Validation(consts.CodeParamError)
	ErrSelfRequest    = bizerr.Validation(consts.CodeSelfRequest)
	ErrInvalidTarget  = bizerr.Validation(consts.CodeInvalidTarget)
	ErrEmptyContent   = bizerr.Validation(consts.CodeEmptyContent)
	ErrContentTooLong = bizerr.Validation(consts.CodeContentTooLong)
	ErrPlanInvalid    = bizerr.Validation(consts.CodePlanInvalid)

	ErrAlreadyFriends   = bizerr.Conflict(consts.CodeAlreadyFriend)
	ErrDuplicateRequest = bizerr.Conflict(consts.CodeFriendRequestSent)
	ErrIncomingPending  = ErrDuplicateRequest.WithMessage("对方已向你发送好友申请，请直接处理")
	ErrBlocked          = bizerr.Conflict(consts.CodeIsBlacklist)
	ErrNoPermission     = bizerr.Conflict(consts.CodeNoPermission)
	ErrPlanNotActive    = bizerr.Conflict(consts.CodePlanNotActive)

	ErrGroupNotFound  = bizerr.NotFound(consts.CodeGroupNotFound)
	ErrNotGroupMember = bizerr.NotFound(consts.CodeNotGroupMember)
	ErrPlanNotFound   = bizerr.NotFound(consts.CodePlanNotFound)
)

// internalError 记录日志并包装为内部错误
func internalError(ctx context.Context, msg string, err error, fields ...logger.Field) error {
	fields = append(fields, logger.ErrorField("error", err))
	logger.Error(ctx, msg, fields...)
	return bizerr.Internal(err)
}

// isNotFound 仓储层记录不存在
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrRecordNotFound)
}
