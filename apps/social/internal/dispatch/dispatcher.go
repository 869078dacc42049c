package dispatch

//go:generate mockgen -source=dispatcher.go -destination=mocks/mock_dispatcher.go -package=mocks

import (
	"context"
	"encoding/json"
	"time"

	"FitSocial/apps/social/internal/metrics"
	"FitSocial/pkg/async"
	"FitSocial/pkg/logger"
)

// EventType 推送事件类型
type EventType string

const (
	EventNewMessage     EventType = "new_message"
	EventFriendRequest  EventType = "friend_request"
	EventFriendAccepted EventType = "friend_accepted"
)

// Event 推送信封 {"type": ..., "data": ...}
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data"`
}

// MembershipResolver 群成员查询
type MembershipResolver interface {
	ListMemberIDs(ctx context.Context, groupID int64) ([]string, error)
}

// Presence 在线会话投递
type Presence interface {
	SendToUser(userID string, msg []byte) (sent, failed int)
}

// Publisher 业务层依赖的推送接口
type Publisher interface {
	PublishToUser(ctx context.Context, userID string, event Event)
	PublishToGroup(ctx context.Context, groupID int64, excludeUserID string, event Event)
}

// runner 异步执行器，签名与 async.RunSafe 一致
type runner func(ctx context.Context, task func(ctx context.Context), timeout time.Duration)

// Dispatcher 即发即弃的扇出推送。
// 调用立即返回；序列化、成员解析、入队都在协程池中执行。
// 失败只记录日志和指标，不重试，也不会影响已经落库的写操作。
type Dispatcher struct {
	presence Presence
	members  MembershipResolver
	timeout  time.Duration
	run      runner
}

// NewDispatcher timeout 为单次推送任务的超时
func NewDispatcher(presence Presence, members MembershipResolver, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		presence: presence,
		members:  members,
		timeout:  timeout,
		run:      async.RunSafe,
	}
}

// PublishToUser 推送给单个用户的全部在线会话
func (d *Dispatcher) PublishToUser(ctx context.Context, userID string, event Event) {
	if userID == "" {
		return
	}
	d.run(ctx, func(ctx context.Context) {
		payload, ok := d.encode(ctx, event)
		if !ok {
			return
		}
		d.deliver(ctx, userID, event.Type, payload)
	}, d.timeout)
}

// PublishToGroup 推送给群内除 excludeUserID 外的所有在线成员
func (d *Dispatcher) PublishToGroup(ctx context.Context, groupID int64, excludeUserID string, event Event) {
	d.run(ctx, func(ctx context.Context) {
		memberIDs, err := d.members.ListMemberIDs(ctx, groupID)
		if err != nil {
			metrics.PushTotal.WithLabelValues(string(event.Type), metrics.ResultError).Inc()
			logger.Warn(ctx, "群推送查询成员失败",
				logger.Int64("group_id", groupID),
				logger.ErrorField("error", err),
			)
			return
		}

		payload, ok := d.encode(ctx, event)
		if !ok {
			return
		}
		for _, uid := range memberIDs {
			if uid == excludeUserID {
				continue
			}
			d.deliver(ctx, uid, event.Type, payload)
		}
	}, d.timeout)
}

func (d *Dispatcher) encode(ctx context.Context, event Event) ([]byte, bool) {
	payload, err := json.Marshal(event)
	if err != nil {
		metrics.PushTotal.WithLabelValues(string(event.Type), metrics.ResultError).Inc()
		logger.Error(ctx, "推送事件序列化失败",
			logger.String("event", string(event.Type)),
			logger.ErrorField("error", err),
		)
		return nil, false
	}
	return payload, true
}

func (d *Dispatcher) deliver(ctx context.Context, userID string, eventType EventType, payload []byte) {
	sent, failed := d.presence.SendToUser(userID, payload)
	switch {
	case sent > 0:
		metrics.PushTotal.WithLabelValues(string(eventType), metrics.ResultDelivered).Inc()
	case failed > 0:
		metrics.PushTotal.WithLabelValues(string(eventType), metrics.ResultDropped).Inc()
		logger.Warn(ctx, "推送入队失败，写队列已满或连接已关闭",
			logger.String("to", userID),
			logger.String("event", string(eventType)),
			logger.Int("sessions", failed),
		)
	default:
		metrics.PushTotal.WithLabelValues(string(eventType), metrics.ResultOffline).Inc()
	}
}
