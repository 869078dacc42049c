package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"FitSocial/apps/social/internal/metrics"
	"FitSocial/apps/social/internal/middleware"
	"FitSocial/apps/social/internal/presence"
	"FitSocial/apps/social/internal/service"
	"FitSocial/consts"
	"FitSocial/pkg/bizerr"
	"FitSocial/pkg/ctxmeta"
	"FitSocial/pkg/logger"
	"FitSocial/pkg/result"
	"FitSocial/pkg/util"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// 上行帧处理结果，对应 ws_uplink_total 的 result 标签
const (
	uplinkOK          = "ok"
	uplinkInvalid     = "invalid"
	uplinkUnsupported = "unsupported"
	uplinkLimited     = "limited"
	uplinkRejected    = "rejected"
	uplinkError       = "error"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	// 移动端与本地调试来源不固定，不校验 Origin
	CheckOrigin: func(_ *http.Request) bool {
		return true
	},
}

// WSOptions 单连接上行限流
type WSOptions struct {
	UplinkRate  float64
	UplinkBurst int
}

// WSHandler 负责 /ws 接入：升级连接、注册在线会话、处理上行帧。
// 鉴权由路由上的 JWT 中间件完成（支持 ?token=）。
type WSHandler struct {
	registry       *presence.Registry
	messageService service.IMessageService
	tracker        *presence.ActivityTracker
	opts           WSOptions
}

// NewWSHandler 创建 WebSocket 入口处理器
func NewWSHandler(registry *presence.Registry, messageService service.IMessageService, tracker *presence.ActivityTracker, opts WSOptions) *WSHandler {
	return &WSHandler{
		registry:       registry,
		messageService: messageService,
		tracker:        tracker,
		opts:           opts,
	}
}

// ServeWS 处理握手与接入。
// 1. 取登录用户与 device_id（query 优先，其次 token 中的设备，都没有则临时生成）。
// 2. 构建脱离请求生命周期的连接级 context。
// 3. 升级协议并进入连接主循环。
func (h *WSHandler) ServeWS(c *gin.Context) {
	userID, ok := middleware.GetUserUUID(c)
	if !ok {
		result.Unauthorized(c, consts.CodeUnauthorized)
		return
	}

	deviceID := strings.TrimSpace(c.Query("device_id"))
	claimDevice, _ := middleware.GetDeviceID(c)
	switch {
	case deviceID == "":
		deviceID = claimDevice
	case claimDevice != "" && claimDevice != deviceID:
		// token 绑定了设备时必须与握手参数一致
		result.Unauthorized(c, consts.CodeInvalidToken)
		return
	}
	if deviceID == "" {
		deviceID = util.NewUUID()
	}

	connCtx := ctxmeta.Detach(ctxmeta.FromGin(c))
	connCtx = ctxmeta.WithDeviceID(connCtx, deviceID)
	connCtx = ctxmeta.WithClientIP(connCtx, middleware.GetClientIP(c))

	conn, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn(connCtx, "WebSocket 升级失败",
			logger.ErrorField("error", err),
		)
		return
	}

	h.handleConnection(connCtx, presence.NewClient(conn, userID, deviceID))
}

// handleConnection 承载单个连接的完整生命周期，同设备重连时新连接替换旧连接
func (h *WSHandler) handleConnection(ctx context.Context, client *presence.Client) {
	replaced, err := h.registry.Register(client)
	if err != nil {
		// 进程正在退出
		client.Close()
		return
	}
	if replaced != nil {
		replaced.Close()
	}

	h.tracker.Touch(ctx, client.UserID(), client.SessionID())
	logger.Info(ctx, "WebSocket 连接已建立",
		logger.String("user_uuid", client.UserID()),
		logger.String("device_id", client.SessionID()),
		logger.Int("online_count", h.registry.Count()),
	)

	limiter := h.newUplinkLimiter()
	client.Run(ctx, func(raw []byte) {
		if !limiter.Allow() {
			metrics.WSUplinkTotal.WithLabelValues("any", uplinkLimited).Inc()
			h.sendError(ctx, client, consts.CodeTooManyRequests, "")
			return
		}
		h.handleFrame(ctx, client, raw)
	}, func() {
		h.registry.Unregister(client)
		// 同设备已被新连接替换时不能删活跃记录
		if !h.registry.HasSession(client.UserID(), client.SessionID()) {
			h.tracker.Remove(ctx, client.UserID(), client.SessionID())
		}
		logger.Info(ctx, "WebSocket 连接已断开",
			logger.String("user_uuid", client.UserID()),
			logger.String("device_id", client.SessionID()),
			logger.Int("online_count", h.registry.Count()),
		)
	})
}

func (h *WSHandler) newUplinkLimiter() *rate.Limiter {
	if h.opts.UplinkRate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := h.opts.UplinkBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(h.opts.UplinkRate), burst)
}

// handleFrame 处理上行帧：
// - heartbeat: 续期活跃时间，回 heartbeat_ack；
// - message: 走与 HTTP 相同的发送逻辑，回 message_ack 或 error。
func (h *WSHandler) handleFrame(ctx context.Context, session presence.Session, raw []byte) {
	envelope, err := ParseEnvelope(raw)
	if err != nil {
		metrics.WSUplinkTotal.WithLabelValues("unknown", uplinkInvalid).Inc()
		h.sendError(ctx, session, consts.CodeParamError, "invalid frame format")
		return
	}

	switch envelope.Type {
	case frameHeartbeat:
		h.tracker.Touch(ctx, session.UserID(), session.SessionID())
		metrics.WSUplinkTotal.WithLabelValues(frameHeartbeat, uplinkOK).Inc()
		h.send(ctx, session, frameHeartbeatAck, nil)

	case frameMessage:
		h.handleMessage(ctx, session, envelope.Data)

	default:
		metrics.WSUplinkTotal.WithLabelValues("unknown", uplinkUnsupported).Inc()
		h.sendError(ctx, session, consts.CodeParamError, "unsupported frame type")
	}
}

func (h *WSHandler) handleMessage(ctx context.Context, session presence.Session, data json.RawMessage) {
	var frame MessageFrame
	if len(data) == 0 || json.Unmarshal(data, &frame) != nil {
		metrics.WSUplinkTotal.WithLabelValues(frameMessage, uplinkInvalid).Inc()
		h.sendError(ctx, session, consts.CodeParamError, "")
		return
	}

	msg, err := h.messageService.SendMessage(ctx, session.UserID(), &frame.SendMessageRequest)
	if err != nil {
		if e, ok := bizerr.From(err); ok && e.Kind != bizerr.KindInternal {
			metrics.WSUplinkTotal.WithLabelValues(frameMessage, uplinkRejected).Inc()
			h.sendError(ctx, session, e.Code, e.Message)
			return
		}
		logger.Error(ctx, "WebSocket 发送消息失败",
			logger.ErrorField("error", err),
		)
		metrics.WSUplinkTotal.WithLabelValues(frameMessage, uplinkError).Inc()
		h.sendError(ctx, session, consts.CodeInternalError, "")
		return
	}

	metrics.WSUplinkTotal.WithLabelValues(frameMessage, uplinkOK).Inc()
	h.send(ctx, session, frameMessageAck, &MessageAck{
		ClientMsgID: frame.ClientMsgID,
		Message:     msg,
	})
}

func (h *WSHandler) sendError(ctx context.Context, session presence.Session, code int32, message string) {
	if message == "" {
		message = consts.GetMessage(code)
	}
	h.send(ctx, session, frameError, &ErrorData{Code: code, Message: message})
}

// send 入队失败说明连接不可写或消费过慢，直接关闭
func (h *WSHandler) send(ctx context.Context, session presence.Session, frameType string, data any) {
	payload, err := MarshalEnvelope(frameType, data)
	if err != nil {
		logger.Warn(ctx, "下行帧序列化失败",
			logger.String("type", frameType),
			logger.ErrorField("error", err),
		)
		return
	}
	if !session.Enqueue(payload) {
		session.Close()
	}
}
