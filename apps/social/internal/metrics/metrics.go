package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fitsocial"

// 推送结果标签
const (
	ResultDelivered = "delivered" // 至少一个会话入队成功
	ResultOffline   = "offline"   // 无在线会话
	ResultDropped   = "dropped"   // 有会话但全部入队失败
	ResultError     = "error"     // 序列化或成员解析失败
)

var (
	// PushTotal 实时推送结果计数
	PushTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "push_total",
		Help:      "Realtime push attempts by event type and result.",
	}, []string{"event", "result"})

	// PlanNotifyTotal 计划广播每个好友的通知写入结果
	PlanNotifyTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "plan_notify_total",
		Help:      "Plan broadcast notifications by result.",
	}, []string{"result"})

	// HTTPRequestsTotal HTTP 请求计数
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by method, route and status.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration HTTP 请求耗时
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by method and route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})

	// WSUplinkTotal WebSocket 上行帧计数
	WSUplinkTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ws_uplink_total",
		Help:      "WebSocket uplink frames by type and result.",
	}, []string{"type", "result"})
)

// RegisterOnlineGauge 注册在线会话数指标，重复注册忽略
func RegisterOnlineGauge(reg prometheus.Registerer, count func() int) error {
	gauge := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "online_sessions",
		Help:      "Live push sessions held by this process.",
	}, func() float64 { return float64(count()) })

	if err := reg.Register(gauge); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}
