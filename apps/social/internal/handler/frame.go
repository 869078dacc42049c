package handler

import (
	"encoding/json"
	"errors"
	"strings"

	"FitSocial/apps/social/internal/dto"
)

// 上行帧类型
const (
	frameHeartbeat = "heartbeat"
	frameMessage   = "message"
)

// 下行帧类型
const (
	frameHeartbeatAck = "heartbeat_ack"
	frameMessageAck   = "message_ack"
	frameError        = "error"
)

// Envelope WebSocket 通用消息包，Data 由上层按 Type 再解析
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// ErrorData type=error 时的 data
type ErrorData struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// MessageFrame type=message 时的 data，client_msg_id 原样带回 ack 供客户端对账
type MessageFrame struct {
	ClientMsgID string `json:"client_msg_id"`
	dto.SendMessageRequest
}

// MessageAck type=message_ack 时的 data
type MessageAck struct {
	ClientMsgID string      `json:"client_msg_id,omitempty"`
	Message     interface{} `json:"message"`
}

var errFrameTypeRequired = errors.New("type is required")

// ParseEnvelope 解析客户端上行帧
func ParseEnvelope(raw []byte) (*Envelope, error) {
	var envelope Envelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, err
	}
	envelope.Type = strings.TrimSpace(envelope.Type)
	if envelope.Type == "" {
		return nil, errFrameTypeRequired
	}
	return &envelope, nil
}

// MarshalEnvelope 组装下行帧，data=nil 时省略 data 字段
func MarshalEnvelope(frameType string, data any) ([]byte, error) {
	envelope := map[string]any{
		"type": frameType,
	}
	if data != nil {
		envelope["data"] = data
	}
	return json.Marshal(envelope)
}
