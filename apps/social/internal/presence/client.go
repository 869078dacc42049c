package presence

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	defaultSendQueueSize = 64
	wsWriteTimeout       = 5 * time.Second
	wsPongWait           = 60 * time.Second
	wsPingPeriod         = wsPongWait * 9 / 10
	wsMaxFrameSize       = 64 << 10
)

// MessageHandler 上行帧回调，raw 为客户端原始载荷（JSON）
type MessageHandler func(raw []byte)

// CloseHandler 读写循环退出后的清理回调（例如从 Registry 注销）
type CloseHandler func()

// Client 封装单条 WebSocket 连接，实现 Session。
// - send 队列削峰，业务 goroutine 不直接阻塞在网络写；
// - done 是统一关闭信号，读写循环都监听它退出；
// - once 保证 Close 幂等。
type Client struct {
	conn      *websocket.Conn
	userID    string
	sessionID string
	send      chan []byte
	done      chan struct{}
	once      sync.Once
}

// NewClient 创建连接包装对象，sessionID 通常是设备 ID
func NewClient(conn *websocket.Conn, userID, sessionID string) *Client {
	return &Client{
		conn:      conn,
		userID:    userID,
		sessionID: sessionID,
		send:      make(chan []byte, defaultSendQueueSize),
		done:      make(chan struct{}),
	}
}

func (c *Client) UserID() string    { return c.userID }
func (c *Client) SessionID() string { return c.sessionID }

// Done 连接关闭信号
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Enqueue 投递到写队列，连接已关闭或队列满时返回 false
func (c *Client) Enqueue(msg []byte) bool {
	if len(msg) == 0 {
		return true
	}
	cloned := append([]byte(nil), msg...)
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case <-c.done:
		return false
	case c.send <- cloned:
		return true
	default:
		return false
	}
}

// Run 启动读写循环并阻塞到 readLoop 结束，退出时保证 Close 与 onClose 被调用
func (c *Client) Run(ctx context.Context, onMessage MessageHandler, onClose CloseHandler) {
	defer func() {
		c.Close()
		if onClose != nil {
			onClose()
		}
	}()

	go c.writeLoop(ctx)
	c.readLoop(ctx, onMessage)
}

// Close 幂等关闭：先发关闭信号，再关底层连接
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (c *Client) readLoop(ctx context.Context, onMessage MessageHandler) {
	c.conn.SetReadLimit(wsMaxFrameSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			return
		default:
		}

		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		// 任何上行帧都视为存活
		_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))

		if onMessage != nil {
			onMessage(raw)
		}
	}
}

// writeLoop 串行写出队列消息并定期发送 ping
func (c *Client) writeLoop(ctx context.Context) {
	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.Close()
			return
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.Close()
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.Close()
				return
			}
		}
	}
}
