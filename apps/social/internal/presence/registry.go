package presence

import (
	"errors"
	"sync"
)

// ErrRegistryClosed Shutdown 之后不再接受注册
var ErrRegistryClosed = errors.New("presence registry closed")

// Session 一条在线推送通道（通常是一条 WebSocket 连接）。
type Session interface {
	UserID() string
	SessionID() string
	// Enqueue 非阻塞投递，返回 false 表示会话已关闭或写队列已满
	Enqueue(msg []byte) bool
	Close()
}

// Registry 进程内在线会话表。
// 维护两套索引：
// - byKey(user_id:session_id) 用于同设备连接替换；
// - byUser(user_id -> session_id -> session) 用于按用户广播。
// 只存在于内存，重启即清空。
type Registry struct {
	mu       sync.RWMutex
	byKey    map[string]Session
	byUser   map[string]map[string]Session
	shutdown bool
}

// NewRegistry 创建在线会话表
func NewRegistry() *Registry {
	return &Registry{
		byKey:  make(map[string]Session),
		byUser: make(map[string]map[string]Session),
	}
}

// Register 注册会话。
// replaced 为同一 user+session 下被替换掉的旧会话，调用方负责关闭它。
func (r *Registry) Register(s Session) (replaced Session, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shutdown {
		return nil, ErrRegistryClosed
	}

	key := buildKey(s.UserID(), s.SessionID())
	if old, ok := r.byKey[key]; ok && old != s {
		replaced = old
	}

	r.byKey[key] = s
	sessions, ok := r.byUser[s.UserID()]
	if !ok {
		sessions = make(map[string]Session)
		r.byUser[s.UserID()] = sessions
	}
	sessions[s.SessionID()] = s
	return replaced, nil
}

// Unregister 注销会话。
// 只有表中当前会话与入参是同一个对象时才删除，防止并发替换时误删新会话。
func (r *Registry) Unregister(s Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := buildKey(s.UserID(), s.SessionID())
	current, ok := r.byKey[key]
	if !ok || current != s {
		return
	}

	delete(r.byKey, key)
	if sessions, ok := r.byUser[s.UserID()]; ok {
		delete(sessions, s.SessionID())
		if len(sessions) == 0 {
			delete(r.byUser, s.UserID())
		}
	}
}

// SendToUser 向用户的所有在线会话投递。
// 在读锁内拍快照，锁外入队，慢会话不会阻塞注册/注销。
// 返回成功入队的会话数，0 表示离线或全部投递失败。
func (r *Registry) SendToUser(userID string, msg []byte) (sent, failed int) {
	r.mu.RLock()
	sessions, ok := r.byUser[userID]
	if !ok || len(sessions) == 0 {
		r.mu.RUnlock()
		return 0, 0
	}
	snapshot := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		snapshot = append(snapshot, s)
	}
	r.mu.RUnlock()

	for _, s := range snapshot {
		if s.Enqueue(msg) {
			sent++
		} else {
			failed++
		}
	}
	return sent, failed
}

// IsOnline 用户是否至少有一个在线会话
func (r *Registry) IsOnline(userID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// HasSession 指定 user+session 是否仍有注册中的会话
func (r *Registry) HasSession(userID, sessionID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.byKey[buildKey(userID, sessionID)]
	return ok
}

// Count 在线会话数
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byKey)
}

// OnlineUsers 在线用户数
func (r *Registry) OnlineUsers() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser)
}

// Shutdown 关闭全部会话并拒绝后续注册，可重复调用
func (r *Registry) Shutdown() {
	r.mu.Lock()
	if r.shutdown {
		r.mu.Unlock()
		return
	}
	r.shutdown = true

	sessions := make([]Session, 0, len(r.byKey))
	for _, s := range r.byKey {
		sessions = append(sessions, s)
	}
	r.byKey = make(map[string]Session)
	r.byUser = make(map[string]map[string]Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

func buildKey(userID, sessionID string) string {
	return userID + ":" + sessionID
}
