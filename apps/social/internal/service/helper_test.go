package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"FitSocial/apps/social/internal/dispatch"
	"FitSocial/apps/social/internal/repository"
	"FitSocial/model"
	"FitSocial/pkg/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var serviceLoggerOnce sync.Once

func initServiceTestLogger() {
	serviceLoggerOnce.Do(func() {
		logger.ReplaceGlobal(zap.NewNop())
	})
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	initServiceTestLogger()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

// ==================== 推送记录 ====================

type publishedEvent struct {
	To      string
	GroupID int64
	Exclude string
	Event   dispatch.Event
}

// recordingPublisher 同步记录推送，代替异步的 Dispatcher
type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) PublishToUser(_ context.Context, userID string, event dispatch.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{To: userID, Event: event})
}

func (p *recordingPublisher) PublishToGroup(_ context.Context, groupID int64, excludeUserID string, event dispatch.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{GroupID: groupID, Exclude: excludeUserID, Event: event})
}

func (p *recordingPublisher) to(userID string, typ dispatch.EventType) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.To == userID && e.Event.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func (p *recordingPublisher) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

// ==================== 缓存记录 ====================

// recordingCache 直通 loader，记录失效的用户
type recordingCache struct {
	mu          sync.Mutex
	invalidated []string
	loads       int
}

func (c *recordingCache) GetOrLoad(ctx context.Context, _ string, loader repository.FriendListLoader) ([]model.FriendView, error) {
	c.mu.Lock()
	c.loads++
	c.mu.Unlock()
	return loader(ctx)
}

func (c *recordingCache) Invalidate(_ context.Context, userIDs ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, userIDs...)
}

func (c *recordingCache) invalidatedSet() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]int)
	for _, id := range c.invalidated {
		out[id]++
	}
	return out
}

// ==================== 组装 ====================

type testEnv struct {
	db        *gorm.DB
	relRepo   repository.IRelationshipRepository
	msgRepo   repository.IMessageRepository
	groupRepo repository.IGroupRepository
	planRepo  repository.IPlanRepository
	profiles  repository.IProfileRepository
	cache     repository.IFriendCacheRepository
	pub       *recordingPublisher

	friends  IFriendService
	messages IMessageService
	groups   IGroupService
	plans    IPlanService
}

// newTestEnv 真实 sqlite 仓储；cache 为 nil 时使用 recordingCache
func newTestEnv(t *testing.T, cache repository.IFriendCacheRepository) *testEnv {
	t.Helper()
	db := newTestDB(t)
	if cache == nil {
		cache = &recordingCache{}
	}
	env := &testEnv{
		db:        db,
		relRepo:   repository.NewRelationshipRepository(db),
		msgRepo:   repository.NewMessageRepository(db),
		groupRepo: repository.NewGroupRepository(db),
		planRepo:  repository.NewPlanRepository(db),
		profiles:  repository.NewProfileRepository(db, 128, time.Minute),
		cache:     cache,
		pub:       &recordingPublisher{},
	}
	env.friends = NewFriendService(env.relRepo, env.msgRepo, env.profiles, env.cache, env.pub)
	env.messages = NewMessageService(env.msgRepo, env.relRepo, env.groupRepo, env.profiles, env.cache, env.pub,
		MessageOptions{MaxContentLength: 20, DefaultPageSize: 2, MaxPageSize: 10})
	env.groups = NewGroupService(env.groupRepo, env.msgRepo, env.profiles)
	env.plans = NewPlanService(env.planRepo, env.relRepo, env.msgRepo, env.profiles, env.cache, env.pub)
	return env
}

// newRedisFriendCache miniredis 支撑的真实好友列表缓存
func newRedisFriendCache(t *testing.T) repository.IFriendCacheRepository {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	return repository.NewFriendCacheRepository(client, repository.FriendCacheOptions{
		TTL:                time.Hour,
		BreakerMaxFailures: 100,
		BreakerOpenTimeout: time.Second,
	})
}

func (e *testEnv) addProfile(t *testing.T, id, username, nickname string) {
	t.Helper()
	require.NoError(t, e.profiles.Upsert(context.Background(), &model.UserProfile{UserId: id, Username: username, Nickname: nickname}))
}

func (e *testEnv) makeFriends(t *testing.T, a, b string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, e.friends.SendRequest(ctx, a, b))
	require.NoError(t, e.friends.AcceptRequest(ctx, b, a))
}
