package repository

import (
	"context"
	"time"

	"FitSocial/model"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// profileRepositoryImpl 用户资料仓储：进程内 LRU + DB。
// 资料变更频率低，允许最多 ttl 的展示延迟。
type profileRepositoryImpl struct {
	db    *gorm.DB
	cache *expirable.LRU[string, *model.UserProfile]
}

// NewProfileRepository 创建资料仓储实例，size<=0 时关闭本地缓存
func NewProfileRepository(db *gorm.DB, size int, ttl time.Duration) IProfileRepository {
	r := &profileRepositoryImpl{db: db}
	if size > 0 {
		r.cache = expirable.NewLRU[string, *model.UserProfile](size, nil, ttl)
	}
	return r
}

// Get 查询单个用户资料
func (r *profileRepositoryImpl) Get(ctx context.Context, userID string) (*model.UserProfile, error) {
	profiles, err := r.BatchGet(ctx, []string{userID})
	if err != nil {
		return nil, err
	}
	p, ok := profiles[userID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	return p, nil
}

// BatchGet 先查 LRU，缺失部分一次性回源
func (r *profileRepositoryImpl) BatchGet(ctx context.Context, userIDs []string) (map[string]*model.UserProfile, error) {
	userIDs = dedupe(userIDs)
	result := make(map[string]*model.UserProfile, len(userIDs))

	missing := userIDs
	if r.cache != nil {
		missing = missing[:0:0]
		for _, id := range userIDs {
			if p, ok := r.cache.Get(id); ok {
				result[id] = p
				continue
			}
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return result, nil
	}

	var rows []*model.UserProfile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", missing).Find(&rows).Error; err != nil {
		return nil, WrapDBError(err)
	}
	for _, p := range rows {
		result[p.UserId] = p
		if r.cache != nil {
			r.cache.Add(p.UserId, p)
		}
	}
	return result, nil
}

// Upsert 写入或更新资料
func (r *profileRepositoryImpl) Upsert(ctx context.Context, profile *model.UserProfile) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"username", "nickname", "avatar_url", "updated_at"}),
		}).
		Create(profile).Error
	if err != nil {
		return WrapDBError(err)
	}
	if r.cache != nil {
		r.cache.Remove(profile.UserId)
	}
	return nil
}
