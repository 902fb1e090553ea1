package tool

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

// ErrNotFound 工具不存在。由上层翻译成各自的错误分类。
var ErrNotFound = errors.New("tool not found")

func (r *Repo) Create(ctx context.Context, t *Tool) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *Repo) Update(ctx context.Context, t *Tool) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *Repo) Delete(ctx context.Context, t *Tool) error {
	if r == nil || r.db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return r.db.WithContext(ctx).Delete(t).Error
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Tool, error) {
	if r == nil || r.db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var t Tool
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// List 支持按 category_id / status 过滤 + 分页。
func (r *Repo) List(ctx context.Context, categoryID string, status Status, offset, limit int) ([]Tool, int64, error) {
	if r == nil || r.db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := r.db.WithContext(ctx).Model(&Tool{})
	if categoryID != "" {
		q = q.Where("category_id = ?", categoryID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tools []Tool
	if err := q.Order("created_at desc").Offset(offset).Limit(limit).Find(&tools).Error; err != nil {
		return nil, 0, err
	}
	return tools, total, nil
}

// SetStatusBatch 把一批工具的状态整体改写。
// 不存在的 ID 被自然跳过（引用已删除工具的预约不能卡住归还流程）。
// 生命周期流转调用时必须传入事务句柄，保证与预约状态写入同一事务。
func SetStatusBatch(tx *gorm.DB, ids []string, status Status) error {
	if tx == nil {
		return fmt.Errorf("tx is nil")
	}
	if len(ids) == 0 {
		return nil
	}
	return tx.Model(&Tool{}).Where("id IN ?", ids).Update("status", status).Error
}
