package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ToolShare/ToolShare/internal/tool"
)

type Repo struct {
	db *gorm.DB
}

func NewRepo(db *gorm.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) withCtx(ctx context.Context) *gorm.DB {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.WithContext(ctx)
}

// overlapQuery 返回指定工具上与 [start, end) 重叠、且状态非终态的
// 预约条目查询。重叠判定用半开区间：start_at < end AND end_at > start，
// 首尾相接不算冲突。状态过滤必须显式带上，否则已归还/已取消的历史
// 预约会错误地阻塞新预约。
func overlapQuery(db *gorm.DB, toolID string, start, end time.Time, excludeBookingID string) *gorm.DB {
	q := db.Model(&BookingItem{}).
		Joins("JOIN bookings ON bookings.id = booking_items.booking_id").
		Where("booking_items.tool_id = ?", toolID).
		Where("bookings.status IN ?", NonTerminalStatuses).
		Where("bookings.start_at < ? AND bookings.end_at > ?", end, start)
	if excludeBookingID != "" {
		q = q.Where("bookings.id <> ?", excludeBookingID)
	}
	return q
}

// HasOverlap 冲突探测的持久层实现：对着库里当前的非终态预约判定，
// 不依赖任何内存快照。
func (r *Repo) HasOverlap(ctx context.Context, toolID string, start, end time.Time, excludeBookingID string) (bool, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return false, fmt.Errorf("repo db is nil")
	}
	var n int64
	if err := overlapQuery(db, toolID, start, end, excludeBookingID).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create 在单个事务里完成“锁定候选冲突行 -> 复查重叠 -> 写入聚合”。
// 并发的两笔重叠预约里，后提交的一笔会在行锁释放后看到先提交的
// 记录并拿到 Conflict；预约本体和条目要么全部落库要么全不落库。
func (r *Repo) Create(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range b.Items {
			it := &b.Items[i]

			var existing BookingItem
			err := overlapQuery(tx, it.ToolID, b.StartAt, b.EndAt, "").
				Clauses(clause.Locking{Strength: "UPDATE"}).
				Take(&existing).Error
			if err == nil {
				return E(KindConflict, "tool %s is already booked in the requested time window", it.ToolID)
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
		}

		if b.ID == "" {
			b.ID = uuid.NewString()
		}
		for i := range b.Items {
			if b.Items[i].ID == "" {
				b.Items[i].ID = uuid.NewString()
			}
			b.Items[i].BookingID = b.ID
		}
		return tx.Create(b).Error
	})
}

func (r *Repo) FindByID(ctx context.Context, id string) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Booking
	err := db.Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, E(KindNotFound, "booking %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// FindWithItems 连同条目一起取出，生命周期流转需要完整聚合。
func (r *Repo) FindWithItems(ctx context.Context, id string) (*Booking, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, fmt.Errorf("repo db is nil")
	}
	var b Booking
	err := db.Preload("Items").Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, E(KindNotFound, "booking %s not found", id)
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) Save(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Omit("Items").Save(b).Error
}

// SaveWithToolStatus 把预约状态写入和工具状态批量改写放进同一个事务。
// 两边必须同时可见，否则工具状态会和预约状态悄悄漂移。
func (r *Repo) SaveWithToolStatus(ctx context.Context, b *Booking, status tool.Status) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(b).Error; err != nil {
			return err
		}
		return tool.SetStatusBatch(tx, b.ToolIDs(), status)
	})
}

// Delete 预约连同条目一起删除。
func (r *Repo) Delete(ctx context.Context, b *Booking) error {
	db := r.withCtx(ctx)
	if db == nil {
		return fmt.Errorf("repo db is nil")
	}
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("booking_id = ?", b.ID).Delete(&BookingItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(b).Error
	})
}

// ListByOwner 支持分页，按创建时间倒序。
func (r *Repo) ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Booking, int64, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("owner_id = ?", ownerID)
	}, offset, limit)
}

func (r *Repo) ListByStatus(ctx context.Context, status Status, offset, limit int) ([]Booking, int64, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("status = ?", status)
	}, offset, limit)
}

// ListActive 当前时刻落在时间窗内的预约（start_at <= now <= end_at）。
func (r *Repo) ListActive(ctx context.Context, now time.Time, offset, limit int) ([]Booking, int64, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("start_at <= ? AND end_at >= ?", now, now)
	}, offset, limit)
}

func (r *Repo) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB, offset, limit int) ([]Booking, int64, error) {
	db := r.withCtx(ctx)
	if db == nil {
		return nil, 0, fmt.Errorf("repo db is nil")
	}
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	q := scope(db.Model(&Booking{}))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []Booking
	if err := q.Preload("Items").Order("created_at DESC").Offset(offset).Limit(limit).Find(&bookings).Error; err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}
