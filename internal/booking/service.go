package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ToolShare/ToolShare/internal/tool"
)

// Store 预约核心消费的持久化契约。gorm 版实现见 Repo；
// 测试用内存假实现。Create 必须保证聚合的原子写入，并在
// 同一事务内复查时间窗冲突（并发双写时后到者得到 Conflict）。
type Store interface {
	Create(ctx context.Context, b *Booking) error
	FindByID(ctx context.Context, id string) (*Booking, error)
	FindWithItems(ctx context.Context, id string) (*Booking, error)
	Save(ctx context.Context, b *Booking) error
	SaveWithToolStatus(ctx context.Context, b *Booking, status tool.Status) error
	Delete(ctx context.Context, b *Booking) error
	HasOverlap(ctx context.Context, toolID string, start, end time.Time, excludeBookingID string) (bool, error)
	ListByOwner(ctx context.Context, ownerID string, offset, limit int) ([]Booking, int64, error)
	ListByStatus(ctx context.Context, status Status, offset, limit int) ([]Booking, int64, error)
	ListActive(ctx context.Context, now time.Time, offset, limit int) ([]Booking, int64, error)
}

// ToolStore 工具查找契约；找不到时返回 tool.ErrNotFound。
type ToolStore interface {
	FindByID(ctx context.Context, id string) (*tool.Tool, error)
}

// Service 封装预约领域的核心用例。当前时间由调用方显式传入，
// 便于确定性测试；调用方身份同理（Caller）。
type Service struct {
	store Store
	tools ToolStore
}

func NewService(store Store, tools ToolStore) *Service {
	return &Service{store: store, tools: tools}
}

// CreateBookingInput 创建预约的入参。
// member 角色下 OwnerID 被忽略；admin 角色下必填。
type CreateBookingInput struct {
	OwnerID string
	StartAt time.Time
	EndAt   time.Time
	ToolIDs []string
}

// CreateBooking 预约编排：归属判定 -> 时间窗校验 -> 逐个工具的
// 存在性/可预约性/冲突检查 -> 原子落库。任何一个工具失败都会
// 放弃整笔预约，不产生部分预约。预约阶段不改工具状态，占用
// 时间表靠预约记录本身。
func (s *Service) CreateBooking(ctx context.Context, caller Caller, in CreateBookingInput, now time.Time) (*Booking, error) {
	if s == nil || s.store == nil || s.tools == nil {
		return nil, fmt.Errorf("service not initialized")
	}

	ownerID, err := ResolveOwner(caller, in.OwnerID)
	if err != nil {
		return nil, err
	}

	startAt := in.StartAt.UTC()
	endAt := in.EndAt.UTC()
	now = now.UTC()

	if !startAt.Before(endAt) {
		return nil, E(KindInvalidArgument, "start date must be earlier than end date")
	}
	if startAt.Before(now) {
		return nil, E(KindInvalidArgument, "start date cannot be in the past")
	}
	if len(in.ToolIDs) == 0 {
		return nil, E(KindInvalidArgument, "at least one tool is required")
	}

	seen := make(map[string]struct{}, len(in.ToolIDs))
	toolIDs := make([]string, 0, len(in.ToolIDs))
	for _, id := range in.ToolIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, E(KindInvalidArgument, "tool id must not be empty")
		}
		if _, dup := seen[id]; dup {
			return nil, E(KindInvalidArgument, "duplicate tool id %s", id)
		}
		seen[id] = struct{}{}
		toolIDs = append(toolIDs, id)
	}

	for _, toolID := range toolIDs {
		t, err := s.tools.FindByID(ctx, toolID)
		if errors.Is(err, tool.ErrNotFound) {
			return nil, E(KindNotFound, "tool %s not found", toolID)
		}
		if err != nil {
			return nil, err
		}
		if !t.Status.Bookable() {
			return nil, E(KindConflict, "tool %s is not available for booking (status %s)", toolID, t.Status)
		}
		conflict, err := s.store.HasOverlap(ctx, toolID, startAt, endAt, "")
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, E(KindConflict, "tool %s is already booked in the requested time window", toolID)
		}
	}

	b := &Booking{
		ID:      uuid.NewString(),
		OwnerID: ownerID,
		StartAt: startAt,
		EndAt:   endAt,
		Status:  StatusReserved,
	}
	for _, toolID := range toolIDs {
		b.Items = append(b.Items, BookingItem{
			ID:        uuid.NewString(),
			BookingID: b.ID,
			ToolID:    toolID,
		})
	}

	if err := s.store.Create(ctx, b); err != nil {
		return nil, err
	}
	if b.ID == "" {
		return nil, E(KindInternal, "failed to create booking")
	}
	return b, nil
}

// Pickup 取用：reserved -> active，预约内全部工具置为在借。
// 不允许早于开始时间取用。
func (s *Service) Pickup(ctx context.Context, bookingID string, now time.Time) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	b, err := s.store.FindWithItems(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return nil, err
	}
	if b.Status != StatusReserved {
		return nil, E(KindInvalidOperation, "only reserved bookings can be picked up (status %s)", b.Status)
	}
	now = now.UTC()
	if now.Before(b.StartAt) {
		return nil, E(KindInvalidOperation, "cannot pick up before the booking start time")
	}

	if err := ApplyTransition(b, StatusActive, now); err != nil {
		return nil, err
	}
	if err := s.store.SaveWithToolStatus(ctx, b, tool.StatusBorrowed); err != nil {
		return nil, err
	}
	return b, nil
}

// ReturnResult 归还结果。Overdue 仅是信息性标记：逾期归还照样成功，
// 落库状态仍为 returned。
type ReturnResult struct {
	Booking *Booking
	Overdue bool
}

// Return 归还：reserved/active -> returned，预约内全部工具置回可借。
// 对已归还的预约再次调用得到 InvalidOperation，不会重复改写工具状态。
func (s *Service) Return(ctx context.Context, bookingID string, now time.Time) (*ReturnResult, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	b, err := s.store.FindWithItems(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return nil, err
	}
	now = now.UTC()
	overdue := b.EndAt.Before(now)

	if err := ApplyTransition(b, StatusReturned, now); err != nil {
		return nil, err
	}
	if err := s.store.SaveWithToolStatus(ctx, b, tool.StatusAvailable); err != nil {
		return nil, err
	}
	return &ReturnResult{Booking: b, Overdue: overdue}, nil
}

// UpdateWindowInput 管理端改期入参。
type UpdateWindowInput struct {
	StartAt time.Time
	EndAt   time.Time
}

// UpdateWindow 管理端修改预约时间窗。改期前对预约里的每个工具
// 重新跑冲突检测（排除本预约自身），不允许改出一个重叠窗口。
// 状态不在这里修改，生命周期操作是唯一入口。
func (s *Service) UpdateWindow(ctx context.Context, bookingID string, in UpdateWindowInput) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	b, err := s.store.FindWithItems(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return nil, err
	}

	startAt := in.StartAt.UTC()
	endAt := in.EndAt.UTC()
	if !startAt.Before(endAt) {
		return nil, E(KindInvalidArgument, "start date must be earlier than end date")
	}

	// 终态预约已不占时间表，改期没有意义
	if b.Status.IsTerminal() {
		return nil, E(KindInvalidOperation, "cannot reschedule a %s booking", b.Status)
	}

	for _, toolID := range b.ToolIDs() {
		conflict, err := s.store.HasOverlap(ctx, toolID, startAt, endAt, b.ID)
		if err != nil {
			return nil, err
		}
		if conflict {
			return nil, E(KindConflict, "tool %s is already booked in the requested time window", toolID)
		}
	}

	b.StartAt = startAt
	b.EndAt = endAt
	if err := s.store.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// DeleteBooking 管理端删除预约，连同条目一起移除。
func (s *Service) DeleteBooking(ctx context.Context, bookingID string) error {
	if s == nil || s.store == nil {
		return fmt.Errorf("service not initialized")
	}
	b, err := s.store.FindWithItems(ctx, strings.TrimSpace(bookingID))
	if err != nil {
		return err
	}
	return s.store.Delete(ctx, b)
}

func (s *Service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("service not initialized")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, E(KindInvalidArgument, "id required")
	}
	return s.store.FindWithItems(ctx, id)
}

// ListBookingsFilter 查询条件；零值字段不参与过滤。
type ListBookingsFilter struct {
	OwnerID string
	Status  Status
	Offset  int
	Limit   int
}

func (s *Service) ListBookings(ctx context.Context, f ListBookingsFilter) ([]Booking, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	if owner := strings.TrimSpace(f.OwnerID); owner != "" {
		return s.store.ListByOwner(ctx, owner, f.Offset, f.Limit)
	}
	if f.Status != "" {
		return s.store.ListByStatus(ctx, f.Status, f.Offset, f.Limit)
	}
	return nil, 0, E(KindInvalidArgument, "owner id or status filter required")
}

// ListActiveBookings 当前时刻落在时间窗内的预约。
func (s *Service) ListActiveBookings(ctx context.Context, now time.Time, offset, limit int) ([]Booking, int64, error) {
	if s == nil || s.store == nil {
		return nil, 0, fmt.Errorf("service not initialized")
	}
	return s.store.ListActive(ctx, now.UTC(), offset, limit)
}
