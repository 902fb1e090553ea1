package booking

import "time"

// Status 预约状态枚举（持久化为字符串）。
type Status string

const (
	StatusReserved  Status = "reserved"  // 已预约，等待取用
	StatusActive    Status = "active"    // 已取用，工具在借
	StatusCancelled Status = "cancelled" // 已取消（预留，暂无流转入口）
	StatusPickedUp  Status = "picked_up" // 预留状态，暂无流转入口
	StatusReturned  Status = "returned"  // 已归还
	StatusOverdue   Status = "overdue"   // 预留；逾期在归还结果里以标记呈现
)

// IsTerminal 终态不再占用工具的时间表，也不阻塞新预约。
func (s Status) IsTerminal() bool {
	return s != StatusReserved && s != StatusActive
}

// NonTerminalStatuses 冲突检测只看这些状态的预约。
var NonTerminalStatuses = []Status{StatusReserved, StatusActive}

// Booking 预约聚合的 GORM 模型。时间窗为半开区间 [StartAt, EndAt)，
// 一律按 UTC 存取。状态只允许由生命周期流转修改。
type Booking struct {
	ID      string `gorm:"primaryKey;size:36"`
	OwnerID string `gorm:"index;size:36;not null"` // 预约归属人（member 的 subject id）

	StartAt time.Time `gorm:"index;not null"`
	EndAt   time.Time `gorm:"index;not null"`
	Status  Status    `gorm:"type:varchar(16);index;not null"`

	Items []BookingItem `gorm:"foreignKey:BookingID"`

	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
	PickedUpAt *time.Time
	ReturnedAt *time.Time
}

// BookingItem 预约中的单个工具，创建后不可变；
// 只能随整个预约一起删除。
type BookingItem struct {
	ID        string `gorm:"primaryKey;size:36"`
	BookingID string `gorm:"index;size:36;not null"`
	ToolID    string `gorm:"index;size:36;not null"`
}

// Overlaps 半开区间 [s1, e1) 与 [s2, e2) 的标准重叠判定。
// 首尾相接（一个预约结束时刻等于另一个开始时刻）不算冲突。
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// ToolIDs 返回预约中全部工具 ID（保持条目顺序）。
func (b *Booking) ToolIDs() []string {
	if b == nil || len(b.Items) == 0 {
		return nil
	}
	out := make([]string, 0, len(b.Items))
	for _, it := range b.Items {
		out = append(out, it.ToolID)
	}
	return out
}
