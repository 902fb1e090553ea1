package tool

import "time"

// Status 工具状态枚举（持久化为字符串）。
// 状态只由预约生命周期的同步写入和独立的工具管理操作修改。
type Status string

const (
	StatusAvailable   Status = "available"   // 可借
	StatusBooked      Status = "booked"      // 预留值（预约本身不改工具状态）
	StatusBorrowed    Status = "borrowed"    // 在借（active 预约取用后）
	StatusMaintenance Status = "maintenance" // 维修中，不可预约
	StatusRetired     Status = "retired"     // 已退役，不可预约
)

// Bookable 维修中/已退役的工具不接受任何新预约。
func (s Status) Bookable() bool {
	return s != StatusMaintenance && s != StatusRetired
}

// Tool 是 tools 表的 GORM 模型。
type Tool struct {
	ID          string    `gorm:"primaryKey;size:36"`
	Name        string    `gorm:"size:128;not null"`
	Description string    `gorm:"size:512"`
	CategoryID  string    `gorm:"index;size:36"` // 分类仅作外键引用，分类管理不在本服务
	Status      Status    `gorm:"type:varchar(16);index;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}
