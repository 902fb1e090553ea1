package booking

import "time"

// AllowTransition 定义预约状态机的允许流转关系。
// cancelled / picked_up / overdue 是预留状态值，当前没有流转入口，
// 因此不出现在任何一条边上；逾期归还落库仍是 returned，只在结果里打标。
var AllowTransition = map[Status][]Status{
	StatusReserved: {StatusActive, StatusReturned},
	StatusActive:   {StatusReturned},
	// 终态：不允许再流转
	StatusReturned:  {},
	StatusCancelled: {},
	StatusPickedUp:  {},
	StatusOverdue:   {},
}

// CanTransition 判断 from -> to 是否是一个允许的状态流转。
func CanTransition(from, to Status) bool {
	allowed, ok := AllowTransition[from]
	if !ok {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}

// ApplyTransition 对预约应用状态变更，并维护关键时间字段。
// 只改内存对象，持久化由调用方在同一事务里完成。
func ApplyTransition(b *Booking, to Status, now time.Time) error {
	if b == nil {
		return E(KindInternal, "booking is nil")
	}
	from := b.Status
	if !CanTransition(from, to) {
		return E(KindInvalidOperation, "illegal booking status transition: %s -> %s", from, to)
	}

	b.Status = to

	switch to {
	case StatusActive:
		if b.PickedUpAt == nil {
			t := now
			b.PickedUpAt = &t
		}
	case StatusReturned:
		if b.ReturnedAt == nil {
			t := now
			b.ReturnedAt = &t
		}
	}
	return nil
}
