package booking

import "strings"

// Role 调用方角色的封闭枚举。新增角色必须同时修改 ResolveOwner
// 的 switch，避免字符串比较散落在各处。
type Role int

const (
	RoleUnknown Role = iota
	RoleMember       // 自助角色：只能为自己预约
	RoleAdmin        // 管理角色：必须指明替哪个 member 预约
)

// ParseRole 解析 JWT claims 里的角色字符串（大小写不敏感）。
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "member":
		return RoleMember
	case "admin":
		return RoleAdmin
	}
	return RoleUnknown
}

func (r Role) String() string {
	switch r {
	case RoleMember:
		return "member"
	case RoleAdmin:
		return "admin"
	}
	return "unknown"
}

// Caller 调用方身份，由传输层从认证结果映射而来，显式传入核心操作。
type Caller struct {
	Role    Role
	Subject string // 调用方自己的 subject id
}

// ResolveOwner 预约归属判定：
//   - member 无视请求里的归属人，强制写回自己的 subject；
//   - admin 必须显式给出归属人；
//   - 其余角色一律拒绝。
//
// 纯函数，无副作用。
func ResolveOwner(c Caller, requestedOwner string) (string, error) {
	requestedOwner = strings.TrimSpace(requestedOwner)
	switch c.Role {
	case RoleMember:
		if strings.TrimSpace(c.Subject) == "" {
			return "", E(KindUnauthorized, "caller subject is missing")
		}
		return c.Subject, nil
	case RoleAdmin:
		if requestedOwner == "" {
			return "", E(KindInvalidArgument, "admin must provide owner id when booking for a member")
		}
		return requestedOwner, nil
	default:
		return "", E(KindUnauthorized, "role %q cannot create bookings", c.Role)
	}
}
