package staff

import (
	"time"
)

// Staff 店员实体(聚合根)
// 店员登录后才能上架、进货、调价和收银
// 1. Password是bcrypt哈希值,不暴露明文
// 2. 领域实体不依赖GORM tag
type Staff struct {
	ID        uint
	Email     string
	Password  string // bcrypt哈希值
	Nickname  string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewStaff 创建店员(工厂方法)
// hashedPassword必须是bcrypt加密后的密码
func NewStaff(email, hashedPassword, nickname string) *Staff {
	now := time.Now()
	return &Staff{
		Email:     email,
		Password:  hashedPassword,
		Nickname:  nickname,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
