package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户表
type User struct {
	ID                 uint           `gorm:"primarykey" json:"id"`                 // 主键
	Email              string         `gorm:"uniqueIndex;not null" json:"email"`    // 邮箱（登录凭证）
	PasswordHash       string         `gorm:"not null" json:"-"`                    // 密码哈希（不返回给前端）
	FirstName          string         `gorm:"default:''" json:"first_name"`         // 名
	LastName           string         `gorm:"default:''" json:"last_name"`          // 姓
	Phone              string         `gorm:"default:''" json:"phone"`              // 电话
	UserType           string         `gorm:"default:'buyer';index" json:"user_type"` // 用户类型（buyer/seller）
	Locale             string         `gorm:"default:'en-US'" json:"locale"`        // 语言偏好
	Status             string         `gorm:"default:'active'" json:"status"`       // 账号状态
	TokenVersion       uint64         `gorm:"not null;default:0" json:"-"`          // Token 版本（用于全量失效）
	TokenInvalidBefore *time.Time     `gorm:"index" json:"-"`                       // 该时间点前签发的 Token 失效
	LastLoginAt        *time.Time     `json:"last_login_at"`                        // 最后登录时间
	CreatedAt          time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt          time.Time      `gorm:"index" json:"updated_at"`              // 更新时间
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间

	Profile *Profile `gorm:"foreignKey:UserID" json:"profile,omitempty"` // 用户资料
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}

// IsSeller 是否卖家账号
func (u *User) IsSeller() bool {
	return u.UserType == "seller"
}

// Profile 用户资料表（与用户一对一）
type Profile struct {
	ID           uint           `gorm:"primarykey" json:"id"`                 // 主键
	UserID       uint           `gorm:"uniqueIndex;not null" json:"user_id"`  // 用户ID
	Bio          string         `gorm:"type:text" json:"bio"`                 // 简介
	AvatarURL    string         `gorm:"type:varchar(500)" json:"avatar_url"`  // 头像地址
	BusinessName string         `gorm:"default:''" json:"business_name"`      // 商户名称（卖家）
	BusinessType string         `gorm:"default:''" json:"business_type"`      // 商户类型（卖家）
	Address      string         `gorm:"default:''" json:"address"`            // 地址
	City         string         `gorm:"default:''" json:"city"`               // 城市
	Country      string         `gorm:"default:''" json:"country"`            // 国家
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`              // 创建时间
	UpdatedAt    time.Time      `json:"updated_at"`                           // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                       // 软删除时间
}

// TableName 指定表名
func (Profile) TableName() string {
	return "profiles"
}
