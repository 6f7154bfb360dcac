package models

import (
	"time"

	"gorm.io/gorm"
)

// SocialAccount 社交账号绑定表（同用户同平台唯一）
type SocialAccount struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                       // 主键
	UserID      uint           `gorm:"not null;uniqueIndex:idx_social_user_platform" json:"user_id"` // 用户ID
	Platform    string         `gorm:"type:varchar(20);not null;uniqueIndex:idx_social_user_platform" json:"platform"` // 平台（facebook/instagram/...）
	Handle      string         `gorm:"not null" json:"handle"`                                     // 平台账号名
	AccessToken string         `gorm:"type:text" json:"-"`                                         // 平台访问令牌（不返回给前端）
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`                     // 是否启用
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt   time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间
}

// TableName 指定表名
func (SocialAccount) TableName() string {
	return "social_accounts"
}

// SocialPost 社交帖子表
type SocialPost struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                         // 主键
	SellerID     uint           `gorm:"index;not null" json:"seller_id"`                              // 卖家ID
	ProductID    *uint          `gorm:"index" json:"product_id,omitempty"`                            // 关联商品ID（可空）
	Platform     string         `gorm:"type:varchar(20);not null" json:"platform"`                    // 目标平台
	Content      string         `gorm:"type:text;not null" json:"content"`                            // 帖子内容
	Hashtags     StringArray    `gorm:"type:json" json:"hashtags"`                                    // 话题标签
	ImageURL     string         `gorm:"type:varchar(500)" json:"image_url"`                           // 配图地址
	Status       string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // 状态（draft/scheduled/publishing/published/failed）
	ScheduledAt  *time.Time     `gorm:"index" json:"scheduled_at"`                                    // 计划发布时间
	PublishedAt  *time.Time     `gorm:"index" json:"published_at"`                                    // 实际发布时间
	ExternalRef  string         `gorm:"index" json:"external_ref,omitempty"`                          // 平台侧帖子标识
	ErrorMessage string         `gorm:"type:text" json:"error_message,omitempty"`                     // 发布失败原因
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"` // 关联商品
}

// TableName 指定表名
func (SocialPost) TableName() string {
	return "social_posts"
}
