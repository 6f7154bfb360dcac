package models

import (
	"time"

	"gorm.io/gorm"
)

// Notification 站内通知表
type Notification struct {
	ID        uint           `gorm:"primarykey" json:"id"`                                             // 主键
	UserID    uint           `gorm:"index;not null" json:"user_id"`                                    // 接收用户ID
	Type      string         `gorm:"type:varchar(30);not null;index" json:"type"`                      // 通知类型（order_status/payment_status/chat_message/system）
	Priority  string         `gorm:"type:varchar(10);not null;default:'normal'" json:"priority"`       // 优先级（low/normal/high）
	Title     string         `gorm:"not null" json:"title"`                                            // 标题
	Body      string         `gorm:"type:text" json:"body"`                                            // 正文
	RefType   string         `gorm:"type:varchar(30)" json:"ref_type,omitempty"`                       // 关联业务类型（order/payment/conversation）
	RefID     uint           `gorm:"index" json:"ref_id,omitempty"`                                    // 关联业务ID
	IsRead    bool           `gorm:"not null;default:false;index" json:"is_read"`                      // 是否已读
	ReadAt    *time.Time     `json:"read_at"`                                                          // 已读时间
	CreatedAt time.Time      `gorm:"index" json:"created_at"`                                          // 创建时间
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`                                                   // 软删除时间
}

// TableName 指定表名
func (Notification) TableName() string {
	return "notifications"
}
