package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversation 买卖沟通会话表
type Conversation struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // 主键
	SellerID      uint           `gorm:"index;not null" json:"seller_id"`                            // 卖家ID
	ProductID     *uint          `gorm:"index" json:"product_id,omitempty"`                          // 关联商品ID（可空）
	CustomerName  string         `gorm:"default:''" json:"customer_name"`                            // 客户姓名
	CustomerEmail string         `gorm:"index;not null" json:"customer_email"`                       // 客户邮箱
	Status        string         `gorm:"type:varchar(10);not null;default:'open';index" json:"status"` // 会话状态（open/closed）
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                                    // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Product  *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`        // 关联商品
	Messages []Message `gorm:"foreignKey:ConversationID" json:"messages,omitempty"` // 消息列表
}

// TableName 指定表名
func (Conversation) TableName() string {
	return "conversations"
}

// Message 会话消息表
type Message struct {
	ID             uint           `gorm:"primarykey" json:"id"`                          // 主键
	ConversationID uint           `gorm:"index;not null" json:"conversation_id"`         // 会话ID
	SenderType     string         `gorm:"type:varchar(10);not null" json:"sender_type"`  // 发送方（seller/customer）
	Body           string         `gorm:"type:text;not null" json:"body"`                // 消息内容
	IsRead         bool           `gorm:"not null;default:false;index" json:"is_read"`   // 是否已读
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                       // 创建时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                // 软删除时间
}

// TableName 指定表名
func (Message) TableName() string {
	return "messages"
}
