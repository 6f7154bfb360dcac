package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment 支付记录（一笔订单可有多条，失败后重试产生新记录）
type Payment struct {
	ID            uint           `gorm:"primarykey" json:"id"`                      // 主键
	OrderID       uint           `gorm:"index;not null" json:"order_id"`            // 订单ID
	Amount        Money          `gorm:"type:decimal(20,2);not null" json:"amount"` // 支付金额
	Currency      string         `gorm:"not null" json:"currency"`                  // 币种
	Method        string         `gorm:"not null" json:"method"`                    // 支付方式（card/mobile_money/...）
	Status        string         `gorm:"index;not null" json:"status"`              // 支付状态（pending/completed/failed）
	TransactionID string         `gorm:"index" json:"transaction_id"`               // 交易流水号（完成时生成）
	FailureReason string         `gorm:"type:text" json:"failure_reason,omitempty"` // 失败原因
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                   // 创建时间
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`                   // 更新时间
	CompletedAt   *time.Time     `gorm:"index" json:"completed_at"`                 // 完成时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                            // 软删除时间
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}
