package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 订单表
type Order struct {
	ID          uint           `gorm:"primarykey" json:"id"`                                      // 主键
	OrderNo     string         `gorm:"uniqueIndex;not null" json:"order_no"`                      // 订单编号（SF 前缀）
	PublicID    string         `gorm:"size:36;uniqueIndex;not null" json:"public_id"`             // 对外跟踪ID（分享链接用）
	UserID      uint           `gorm:"index;not null" json:"user_id"`                             // 买家ID
	Status      string         `gorm:"index;not null" json:"status"`                              // 订单状态
	Currency    string         `gorm:"not null" json:"currency"`                                  // 币种
	TotalAmount Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"` // 订单总额（快照单价×数量之和）
	Notes       string         `gorm:"type:text" json:"notes"`                                    // 买家备注
	ConfirmedAt *time.Time     `gorm:"index" json:"confirmed_at"`                                 // 确认时间
	ShippedAt   *time.Time     `gorm:"index" json:"shipped_at"`                                   // 发货时间
	DeliveredAt *time.Time     `gorm:"index" json:"delivered_at"`                                 // 送达时间
	CancelledAt *time.Time     `gorm:"index" json:"cancelled_at"`                                 // 取消时间
	CreatedAt   time.Time      `gorm:"index" json:"created_at"`                                   // 创建时间
	UpdatedAt   time.Time      `gorm:"index" json:"updated_at"`                                   // 更新时间
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`                                            // 软删除时间

	// 关联
	Items           []OrderItem      `gorm:"foreignKey:OrderID" json:"items,omitempty"`            // 订单项
	ShippingAddress *ShippingAddress `gorm:"foreignKey:OrderID" json:"shipping_address,omitempty"` // 收货地址
	Payments        []Payment        `gorm:"foreignKey:OrderID" json:"payments,omitempty"`         // 支付记录
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// OrderItem 订单项表（下单时冻结商品快照）
type OrderItem struct {
	ID           uint           `gorm:"primarykey" json:"id"`                                    // 主键
	OrderID      uint           `gorm:"index;not null" json:"order_id"`                          // 订单ID
	ProductID    uint           `gorm:"index;not null" json:"product_id"`                        // 商品ID
	ProductName  string         `gorm:"not null" json:"product_name"`                            // 商品名称快照
	ProductImage string         `gorm:"type:varchar(500)" json:"product_image"`                  // 商品首图快照
	UnitPrice    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"` // 下单时单价快照
	Quantity     int            `gorm:"not null" json:"quantity"`                                // 数量
	Subtotal     Money          `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`   // 行小计
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`                                 // 创建时间
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`                                 // 更新时间
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`                                          // 软删除时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// ShippingAddress 收货地址表（与订单一对一）
type ShippingAddress struct {
	ID            uint           `gorm:"primarykey" json:"id"`                // 主键
	OrderID       uint           `gorm:"uniqueIndex;not null" json:"order_id"` // 订单ID
	RecipientName string         `gorm:"not null" json:"recipient_name"`      // 收件人
	Phone         string         `gorm:"default:''" json:"phone"`             // 电话
	AddressLine1  string         `gorm:"not null" json:"address_line1"`       // 地址行1
	AddressLine2  string         `gorm:"default:''" json:"address_line2"`     // 地址行2
	City          string         `gorm:"not null" json:"city"`                // 城市
	State         string         `gorm:"default:''" json:"state"`             // 州/省
	PostalCode    string         `gorm:"default:''" json:"postal_code"`       // 邮编
	Country       string         `gorm:"not null" json:"country"`             // 国家
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`             // 创建时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                      // 软删除时间
}

// TableName 指定表名
func (ShippingAddress) TableName() string {
	return "shipping_addresses"
}
