package models

import (
	"time"

	"gorm.io/gorm"
)

// Product 商品表
type Product struct {
	ID            uint           `gorm:"primarykey" json:"id"`                                       // 主键
	SellerID      uint           `gorm:"not null;index" json:"seller_id"`                            // 卖家ID
	CategoryID    uint           `gorm:"not null;index" json:"category_id"`                          // 分类ID
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`                           // 唯一标识
	Name          string         `gorm:"not null" json:"name"`                                       // 商品名称
	Description   string         `gorm:"type:text" json:"description"`                               // 商品描述
	AIDescription string         `gorm:"type:text" json:"ai_description"`                            // AI 生成描述
	AIHashtags    StringArray    `gorm:"type:json" json:"ai_hashtags"`                               // AI 生成话题标签
	Price         Money          `gorm:"type:decimal(20,2);not null;default:0" json:"price"`         // 单价
	StockQuantity int            `gorm:"not null;default:0" json:"stock_quantity"`                   // 库存数量
	Status        string         `gorm:"type:varchar(20);not null;default:'draft';index" json:"status"` // 状态（draft/active/inactive/archived）
	Images        StringArray    `gorm:"type:json" json:"images"`                                    // 图片数组
	ViewCount     int64          `gorm:"not null;default:0" json:"view_count"`                       // 浏览次数
	ClickCount    int64          `gorm:"not null;default:0" json:"click_count"`                      // 点击次数
	ShareCount    int64          `gorm:"not null;default:0" json:"share_count"`                      // 分享次数
	SortOrder     int            `gorm:"default:0;index" json:"sort_order"`                          // 排序权重
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`                                                 // 更新时间
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`                                             // 软删除时间

	// 关联
	Category Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"` // 分类信息
	Seller   *User    `gorm:"foreignKey:SellerID" json:"seller,omitempty"`     // 卖家信息
}

// TableName 指定表名
func (Product) TableName() string {
	return "products"
}

// MainImage 返回首图（无图返回空串）
func (p *Product) MainImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
