package repository

import "time"

// ProductListFilter 查询商品列表的过滤条件
type ProductListFilter struct {
	Page         int
	PageSize     int
	SellerID     uint
	CategoryID   string
	Status       string
	Search       string
	OnlyActive   bool
	WithCategory bool
}

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	SellerID    uint
	Status      string
	OrderNo     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// PaymentListFilter 查询支付列表的过滤条件
type PaymentListFilter struct {
	Page        int
	PageSize    int
	UserID      uint
	OrderID     uint
	Method      string
	Status      string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// NotificationListFilter 查询通知列表的过滤条件
type NotificationListFilter struct {
	Page       int
	PageSize   int
	UserID     uint
	Type       string
	OnlyUnread bool
}

// SocialPostListFilter 查询社交帖子列表的过滤条件
type SocialPostListFilter struct {
	Page      int
	PageSize  int
	SellerID  uint
	ProductID uint
	Platform  string
	Status    string
}

// ConversationListFilter 查询会话列表的过滤条件
type ConversationListFilter struct {
	Page     int
	PageSize int
	SellerID uint
	Status   string
	Search   string
}
