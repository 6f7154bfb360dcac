package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 支付状态常量
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCard         = "card"
	PaymentMethodMobileMoney  = "mobile_money"
	PaymentMethodBankTransfer = "bank_transfer"
	PaymentMethodPaypal       = "paypal"
	PaymentMethodCashless     = "cash_on_delivery"
)

// 商品状态常量
const (
	ProductStatusDraft    = "draft"
	ProductStatusActive   = "active"
	ProductStatusInactive = "inactive"
	ProductStatusArchived = "archived"
)

// 用户类型常量
const (
	UserTypeBuyer  = "buyer"
	UserTypeSeller = "seller"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 社交平台常量
const (
	SocialPlatformFacebook  = "facebook"
	SocialPlatformInstagram = "instagram"
	SocialPlatformTwitter   = "twitter"
	SocialPlatformTiktok    = "tiktok"
	SocialPlatformWhatsapp  = "whatsapp"
)

// 社交帖子状态常量
const (
	SocialPostStatusDraft      = "draft"
	SocialPostStatusScheduled  = "scheduled"
	SocialPostStatusPublishing = "publishing"
	SocialPostStatusPublished  = "published"
	SocialPostStatusFailed     = "failed"
)

// AI 生成内容类型常量
const (
	AIContentTypeDescription = "description"
	AIContentTypeHashtags    = "hashtags"
	AIContentTypeSocialPost  = "social_post"
)

// 通知类型常量
const (
	NotificationTypeOrderStatus   = "order_status"
	NotificationTypePaymentStatus = "payment_status"
	NotificationTypeChatMessage   = "chat_message"
	NotificationTypeSystem        = "system"
)

// 通知优先级常量
const (
	NotificationPriorityLow    = "low"
	NotificationPriorityNormal = "normal"
	NotificationPriorityHigh   = "high"
)

// 会话状态常量
const (
	ConversationStatusOpen   = "open"
	ConversationStatusClosed = "closed"
)

// 消息发送方常量
const (
	MessageSenderSeller   = "seller"
	MessageSenderCustomer = "customer"
)

// 验证码提供方常量
const (
	CaptchaProviderNone  = "none"
	CaptchaProviderImage = "image"
)

// 验证码校验场景常量
const (
	CaptchaSceneLogin    = "login"
	CaptchaSceneRegister = "register"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskNotificationDispatch = "notification:dispatch"
	TaskOrderStatusNotify    = "order:status_notify"
	TaskAIGenerateContent    = "ai:generate_content"
	TaskSocialPublishPost    = "social:publish_post"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sf"
)

// 订单号前缀常量
const (
	OrderNumberPrefix = "SF"
)

// 币种常量
const (
	SiteCurrencyDefault = "USD"
)

// 站点语言常量
const (
	LocaleEnUS = "en-US"
	LocaleFrFR = "fr-FR"
)

// 支持的站点语言顺序（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleFrFR}
