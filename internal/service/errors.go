package service

import "errors"

// 业务层哨兵错误，由 HTTP 层映射为统一响应码
var (
	ErrNotFound     = errors.New("error.not_found")
	ErrInvalidInput = errors.New("error.invalid_input")

	// 账号
	ErrInvalidEmail       = errors.New("error.invalid_email")
	ErrEmailExists        = errors.New("error.email_exists")
	ErrInvalidCredentials = errors.New("error.invalid_credentials")
	ErrInvalidPassword    = errors.New("error.invalid_password")
	ErrWeakPassword       = errors.New("error.weak_password")
	ErrUserDisabled       = errors.New("error.user_disabled")
	ErrProfileEmpty       = errors.New("error.profile_empty")
	ErrSellerRequired     = errors.New("error.seller_required")

	// 验证码
	ErrCaptchaRequired      = errors.New("error.captcha_required")
	ErrCaptchaInvalid       = errors.New("error.captcha_invalid")
	ErrCaptchaConfigInvalid = errors.New("error.captcha_config_invalid")

	// 商品
	ErrSlugExists          = errors.New("error.slug_exists")
	ErrProductPriceInvalid = errors.New("error.product_price_invalid")
	ErrProductNotAvailable = errors.New("error.product_not_available")

	// 购物车 / 下单
	ErrInvalidQuantity = errors.New("error.invalid_quantity")
	ErrEmptyCart       = errors.New("error.cart_empty")

	// 订单 / 支付
	ErrOrderStatusInvalid     = errors.New("error.order_status_invalid")
	ErrOrderPaymentIncomplete = errors.New("error.order_payment_incomplete")
	ErrPaymentNotFound        = errors.New("error.payment_not_found")
	ErrPaymentTerminal        = errors.New("error.payment_terminal")
	ErrPaymentMethodInvalid   = errors.New("error.payment_method_invalid")
	ErrPaymentProvider        = errors.New("error.payment_provider")

	// 社交 / AI
	ErrSocialAccountExists   = errors.New("error.social_account_exists")
	ErrSocialPlatformInvalid = errors.New("error.social_platform_invalid")
	ErrSocialPostNotEditable = errors.New("error.social_post_not_editable")
	ErrSocialAccountInactive = errors.New("error.social_account_inactive")
	ErrAIDisabled            = errors.New("error.ai_disabled")
	ErrAIProvider            = errors.New("error.ai_provider")

	// 消息
	ErrConversationClosed = errors.New("error.conversation_closed")
)

// insufficientStockError 库存不足错误，携带商品名用于本地化输出
type insufficientStockError struct {
	productName string
}

func (e insufficientStockError) Error() string {
	return "error.insufficient_stock"
}

func (e insufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

func (e insufficientStockError) Key() string {
	return "error.insufficient_stock"
}

func (e insufficientStockError) Args() []interface{} {
	return []interface{}{e.productName}
}

// ErrInsufficientStock 库存不足（errors.Is 目标）
var ErrInsufficientStock = errors.New("error.insufficient_stock")

// NewInsufficientStockError 构造携带商品名的库存不足错误
func NewInsufficientStockError(productName string) error {
	return insufficientStockError{productName: productName}
}
