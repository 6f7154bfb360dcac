package public

import (
	"errors"

	"github.com/sellflow-next/internal/http/response"
	"github.com/sellflow-next/internal/i18n"
	"github.com/sellflow-next/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

// keyedError 带参数的业务错误（库存不足、密码策略），按 key+args 渲染文案
type keyedError interface {
	Key() string
	Args() []interface{}
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	keyed, isKeyed := err.(keyedError)
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			// 规则命中时 keyed 错误仍用自身 key+args 渲染，保留规则的状态码
			if isKeyed {
				locale := i18n.ResolveLocale(c)
				respondErrorWithMsg(c, rule.code, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...), nil)
				return
			}
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	if isKeyed {
		locale := i18n.ResolveLocale(c)
		respondErrorWithMsg(c, response.CodeBadRequest, i18n.Sprintf(locale, keyed.Key(), keyed.Args()...), nil)
		return
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.cart_item_not_found"},
	{target: service.ErrInvalidQuantity, code: response.CodeBadRequest, key: "error.invalid_quantity"},
	{target: service.ErrProductNotAvailable, code: response.CodeBadRequest, key: "error.product_not_active"},
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrEmptyCart, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.shipping_address_required"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrInsufficientStock, code: response.CodeConflict, key: "error.insufficient_stock"},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeConflict, key: "error.order_status_invalid"},
	{target: service.ErrOrderPaymentIncomplete, code: response.CodeConflict, key: "error.order_payment_incomplete"},
}

var paymentErrorRules = []mappedHandlerError{
	{target: service.ErrPaymentNotFound, code: response.CodeNotFound, key: "error.payment_not_found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrPaymentTerminal, code: response.CodeConflict, key: "error.payment_terminal"},
	{target: service.ErrPaymentMethodInvalid, code: response.CodeBadRequest, key: "error.payment_method_invalid"},
	{target: service.ErrOrderStatusInvalid, code: response.CodeConflict, key: "error.order_status_invalid"},
	{target: service.ErrPaymentProvider, code: response.CodeProviderError, key: "error.payment_provider"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_input"},
	{target: service.ErrSlugExists, code: response.CodeConflict, key: "error.slug_exists"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},
}

var categoryErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_input"},
	{target: service.ErrSlugExists, code: response.CodeConflict, key: "error.slug_exists"},
}

var notificationErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.notification_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_input"},
}

var socialErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.social_post_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.invalid_input"},
	{target: service.ErrSocialPlatformInvalid, code: response.CodeBadRequest, key: "error.social_platform_invalid"},
	{target: service.ErrSocialAccountExists, code: response.CodeConflict, key: "error.social_account_exists"},
	{target: service.ErrSocialAccountInactive, code: response.CodeConflict, key: "error.social_account_inactive"},
	{target: service.ErrSocialPostNotEditable, code: response.CodeConflict, key: "error.social_post_not_editable"},
}

var aiErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.ai_content_type_invalid"},
	{target: service.ErrAIDisabled, code: response.CodeBadRequest, key: "error.ai_disabled"},
	{target: service.ErrAIProvider, code: response.CodeProviderError, key: "error.ai_provider"},
}

var chatErrorRules = []mappedHandlerError{
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.conversation_not_found"},
	{target: service.ErrInvalidInput, code: response.CodeBadRequest, key: "error.message_empty"},
	{target: service.ErrConversationClosed, code: response.CodeConflict, key: "error.conversation_closed"},
	{target: service.ErrSellerRequired, code: response.CodeBadRequest, key: "error.seller_required"},
}
