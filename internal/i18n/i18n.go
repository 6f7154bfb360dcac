package i18n

import (
	"fmt"
	"strings"

	"github.com/sellflow-next/internal/constants"

	"github.com/gin-gonic/gin"
)

// messages 语言包（key -> 文案模板）
var messages = map[string]map[string]string{
	constants.LocaleEnUS: {
		"error.internal":                  "Internal server error",
		"error.bad_request":               "Invalid request",
		"error.validation_failed":         "Request validation failed",
		"error.unauthorized":              "Authentication required",
		"error.forbidden":                 "You do not have permission to perform this action",
		"error.not_found":                 "Resource not found",
		"error.conflict":                  "Request conflicts with current state",
		"error.rate_limited":              "Too many requests, please try again later",
		"error.rate_limit_unavailable":    "Rate limiter is unavailable, please try again",
		"error.jwt_secret_missing":        "Authentication is not configured",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is malformed",
		"error.user_id_invalid":           "User identity is invalid",
		"error.user_id_type_invalid":      "User identity could not be resolved",
		"error.token_invalid":             "Invalid or expired token",
		"error.token_revoked":             "Token has been revoked, please sign in again",
		"error.login_too_many":            "Too many sign-in attempts, please try again later",
		"error.captcha_required":          "Captcha is required",
		"error.captcha_invalid":           "Captcha verification failed",
		"error.invalid_credentials":       "Invalid email or password",
		"error.user_disabled":             "This account has been disabled",
		"error.email_exists":              "This email is already registered",
		"error.weak_password":             "Password does not meet the security policy",
		"error.seller_required":           "Seller account required",
		"error.category_not_found":        "Category not found",
		"error.product_not_found":         "Product not found",
		"error.product_not_active":        "Product is not available for purchase",
		"error.invalid_quantity":          "Quantity must be a positive integer",
		"error.insufficient_stock":        "Insufficient stock for %s",
		"error.cart_empty":                "Cart is empty",
		"error.cart_item_not_found":       "Cart item not found",
		"error.order_not_found":           "Order not found",
		"error.order_status_invalid":      "Order cannot transition to the requested status",
		"error.order_payment_incomplete":  "Order has no completed payment",
		"error.shipping_address_required": "Shipping address is required",
		"error.payment_not_found":         "Payment not found",
		"error.payment_already_failed":    "Payment has already failed",
		"error.payment_method_invalid":    "Unsupported payment method",
		"error.notification_not_found":    "Notification not found",
		"error.conversation_not_found":    "Conversation not found",
		"error.conversation_closed":       "Conversation is closed",
		"error.message_empty":             "Message body must not be empty",
		"error.social_platform_invalid":   "Unsupported social platform",
		"error.social_account_exists":     "This platform is already connected",
		"error.social_account_not_found":  "Social account not found",
		"error.social_account_disabled":   "Social account is disabled",
		"error.social_post_not_found":     "Social post not found",
		"error.social_post_not_editable":  "Only draft or failed posts can be modified",
		"error.ai_content_type_invalid":   "Unsupported content type",
		"error.ai_disabled":               "Content generation is not enabled",
		"error.ai_provider":               "Content generation service is unavailable",
		"error.invalid_input":             "Invalid input",
		"error.invalid_email":             "Invalid email address",
		"error.invalid_password":          "Current password is incorrect",
		"error.profile_empty":             "Nothing to update",
		"error.slug_exists":               "This slug is already in use",
		"error.product_price_invalid":     "Product price must be positive",
		"error.captcha_config_invalid":    "Captcha is not configured",
		"error.payment_terminal":          "Payment has already completed",
		"error.payment_provider":          "Payment provider error",
		"error.social_account_inactive":   "Social account is not connected or inactive",
		"error.password_min_length":       "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a digit",
		"error.password_require_special":  "Password must contain a special character",
		"notification.order_status_title": "Order update",
		"notification.order_status_body":  "Order %s is now %s",
		"notification.chat_message_title": "New customer message",
		"notification.chat_message_body":  "%s sent you a new message",
		"notification.payment_status_title": "Payment update",
		"notification.payment_status_body":  "Payment for order %s is %s",
		"payment.status.completed":          "completed",
		"payment.status.failed":             "failed",
		"order.status.pending":            "pending",
		"order.status.confirmed":          "confirmed",
		"order.status.processing":         "processing",
		"order.status.shipped":            "shipped",
		"order.status.delivered":          "delivered",
		"order.status.cancelled":          "cancelled",
		"order.status.refunded":           "refunded",
		"message.success":                 "OK",
	},
	constants.LocaleFrFR: {
		"error.internal":                  "Erreur interne du serveur",
		"error.bad_request":               "Requête invalide",
		"error.validation_failed":         "La validation de la requête a échoué",
		"error.unauthorized":              "Authentification requise",
		"error.forbidden":                 "Vous n'avez pas la permission d'effectuer cette action",
		"error.not_found":                 "Ressource introuvable",
		"error.conflict":                  "La requête est en conflit avec l'état actuel",
		"error.rate_limited":              "Trop de requêtes, veuillez réessayer plus tard",
		"error.rate_limit_unavailable":    "Limiteur de débit indisponible, veuillez réessayer",
		"error.jwt_secret_missing":        "L'authentification n'est pas configurée",
		"error.auth_header_missing":       "L'en-tête Authorization est manquant",
		"error.auth_header_invalid":       "L'en-tête Authorization est mal formé",
		"error.user_id_invalid":           "Identité utilisateur invalide",
		"error.user_id_type_invalid":      "Impossible de résoudre l'identité utilisateur",
		"error.token_invalid":             "Jeton invalide ou expiré",
		"error.token_revoked":             "Le jeton a été révoqué, veuillez vous reconnecter",
		"error.login_too_many":            "Trop de tentatives de connexion, veuillez réessayer plus tard",
		"error.captcha_required":          "Le captcha est requis",
		"error.captcha_invalid":           "La vérification du captcha a échoué",
		"error.invalid_credentials":       "Email ou mot de passe invalide",
		"error.user_disabled":             "Ce compte a été désactivé",
		"error.email_exists":              "Cet email est déjà enregistré",
		"error.weak_password":             "Le mot de passe ne respecte pas la politique de sécurité",
		"error.seller_required":           "Compte vendeur requis",
		"error.category_not_found":        "Catégorie introuvable",
		"error.product_not_found":         "Produit introuvable",
		"error.product_not_active":        "Le produit n'est pas disponible à l'achat",
		"error.invalid_quantity":          "La quantité doit être un entier positif",
		"error.insufficient_stock":        "Stock insuffisant pour %s",
		"error.cart_empty":                "Le panier est vide",
		"error.cart_item_not_found":       "Article du panier introuvable",
		"error.order_not_found":           "Commande introuvable",
		"error.order_status_invalid":      "La commande ne peut pas passer au statut demandé",
		"error.order_payment_incomplete":  "La commande n'a aucun paiement complété",
		"error.shipping_address_required": "L'adresse de livraison est requise",
		"error.payment_not_found":         "Paiement introuvable",
		"error.payment_already_failed":    "Le paiement a déjà échoué",
		"error.payment_method_invalid":    "Moyen de paiement non pris en charge",
		"error.notification_not_found":    "Notification introuvable",
		"error.conversation_not_found":    "Conversation introuvable",
		"error.conversation_closed":       "La conversation est fermée",
		"error.message_empty":             "Le message ne doit pas être vide",
		"error.social_platform_invalid":   "Plateforme sociale non prise en charge",
		"error.social_account_exists":     "Cette plateforme est déjà connectée",
		"error.social_account_not_found":  "Compte social introuvable",
		"error.social_account_disabled":   "Le compte social est désactivé",
		"error.social_post_not_found":     "Publication sociale introuvable",
		"error.social_post_not_editable":  "Seules les publications en brouillon ou en échec peuvent être modifiées",
		"error.ai_content_type_invalid":   "Type de contenu non pris en charge",
		"error.ai_disabled":               "La génération de contenu n'est pas activée",
		"error.ai_provider":               "Le service de génération de contenu est indisponible",
		"error.invalid_input":             "Entrée invalide",
		"error.invalid_email":             "Adresse email invalide",
		"error.invalid_password":          "Le mot de passe actuel est incorrect",
		"error.profile_empty":             "Rien à mettre à jour",
		"error.slug_exists":               "Cet identifiant est déjà utilisé",
		"error.product_price_invalid":     "Le prix du produit doit être positif",
		"error.captcha_config_invalid":    "Le captcha n'est pas configuré",
		"error.payment_terminal":          "Le paiement est déjà complété",
		"error.payment_provider":          "Erreur du prestataire de paiement",
		"error.social_account_inactive":   "Le compte social n'est pas connecté ou est inactif",
		"error.password_min_length":       "Le mot de passe doit contenir au moins %d caractères",
		"error.password_require_upper":    "Le mot de passe doit contenir une lettre majuscule",
		"error.password_require_lower":    "Le mot de passe doit contenir une lettre minuscule",
		"error.password_require_number":   "Le mot de passe doit contenir un chiffre",
		"error.password_require_special":  "Le mot de passe doit contenir un caractère spécial",
		"notification.order_status_title": "Mise à jour de commande",
		"notification.order_status_body":  "La commande %s est maintenant %s",
		"notification.chat_message_title": "Nouveau message client",
		"notification.chat_message_body":  "%s vous a envoyé un nouveau message",
		"notification.payment_status_title": "Mise à jour de paiement",
		"notification.payment_status_body":  "Le paiement de la commande %s est %s",
		"payment.status.completed":          "effectué",
		"payment.status.failed":             "échoué",
		"order.status.pending":            "en attente",
		"order.status.confirmed":          "confirmée",
		"order.status.processing":         "en préparation",
		"order.status.shipped":            "expédiée",
		"order.status.delivered":          "livrée",
		"order.status.cancelled":          "annulée",
		"order.status.refunded":           "remboursée",
		"message.success":                 "OK",
	},
}

// ResolveLocale 解析请求语言：query > header > 默认
func ResolveLocale(c *gin.Context) string {
	if c == nil {
		return constants.LocaleEnUS
	}
	if locale := Normalize(c.Query("locale")); locale != "" {
		return locale
	}
	if locale := Normalize(c.GetHeader("Accept-Language")); locale != "" {
		return locale
	}
	return constants.LocaleEnUS
}

// Normalize 将语言标识归一化到支持的语言，未命中返回空串
func Normalize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	// Accept-Language 可能带权重列表，取第一段
	if idx := strings.IndexAny(raw, ",;"); idx >= 0 {
		raw = raw[:idx]
	}
	raw = strings.TrimSpace(raw)
	for _, locale := range constants.SupportedLocales {
		if strings.EqualFold(raw, locale) {
			return locale
		}
		// 仅语言前缀匹配（en -> en-US）
		if prefix, _, ok := strings.Cut(locale, "-"); ok && strings.EqualFold(raw, prefix) {
			return locale
		}
	}
	return ""
}

// T 按语言取文案，未命中回退 en-US，再回退 key 本身
func T(locale, key string) string {
	if catalog, ok := messages[locale]; ok {
		if msg, ok := catalog[key]; ok {
			return msg
		}
	}
	if msg, ok := messages[constants.LocaleEnUS][key]; ok {
		return msg
	}
	return key
}

// Sprintf 按语言取文案并格式化参数
func Sprintf(locale, key string, args ...interface{}) string {
	template := T(locale, key)
	if len(args) == 0 {
		return template
	}
	return fmt.Sprintf(template, args...)
}
