package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sellflow-next/internal/ai"
	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"
)

// AIContentService 商品营销内容生成服务。未配置外部生成服务时
// 退化为模板生成，保证功能闭环。
type AIContentService struct {
	cfg         config.AIConfig
	client      *ai.Client
	productRepo repository.ProductRepository
}

// NewAIContentService 创建内容生成服务
func NewAIContentService(cfg config.AIConfig, productRepo repository.ProductRepository) *AIContentService {
	return &AIContentService{
		cfg:         cfg,
		client:      ai.NewClient(cfg),
		productRepo: productRepo,
	}
}

// GenerateResult 生成结果
type GenerateResult struct {
	ContentType string   `json:"content_type"`
	Content     string   `json:"content,omitempty"`
	Hashtags    []string `json:"hashtags,omitempty"`
}

// GenerateForProduct 为卖家商品生成指定类型内容并回写到商品
func (s *AIContentService) GenerateForProduct(ctx context.Context, sellerID, productID uint, contentType, locale string) (*GenerateResult, error) {
	contentType = strings.ToLower(strings.TrimSpace(contentType))
	switch contentType {
	case constants.AIContentTypeDescription, constants.AIContentTypeHashtags, constants.AIContentTypeSocialPost:
	default:
		return nil, ErrInvalidInput
	}

	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.SellerID != sellerID {
		return nil, ErrNotFound
	}

	result, err := s.generate(ctx, product, contentType, locale)
	if err != nil {
		return nil, err
	}

	switch contentType {
	case constants.AIContentTypeDescription:
		product.AIDescription = result.Content
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	case constants.AIContentTypeHashtags:
		product.AIHashtags = models.StringArray(result.Hashtags)
		if err := s.productRepo.Update(product); err != nil {
			return nil, err
		}
	}
	return result, nil
}

func (s *AIContentService) generate(ctx context.Context, product *models.Product, contentType, locale string) (*GenerateResult, error) {
	if s.client != nil {
		result, err := s.generateRemote(ctx, product, contentType, locale)
		if err == nil {
			return result, nil
		}
		logger.Warnw("ai_generate_fallback",
			"product_id", product.ID,
			"content_type", contentType,
			"error", err,
		)
	}
	return s.generateFallback(product, contentType), nil
}

func (s *AIContentService) generateRemote(ctx context.Context, product *models.Product, contentType, locale string) (*GenerateResult, error) {
	prompt := buildPrompt(product, contentType, locale)
	content, err := s.client.Complete(ctx, []ai.Message{
		{Role: "system", Content: "You are a marketing copywriter for a social commerce platform."},
		{Role: "user", Content: prompt},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAIProvider, err)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrAIProvider
	}

	result := &GenerateResult{ContentType: contentType}
	if contentType == constants.AIContentTypeHashtags {
		result.Hashtags = parseHashtags(content)
		if len(result.Hashtags) == 0 {
			return nil, ErrAIProvider
		}
	} else {
		result.Content = content
	}
	return result, nil
}

func (s *AIContentService) generateFallback(product *models.Product, contentType string) *GenerateResult {
	result := &GenerateResult{ContentType: contentType}
	switch contentType {
	case constants.AIContentTypeDescription:
		result.Content = fmt.Sprintf("%s - available now for %s %s. %s",
			product.Name, product.Price.String(), constants.SiteCurrencyDefault, strings.TrimSpace(product.Description))
	case constants.AIContentTypeHashtags:
		base := slugToTag(product.Slug)
		result.Hashtags = []string{"#" + base, "#shopnow", "#sellflow"}
	case constants.AIContentTypeSocialPost:
		result.Content = fmt.Sprintf("New in store: %s! Get yours today for %s %s.",
			product.Name, product.Price.String(), constants.SiteCurrencyDefault)
	}
	return result
}

func buildPrompt(product *models.Product, contentType, locale string) string {
	lang := "English"
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(locale)), "fr") {
		lang = "French"
	}
	switch contentType {
	case constants.AIContentTypeDescription:
		return fmt.Sprintf("Write a compelling product description in %s for %q. Current description: %q. Price: %s %s. Keep it under 120 words.",
			lang, product.Name, product.Description, product.Price.String(), constants.SiteCurrencyDefault)
	case constants.AIContentTypeHashtags:
		return fmt.Sprintf("Generate 8 social media hashtags in %s for the product %q. Return them space-separated, each starting with #.",
			lang, product.Name)
	default:
		return fmt.Sprintf("Write a short social media post in %s announcing the product %q priced at %s %s. Include a call to action.",
			lang, product.Name, product.Price.String(), constants.SiteCurrencyDefault)
	}
}

func parseHashtags(content string) []string {
	fields := strings.FieldsFunc(content, func(r rune) bool {
		return r == ' ' || r == '\n' || r == ',' || r == '\t'
	})
	tags := make([]string, 0, len(fields))
	seen := make(map[string]bool)
	for _, field := range fields {
		tag := strings.TrimSpace(field)
		if tag == "" {
			continue
		}
		if !strings.HasPrefix(tag, "#") {
			tag = "#" + tag
		}
		lower := strings.ToLower(tag)
		if seen[lower] {
			continue
		}
		seen[lower] = true
		tags = append(tags, tag)
	}
	return tags
}

func slugToTag(slug string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(slug)), "-", "")
}
