package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/queue"
	"github.com/sellflow-next/internal/repository"
)

// SocialAccountInput 社交账号绑定输入
type SocialAccountInput struct {
	Platform    string
	Handle      string
	AccessToken string
}

// SocialPostInput 社交帖子创建/更新输入
type SocialPostInput struct {
	ProductID   *uint
	Platform    string
	Content     string
	Hashtags    []string
	ImageURL    string
	ScheduledAt *time.Time
}

// SocialPublisher 对接外部平台的发布器
type SocialPublisher interface {
	Publish(ctx context.Context, account *models.SocialAccount, post *models.SocialPost) (externalRef string, err error)
}

// SocialService 社交发布服务
type SocialService struct {
	cfg         config.SocialConfig
	accountRepo repository.SocialAccountRepository
	postRepo    repository.SocialPostRepository
	productRepo repository.ProductRepository
	queueClient *queue.Client
	publisher   SocialPublisher
}

// NewSocialService 创建社交发布服务
func NewSocialService(
	cfg config.SocialConfig,
	accountRepo repository.SocialAccountRepository,
	postRepo repository.SocialPostRepository,
	productRepo repository.ProductRepository,
	queueClient *queue.Client,
	publisher SocialPublisher,
) *SocialService {
	if publisher == nil {
		publisher = stubPublisher{}
	}
	return &SocialService{
		cfg:         cfg,
		accountRepo: accountRepo,
		postRepo:    postRepo,
		productRepo: productRepo,
		queueClient: queueClient,
		publisher:   publisher,
	}
}

// ListAccounts 用户社交账号列表
func (s *SocialService) ListAccounts(userID uint) ([]models.SocialAccount, error) {
	return s.accountRepo.ListByUser(userID)
}

// ConnectAccount 绑定社交账号；同平台重复绑定报冲突
func (s *SocialService) ConnectAccount(userID uint, input SocialAccountInput) (*models.SocialAccount, error) {
	platform := normalizeSocialPlatform(input.Platform)
	if platform == "" {
		return nil, ErrSocialPlatformInvalid
	}
	handle := strings.TrimSpace(input.Handle)
	if handle == "" {
		return nil, ErrInvalidInput
	}

	exist, err := s.accountRepo.GetByUserAndPlatform(userID, platform)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrSocialAccountExists
	}

	account := &models.SocialAccount{
		UserID:      userID,
		Platform:    platform,
		Handle:      handle,
		AccessToken: strings.TrimSpace(input.AccessToken),
		IsActive:    true,
	}
	if err := s.accountRepo.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// DisconnectAccount 解绑社交账号
func (s *SocialService) DisconnectAccount(userID, accountID uint) error {
	account, err := s.accountRepo.GetByIDAndUser(accountID, userID)
	if err != nil {
		return err
	}
	if account == nil {
		return ErrNotFound
	}
	return s.accountRepo.Delete(accountID, userID)
}

// ListPosts 卖家帖子列表
func (s *SocialService) ListPosts(sellerID uint, platform, status string, page, pageSize int) ([]models.SocialPost, int64, error) {
	filter := repository.SocialPostListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
		Platform: normalizeSocialPlatform(platform),
		Status:   strings.ToLower(strings.TrimSpace(status)),
	}
	return s.postRepo.List(filter)
}

// GetPost 获取卖家帖子
func (s *SocialService) GetPost(sellerID, postID uint) (*models.SocialPost, error) {
	post, err := s.postRepo.GetByIDAndSeller(postID, sellerID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrNotFound
	}
	return post, nil
}

// CreatePost 创建帖子；带 ScheduledAt 的帖子进入 scheduled 状态等待调度
func (s *SocialService) CreatePost(sellerID uint, input SocialPostInput) (*models.SocialPost, error) {
	platform := normalizeSocialPlatform(input.Platform)
	if platform == "" {
		return nil, ErrSocialPlatformInvalid
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	if input.ProductID != nil && *input.ProductID != 0 {
		product, err := s.productRepo.GetByID(*input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.SellerID != sellerID {
			return nil, ErrNotFound
		}
	}

	status := constants.SocialPostStatusDraft
	if input.ScheduledAt != nil {
		status = constants.SocialPostStatusScheduled
	}

	post := &models.SocialPost{
		SellerID:    sellerID,
		ProductID:   input.ProductID,
		Platform:    platform,
		Content:     content,
		Hashtags:    models.StringArray(input.Hashtags),
		ImageURL:    strings.TrimSpace(input.ImageURL),
		Status:      status,
		ScheduledAt: input.ScheduledAt,
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost 更新帖子；仅 draft/scheduled/failed 可编辑
func (s *SocialService) UpdatePost(sellerID, postID uint, input SocialPostInput) (*models.SocialPost, error) {
	post, err := s.GetPost(sellerID, postID)
	if err != nil {
		return nil, err
	}
	if !isSocialPostEditable(post.Status) {
		return nil, ErrSocialPostNotEditable
	}

	platform := normalizeSocialPlatform(input.Platform)
	if platform == "" {
		return nil, ErrSocialPlatformInvalid
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}

	post.Platform = platform
	post.Content = content
	post.Hashtags = models.StringArray(input.Hashtags)
	post.ImageURL = strings.TrimSpace(input.ImageURL)
	post.ProductID = input.ProductID
	post.ScheduledAt = input.ScheduledAt
	if input.ScheduledAt != nil {
		post.Status = constants.SocialPostStatusScheduled
	} else if post.Status == constants.SocialPostStatusScheduled {
		post.Status = constants.SocialPostStatusDraft
	}
	post.ErrorMessage = ""

	if err := s.postRepo.Update(post); err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost 删除帖子；发布中的帖子不可删除
func (s *SocialService) DeletePost(sellerID, postID uint) error {
	post, err := s.GetPost(sellerID, postID)
	if err != nil {
		return err
	}
	if post.Status == constants.SocialPostStatusPublishing {
		return ErrSocialPostNotEditable
	}
	return s.postRepo.Delete(postID, sellerID)
}

// PublishPost 发起发布：置为 publishing 并入队异步执行
func (s *SocialService) PublishPost(sellerID, postID uint) (*models.SocialPost, error) {
	post, err := s.GetPost(sellerID, postID)
	if err != nil {
		return nil, err
	}
	if post.Status == constants.SocialPostStatusPublished || post.Status == constants.SocialPostStatusPublishing {
		return nil, ErrSocialPostNotEditable
	}

	account, err := s.accountRepo.GetByUserAndPlatform(sellerID, post.Platform)
	if err != nil {
		return nil, err
	}
	if account == nil || !account.IsActive {
		return nil, ErrSocialAccountInactive
	}

	if err := s.postRepo.UpdateStatus(post.ID, constants.SocialPostStatusPublishing, map[string]interface{}{
		"error_message": "",
		"updated_at":    time.Now(),
	}); err != nil {
		return nil, err
	}

	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueSocialPublishPost(queue.SocialPublishPostPayload{PostID: post.ID}); err != nil {
			logger.Warnw("social_publish_enqueue_failed", "post_id", post.ID, "error", err)
			return nil, err
		}
	} else {
		// 无队列时同步执行发布
		if err := s.ExecutePublish(context.Background(), post.ID); err != nil {
			return nil, err
		}
	}

	return s.postRepo.GetByID(post.ID)
}

// ExecutePublish 执行发布（worker 调用）；结果落为 published 或 failed
func (s *SocialService) ExecutePublish(ctx context.Context, postID uint) error {
	post, err := s.postRepo.GetByID(postID)
	if err != nil {
		return err
	}
	if post == nil {
		return nil
	}
	if post.Status == constants.SocialPostStatusPublished {
		return nil
	}

	account, err := s.accountRepo.GetByUserAndPlatform(post.SellerID, post.Platform)
	if err != nil {
		return err
	}
	if account == nil || !account.IsActive {
		return s.markPublishFailed(post.ID, "social account disconnected")
	}

	timeout := 5 * time.Second
	if s.cfg.PublishTimeoutMS > 0 {
		timeout = time.Duration(s.cfg.PublishTimeoutMS) * time.Millisecond
	}
	publishCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	externalRef, err := s.publisher.Publish(publishCtx, account, post)
	if err != nil {
		logger.Warnw("social_publish_failed",
			"post_id", post.ID,
			"platform", post.Platform,
			"error", err,
		)
		return s.markPublishFailed(post.ID, err.Error())
	}

	now := time.Now()
	if err := s.postRepo.UpdateStatus(post.ID, constants.SocialPostStatusPublished, map[string]interface{}{
		"published_at": now,
		"external_ref": externalRef,
		"updated_at":   now,
	}); err != nil {
		return err
	}
	logger.Infow("social_post_published",
		"post_id", post.ID,
		"platform", post.Platform,
		"external_ref", externalRef,
	)
	return nil
}

// PublishDueScheduled 扫描到期的定时帖子并入队发布（调度器调用）
func (s *SocialService) PublishDueScheduled(limit int) (int, error) {
	posts, err := s.postRepo.ListDueScheduled(limit)
	if err != nil {
		return 0, err
	}
	published := 0
	for _, post := range posts {
		if err := s.postRepo.UpdateStatus(post.ID, constants.SocialPostStatusPublishing, map[string]interface{}{
			"updated_at": time.Now(),
		}); err != nil {
			logger.Warnw("social_scheduled_mark_failed", "post_id", post.ID, "error", err)
			continue
		}
		if s.queueClient != nil && s.queueClient.Enabled() {
			if err := s.queueClient.EnqueueSocialPublishPost(queue.SocialPublishPostPayload{PostID: post.ID}); err != nil {
				logger.Warnw("social_scheduled_enqueue_failed", "post_id", post.ID, "error", err)
				continue
			}
		} else {
			if err := s.ExecutePublish(context.Background(), post.ID); err != nil {
				continue
			}
		}
		published++
	}
	return published, nil
}

func (s *SocialService) markPublishFailed(postID uint, reason string) error {
	return s.postRepo.UpdateStatus(postID, constants.SocialPostStatusFailed, map[string]interface{}{
		"error_message": strings.TrimSpace(reason),
		"updated_at":    time.Now(),
	})
}

func isSocialPostEditable(status string) bool {
	switch status {
	case constants.SocialPostStatusDraft, constants.SocialPostStatusScheduled, constants.SocialPostStatusFailed:
		return true
	default:
		return false
	}
}

func normalizeSocialPlatform(platform string) string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case constants.SocialPlatformFacebook:
		return constants.SocialPlatformFacebook
	case constants.SocialPlatformInstagram:
		return constants.SocialPlatformInstagram
	case constants.SocialPlatformTwitter:
		return constants.SocialPlatformTwitter
	case constants.SocialPlatformTiktok:
		return constants.SocialPlatformTiktok
	case constants.SocialPlatformWhatsapp:
		return constants.SocialPlatformWhatsapp
	default:
		return ""
	}
}

// stubPublisher 默认发布器：生成平台引用号，不调用外部接口
type stubPublisher struct{}

func (stubPublisher) Publish(_ context.Context, account *models.SocialAccount, post *models.SocialPost) (string, error) {
	return fmt.Sprintf("%s-%s-%s", post.Platform, time.Now().Format("20060102150405"), randNumeric(6)), nil
}
