package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

// failingPublisher 固定失败的发布器，用于验证失败落库
type failingPublisher struct{}

func (failingPublisher) Publish(_ context.Context, _ *models.SocialAccount, _ *models.SocialPost) (string, error) {
	return "", errors.New("platform unavailable")
}

func setupSocialServiceTest(t *testing.T, publisher SocialPublisher) (*SocialService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:social_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.SocialAccount{},
		&models.SocialPost{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	svc := NewSocialService(
		config.SocialConfig{PublishTimeoutMS: 1000},
		repository.NewSocialAccountRepository(db),
		repository.NewSocialPostRepository(db),
		repository.NewProductRepository(db),
		nil,
		publisher,
	)
	return svc, db
}

func TestConnectAccountDuplicatePlatform(t *testing.T) {
	svc, _ := setupSocialServiceTest(t, nil)

	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: "Instagram", Handle: "shop"}); err != nil {
		t.Fatalf("first connect failed: %v", err)
	}
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: "instagram", Handle: "shop2"}); !errors.Is(err, ErrSocialAccountExists) {
		t.Fatalf("expected ErrSocialAccountExists, got %v", err)
	}
	// 其他用户绑定同平台不受影响
	if _, err := svc.ConnectAccount(2, SocialAccountInput{Platform: "instagram", Handle: "other"}); err != nil {
		t.Fatalf("other user connect failed: %v", err)
	}
}

func TestConnectAccountUnknownPlatform(t *testing.T) {
	svc, _ := setupSocialServiceTest(t, nil)
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: "myspace", Handle: "shop"}); !errors.Is(err, ErrSocialPlatformInvalid) {
		t.Fatalf("expected ErrSocialPlatformInvalid, got %v", err)
	}
}

func TestCreatePostScheduledStatus(t *testing.T) {
	svc, _ := setupSocialServiceTest(t, nil)

	draft, err := svc.CreatePost(1, SocialPostInput{Platform: constants.SocialPlatformFacebook, Content: "hello"})
	if err != nil {
		t.Fatalf("create draft failed: %v", err)
	}
	if draft.Status != constants.SocialPostStatusDraft {
		t.Fatalf("expected draft, got %s", draft.Status)
	}

	at := time.Now().Add(time.Hour)
	scheduled, err := svc.CreatePost(1, SocialPostInput{
		Platform:    constants.SocialPlatformFacebook,
		Content:     "later",
		ScheduledAt: &at,
	})
	if err != nil {
		t.Fatalf("create scheduled failed: %v", err)
	}
	if scheduled.Status != constants.SocialPostStatusScheduled {
		t.Fatalf("expected scheduled, got %s", scheduled.Status)
	}
}

func TestPublishPostSynchronousWithoutQueue(t *testing.T) {
	svc, db := setupSocialServiceTest(t, nil)
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: constants.SocialPlatformInstagram, Handle: "shop"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	post, err := svc.CreatePost(1, SocialPostInput{Platform: constants.SocialPlatformInstagram, Content: "buy now"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	published, err := svc.PublishPost(1, post.ID)
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if published.Status != constants.SocialPostStatusPublished {
		t.Fatalf("expected published, got %s", published.Status)
	}
	if published.ExternalRef == "" || published.PublishedAt == nil {
		t.Fatalf("expected external ref and published_at, got %+v", published)
	}

	// 再次发布已发布帖子被拒绝
	if _, err := svc.PublishPost(1, post.ID); !errors.Is(err, ErrSocialPostNotEditable) {
		t.Fatalf("expected ErrSocialPostNotEditable, got %v", err)
	}
	var count int64
	if err := db.Model(&models.SocialPost{}).Where("status = ?", constants.SocialPostStatusPublished).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one published post, got %d", count)
	}
}

func TestPublishPostRequiresActiveAccount(t *testing.T) {
	svc, db := setupSocialServiceTest(t, nil)
	post, err := svc.CreatePost(1, SocialPostInput{Platform: constants.SocialPlatformTwitter, Content: "no account"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := svc.PublishPost(1, post.ID); !errors.Is(err, ErrSocialAccountInactive) {
		t.Fatalf("expected ErrSocialAccountInactive, got %v", err)
	}

	// 绑定了但被停用的账号同样不可发布
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: constants.SocialPlatformTwitter, Handle: "shop"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	if err := db.Model(&models.SocialAccount{}).Where("user_id = ?", 1).Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate account failed: %v", err)
	}
	if _, err := svc.PublishPost(1, post.ID); !errors.Is(err, ErrSocialAccountInactive) {
		t.Fatalf("expected ErrSocialAccountInactive for disabled account, got %v", err)
	}
}

func TestPublishFailureMarksFailedAndAllowsRetry(t *testing.T) {
	svc, db := setupSocialServiceTest(t, failingPublisher{})
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: constants.SocialPlatformTiktok, Handle: "shop"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	post, err := svc.CreatePost(1, SocialPostInput{Platform: constants.SocialPlatformTiktok, Content: "will fail"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}

	failed, err := svc.PublishPost(1, post.ID)
	if err != nil {
		t.Fatalf("publish path failed: %v", err)
	}
	if failed.Status != constants.SocialPostStatusFailed {
		t.Fatalf("expected failed, got %s", failed.Status)
	}
	if failed.ErrorMessage != "platform unavailable" {
		t.Fatalf("expected error message recorded, got %s", failed.ErrorMessage)
	}

	// failed 状态仍可编辑后重发
	if _, err := svc.UpdatePost(1, post.ID, SocialPostInput{Platform: constants.SocialPlatformTiktok, Content: "try again"}); err != nil {
		t.Fatalf("update failed post rejected: %v", err)
	}
	var reloaded models.SocialPost
	if err := db.First(&reloaded, post.ID).Error; err != nil {
		t.Fatalf("reload post failed: %v", err)
	}
	if reloaded.ErrorMessage != "" {
		t.Fatalf("expected error message cleared on edit, got %s", reloaded.ErrorMessage)
	}
}

func TestUpdatePublishedPostRejected(t *testing.T) {
	svc, _ := setupSocialServiceTest(t, nil)
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: constants.SocialPlatformFacebook, Handle: "shop"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	post, err := svc.CreatePost(1, SocialPostInput{Platform: constants.SocialPlatformFacebook, Content: "publish me"})
	if err != nil {
		t.Fatalf("create post failed: %v", err)
	}
	if _, err := svc.PublishPost(1, post.ID); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if _, err := svc.UpdatePost(1, post.ID, SocialPostInput{Platform: constants.SocialPlatformFacebook, Content: "edited"}); !errors.Is(err, ErrSocialPostNotEditable) {
		t.Fatalf("expected ErrSocialPostNotEditable, got %v", err)
	}
	if err := svc.DeletePost(1, post.ID); err != nil {
		t.Fatalf("deleting published post should be allowed, got %v", err)
	}
}

func TestPostProductOwnershipCheck(t *testing.T) {
	svc, db := setupSocialServiceTest(t, nil)
	product := &models.Product{
		SellerID:   2,
		CategoryID: 1,
		Slug:       "other-seller-product",
		Name:       "Other Seller Product",
		Status:     constants.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := svc.CreatePost(1, SocialPostInput{
		Platform:  constants.SocialPlatformFacebook,
		Content:   "not mine",
		ProductID: &product.ID,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign product, got %v", err)
	}
}

func TestPublishDueScheduled(t *testing.T) {
	svc, db := setupSocialServiceTest(t, nil)
	if _, err := svc.ConnectAccount(1, SocialAccountInput{Platform: constants.SocialPlatformInstagram, Handle: "shop"}); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	past := time.Now().Add(-time.Minute)
	due, err := svc.CreatePost(1, SocialPostInput{
		Platform:    constants.SocialPlatformInstagram,
		Content:     "due now",
		ScheduledAt: &past,
	})
	if err != nil {
		t.Fatalf("create due post failed: %v", err)
	}
	future := time.Now().Add(time.Hour)
	if _, err := svc.CreatePost(1, SocialPostInput{
		Platform:    constants.SocialPlatformInstagram,
		Content:     "not yet",
		ScheduledAt: &future,
	}); err != nil {
		t.Fatalf("create future post failed: %v", err)
	}

	published, err := svc.PublishDueScheduled(10)
	if err != nil {
		t.Fatalf("publish due failed: %v", err)
	}
	if published != 1 {
		t.Fatalf("expected 1 due post published, got %d", published)
	}
	var reloaded models.SocialPost
	if err := db.First(&reloaded, due.ID).Error; err != nil {
		t.Fatalf("reload due post failed: %v", err)
	}
	if reloaded.Status != constants.SocialPostStatusPublished {
		t.Fatalf("expected published, got %s", reloaded.Status)
	}
}
