package repository

import (
	"errors"

	"github.com/sellflow-next/internal/models"

	"gorm.io/gorm"
)

// SocialAccountRepository 社交账号数据访问接口
type SocialAccountRepository interface {
	ListByUser(userID uint) ([]models.SocialAccount, error)
	GetByIDAndUser(id, userID uint) (*models.SocialAccount, error)
	GetByUserAndPlatform(userID uint, platform string) (*models.SocialAccount, error)
	Create(account *models.SocialAccount) error
	Update(account *models.SocialAccount) error
	Delete(id, userID uint) error
}

// GormSocialAccountRepository GORM 实现
type GormSocialAccountRepository struct {
	db *gorm.DB
}

// NewSocialAccountRepository 创建社交账号仓库
func NewSocialAccountRepository(db *gorm.DB) *GormSocialAccountRepository {
	return &GormSocialAccountRepository{db: db}
}

// ListByUser 用户社交账号列表
func (r *GormSocialAccountRepository) ListByUser(userID uint) ([]models.SocialAccount, error) {
	var accounts []models.SocialAccount
	if err := r.db.Where("user_id = ?", userID).Order("id ASC").Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

// GetByIDAndUser 获取用户的一个社交账号
func (r *GormSocialAccountRepository) GetByIDAndUser(id, userID uint) (*models.SocialAccount, error) {
	var account models.SocialAccount
	if err := r.db.Where("user_id = ?", userID).First(&account, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// GetByUserAndPlatform 获取用户指定平台的社交账号
func (r *GormSocialAccountRepository) GetByUserAndPlatform(userID uint, platform string) (*models.SocialAccount, error) {
	var account models.SocialAccount
	if err := r.db.Where("user_id = ? AND platform = ?", userID, platform).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

// Create 创建社交账号
func (r *GormSocialAccountRepository) Create(account *models.SocialAccount) error {
	return r.db.Create(account).Error
}

// Update 更新社交账号
func (r *GormSocialAccountRepository) Update(account *models.SocialAccount) error {
	return r.db.Save(account).Error
}

// Delete 删除社交账号
func (r *GormSocialAccountRepository) Delete(id, userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.SocialAccount{}, id).Error
}

// SocialPostRepository 社交帖子数据访问接口
type SocialPostRepository interface {
	List(filter SocialPostListFilter) ([]models.SocialPost, int64, error)
	GetByID(id uint) (*models.SocialPost, error)
	GetByIDAndSeller(id, sellerID uint) (*models.SocialPost, error)
	Create(post *models.SocialPost) error
	Update(post *models.SocialPost) error
	UpdateStatus(id uint, status string, updates map[string]interface{}) error
	Delete(id, sellerID uint) error
	ListDueScheduled(limit int) ([]models.SocialPost, error)
}

// GormSocialPostRepository GORM 实现
type GormSocialPostRepository struct {
	db *gorm.DB
}

// NewSocialPostRepository 创建社交帖子仓库
func NewSocialPostRepository(db *gorm.DB) *GormSocialPostRepository {
	return &GormSocialPostRepository{db: db}
}

// List 社交帖子列表
func (r *GormSocialPostRepository) List(filter SocialPostListFilter) ([]models.SocialPost, int64, error) {
	query := r.db.Model(&models.SocialPost{})

	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.ProductID != 0 {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Platform != "" {
		query = query.Where("platform = ?", filter.Platform)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var posts []models.SocialPost
	if err := query.Preload("Product").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// GetByID 根据 ID 获取社交帖子
func (r *GormSocialPostRepository) GetByID(id uint) (*models.SocialPost, error) {
	var post models.SocialPost
	if err := r.db.Preload("Product").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetByIDAndSeller 获取卖家的社交帖子
func (r *GormSocialPostRepository) GetByIDAndSeller(id, sellerID uint) (*models.SocialPost, error) {
	var post models.SocialPost
	if err := r.db.Preload("Product").Where("seller_id = ?", sellerID).First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// Create 创建社交帖子
func (r *GormSocialPostRepository) Create(post *models.SocialPost) error {
	return r.db.Create(post).Error
}

// Update 更新社交帖子
func (r *GormSocialPostRepository) Update(post *models.SocialPost) error {
	return r.db.Save(post).Error
}

// UpdateStatus 更新帖子状态及附加字段
func (r *GormSocialPostRepository) UpdateStatus(id uint, status string, updates map[string]interface{}) error {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = status
	return r.db.Model(&models.SocialPost{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除社交帖子
func (r *GormSocialPostRepository) Delete(id, sellerID uint) error {
	return r.db.Where("seller_id = ?", sellerID).Delete(&models.SocialPost{}, id).Error
}

// ListDueScheduled 获取到期待发布的定时帖子
func (r *GormSocialPostRepository) ListDueScheduled(limit int) ([]models.SocialPost, error) {
	if limit <= 0 {
		limit = 50
	}
	var posts []models.SocialPost
	if err := r.db.Where("status = ? AND scheduled_at IS NOT NULL AND scheduled_at <= CURRENT_TIMESTAMP", "scheduled").
		Order("scheduled_at ASC").Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}
