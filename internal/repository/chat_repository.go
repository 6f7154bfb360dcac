package repository

import (
	"errors"
	"strings"

	"github.com/sellflow-next/internal/models"

	"gorm.io/gorm"
)

// ConversationRepository 会话数据访问接口
type ConversationRepository interface {
	List(filter ConversationListFilter) ([]models.Conversation, int64, error)
	GetByID(id uint) (*models.Conversation, error)
	GetByIDAndSeller(id, sellerID uint) (*models.Conversation, error)
	Create(conversation *models.Conversation) error
	Update(conversation *models.Conversation) error
	ListMessages(conversationID uint) ([]models.Message, error)
	CreateMessage(message *models.Message) error
	MarkMessagesRead(conversationID uint, senderType string) (int64, error)
	CountUnreadMessages(conversationID uint, senderType string) (int64, error)
}

// GormConversationRepository GORM 实现
type GormConversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository 创建会话仓库
func NewConversationRepository(db *gorm.DB) *GormConversationRepository {
	return &GormConversationRepository{db: db}
}

// List 会话列表
func (r *GormConversationRepository) List(filter ConversationListFilter) ([]models.Conversation, int64, error) {
	query := r.db.Model(&models.Conversation{})

	if filter.SellerID != 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		condition, argCount := buildLikeCondition(r.db, []string{"customer_name", "customer_email"})
		query = query.Where(condition, repeatLikeArgs(like, argCount)...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var conversations []models.Conversation
	if err := query.Preload("Product").Order("updated_at DESC").Find(&conversations).Error; err != nil {
		return nil, 0, err
	}
	return conversations, total, nil
}

// GetByID 根据 ID 获取会话
func (r *GormConversationRepository) GetByID(id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Preload("Product").First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// GetByIDAndSeller 获取卖家的会话
func (r *GormConversationRepository) GetByIDAndSeller(id, sellerID uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.Preload("Product").Where("seller_id = ?", sellerID).First(&conversation, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &conversation, nil
}

// Create 创建会话
func (r *GormConversationRepository) Create(conversation *models.Conversation) error {
	return r.db.Create(conversation).Error
}

// Update 更新会话
func (r *GormConversationRepository) Update(conversation *models.Conversation) error {
	return r.db.Save(conversation).Error
}

// ListMessages 会话消息列表（按时间正序）
func (r *GormConversationRepository) ListMessages(conversationID uint) ([]models.Message, error) {
	var messages []models.Message
	if err := r.db.Where("conversation_id = ?", conversationID).Order("id ASC").Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

// CreateMessage 新增消息并顶起会话
func (r *GormConversationRepository) CreateMessage(message *models.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return err
	}
	// 会话按最近消息排序，写入消息时刷新 updated_at
	return r.db.Model(&models.Conversation{}).
		Where("id = ?", message.ConversationID).
		Update("updated_at", message.CreatedAt).Error
}

// MarkMessagesRead 将指定发送方的消息标记已读
func (r *GormConversationRepository) MarkMessagesRead(conversationID uint, senderType string) (int64, error) {
	result := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conversationID, senderType, false).
		Update("is_read", true)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// CountUnreadMessages 统计指定发送方的未读消息数
func (r *GormConversationRepository) CountUnreadMessages(conversationID uint, senderType string) (int64, error) {
	var count int64
	if err := r.db.Model(&models.Message{}).
		Where("conversation_id = ? AND sender_type = ? AND is_read = ?", conversationID, senderType, false).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
