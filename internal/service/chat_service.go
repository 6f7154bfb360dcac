package service

import (
	"strings"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/i18n"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"
)

// StartConversationInput 顾客发起会话输入
type StartConversationInput struct {
	SellerID      uint
	ProductID     *uint
	CustomerName  string
	CustomerEmail string
	Body          string
}

// ChatService 买卖沟通服务
type ChatService struct {
	convRepo            repository.ConversationRepository
	productRepo         repository.ProductRepository
	userRepo            repository.UserRepository
	notificationService *NotificationService
}

// NewChatService 创建沟通服务
func NewChatService(
	convRepo repository.ConversationRepository,
	productRepo repository.ProductRepository,
	userRepo repository.UserRepository,
	notificationService *NotificationService,
) *ChatService {
	return &ChatService{
		convRepo:            convRepo,
		productRepo:         productRepo,
		userRepo:            userRepo,
		notificationService: notificationService,
	}
}

// StartConversation 顾客对卖家发起会话，附带首条消息
func (s *ChatService) StartConversation(input StartConversationInput) (*models.Conversation, error) {
	if input.SellerID == 0 {
		return nil, ErrInvalidInput
	}
	customerName := strings.TrimSpace(input.CustomerName)
	body := strings.TrimSpace(input.Body)
	if customerName == "" || body == "" {
		return nil, ErrInvalidInput
	}

	seller, err := s.userRepo.GetByID(input.SellerID)
	if err != nil {
		return nil, err
	}
	if seller == nil || !seller.IsSeller() {
		return nil, ErrNotFound
	}

	if input.ProductID != nil && *input.ProductID != 0 {
		product, err := s.productRepo.GetByID(*input.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.SellerID != input.SellerID {
			return nil, ErrNotFound
		}
	}

	conversation := &models.Conversation{
		SellerID:      input.SellerID,
		ProductID:     input.ProductID,
		CustomerName:  customerName,
		CustomerEmail: strings.ToLower(strings.TrimSpace(input.CustomerEmail)),
		Status:        constants.ConversationStatusOpen,
	}
	if err := s.convRepo.Create(conversation); err != nil {
		return nil, err
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderType:     constants.MessageSenderCustomer,
		Body:           body,
	}
	if err := s.convRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	s.notifySellerNewMessage(conversation)
	return conversation, nil
}

// ListConversations 卖家会话列表
func (s *ChatService) ListConversations(sellerID uint, status, search string, page, pageSize int) ([]models.Conversation, int64, error) {
	filter := repository.ConversationListFilter{
		Page:     page,
		PageSize: pageSize,
		SellerID: sellerID,
		Status:   normalizeConversationStatus(status),
		Search:   strings.TrimSpace(search),
	}
	return s.convRepo.List(filter)
}

// GetConversation 获取卖家会话与全部消息
func (s *ChatService) GetConversation(sellerID, conversationID uint) (*models.Conversation, []models.Message, error) {
	conversation, err := s.convRepo.GetByIDAndSeller(conversationID, sellerID)
	if err != nil {
		return nil, nil, err
	}
	if conversation == nil {
		return nil, nil, ErrNotFound
	}
	messages, err := s.convRepo.ListMessages(conversation.ID)
	if err != nil {
		return nil, nil, err
	}
	// 读取会话视为已读顾客消息
	if _, err := s.convRepo.MarkMessagesRead(conversation.ID, constants.MessageSenderCustomer); err != nil {
		logger.Warnw("conversation_mark_read_failed", "conversation_id", conversation.ID, "error", err)
	}
	return conversation, messages, nil
}

// ReplyAsSeller 卖家回复
func (s *ChatService) ReplyAsSeller(sellerID, conversationID uint, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByIDAndSeller(conversationID, sellerID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}
	if conversation.Status != constants.ConversationStatusOpen {
		return nil, ErrConversationClosed
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderType:     constants.MessageSenderSeller,
		Body:           body,
	}
	if err := s.convRepo.CreateMessage(message); err != nil {
		return nil, err
	}
	return message, nil
}

// AppendCustomerMessage 顾客在既有会话追加消息
func (s *ChatService) AppendCustomerMessage(conversationID uint, customerEmail, body string) (*models.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrInvalidInput
	}
	conversation, err := s.convRepo.GetByID(conversationID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}
	// 公开通道以顾客邮箱做轻量归属校验
	if conversation.CustomerEmail != "" && !strings.EqualFold(conversation.CustomerEmail, strings.TrimSpace(customerEmail)) {
		return nil, ErrNotFound
	}
	if conversation.Status != constants.ConversationStatusOpen {
		return nil, ErrConversationClosed
	}

	message := &models.Message{
		ConversationID: conversation.ID,
		SenderType:     constants.MessageSenderCustomer,
		Body:           body,
	}
	if err := s.convRepo.CreateMessage(message); err != nil {
		return nil, err
	}

	s.notifySellerNewMessage(conversation)
	return message, nil
}

// CloseConversation 关闭会话
func (s *ChatService) CloseConversation(sellerID, conversationID uint) (*models.Conversation, error) {
	return s.updateConversationStatus(sellerID, conversationID, constants.ConversationStatusClosed)
}

// ReopenConversation 重新打开会话
func (s *ChatService) ReopenConversation(sellerID, conversationID uint) (*models.Conversation, error) {
	return s.updateConversationStatus(sellerID, conversationID, constants.ConversationStatusOpen)
}

// CountUnread 会话未读顾客消息数
func (s *ChatService) CountUnread(sellerID, conversationID uint) (int64, error) {
	conversation, err := s.convRepo.GetByIDAndSeller(conversationID, sellerID)
	if err != nil {
		return 0, err
	}
	if conversation == nil {
		return 0, ErrNotFound
	}
	return s.convRepo.CountUnreadMessages(conversation.ID, constants.MessageSenderCustomer)
}

func (s *ChatService) updateConversationStatus(sellerID, conversationID uint, status string) (*models.Conversation, error) {
	conversation, err := s.convRepo.GetByIDAndSeller(conversationID, sellerID)
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, ErrNotFound
	}
	if conversation.Status == status {
		return conversation, nil
	}
	conversation.Status = status
	if err := s.convRepo.Update(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *ChatService) notifySellerNewMessage(conversation *models.Conversation) {
	if s.notificationService == nil {
		return
	}
	seller, err := s.userRepo.GetByID(conversation.SellerID)
	if err != nil || seller == nil {
		return
	}
	locale := constants.LocaleEnUS
	if strings.TrimSpace(seller.Locale) != "" {
		locale = seller.Locale
	}
	_, err = s.notificationService.Create(NotificationCreateInput{
		UserID:   conversation.SellerID,
		Type:     constants.NotificationTypeChatMessage,
		Priority: constants.NotificationPriorityNormal,
		Title:    i18n.T(locale, "notification.chat_message_title"),
		Body:     i18n.Sprintf(locale, "notification.chat_message_body", conversation.CustomerName),
		RefType:  "conversation",
		RefID:    conversation.ID,
	})
	if err != nil {
		logger.Warnw("chat_notification_failed", "conversation_id", conversation.ID, "error", err)
	}
}

func normalizeConversationStatus(status string) string {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case constants.ConversationStatusOpen:
		return constants.ConversationStatusOpen
	case constants.ConversationStatusClosed:
		return constants.ConversationStatusClosed
	default:
		return ""
	}
}
