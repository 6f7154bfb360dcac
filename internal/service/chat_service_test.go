package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupChatServiceTest(t *testing.T) (*ChatService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:chat_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.Conversation{},
		&models.Message{},
		&models.Notification{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	convRepo := repository.NewConversationRepository(db)
	productRepo := repository.NewProductRepository(db)
	userRepo := repository.NewUserRepository(db)
	notificationSvc := NewNotificationService(
		repository.NewNotificationRepository(db),
		userRepo,
		repository.NewOrderRepository(db),
		nil,
	)
	return NewChatService(convRepo, productRepo, userRepo, notificationSvc), db
}

func createTestUser(t *testing.T, db *gorm.DB, email, userType string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "hash",
		UserType:     userType,
		Locale:       constants.LocaleEnUS,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func TestStartConversationCreatesFirstMessage(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	seller := createTestUser(t, db, "chat_seller@example.com", constants.UserTypeSeller)

	conversation, err := svc.StartConversation(StartConversationInput{
		SellerID:      seller.ID,
		CustomerName:  "Ada",
		CustomerEmail: "Ada@Example.com",
		Body:          "Is this still available?",
	})
	if err != nil {
		t.Fatalf("start conversation failed: %v", err)
	}
	if conversation.Status != constants.ConversationStatusOpen {
		t.Fatalf("expected open conversation, got %s", conversation.Status)
	}
	if conversation.CustomerEmail != "ada@example.com" {
		t.Fatalf("expected lowercased email, got %s", conversation.CustomerEmail)
	}

	var messages []models.Message
	if err := db.Where("conversation_id = ?", conversation.ID).Find(&messages).Error; err != nil {
		t.Fatalf("load messages failed: %v", err)
	}
	if len(messages) != 1 || messages[0].SenderType != constants.MessageSenderCustomer {
		t.Fatalf("expected one customer message, got %+v", messages)
	}

	// 卖家收到一条 chat_message 通知
	var notifications []models.Notification
	if err := db.Where("user_id = ?", seller.ID).Find(&notifications).Error; err != nil {
		t.Fatalf("load notifications failed: %v", err)
	}
	if len(notifications) != 1 || notifications[0].Type != constants.NotificationTypeChatMessage {
		t.Fatalf("expected chat_message notification, got %+v", notifications)
	}
}

func TestStartConversationRequiresSellerAccount(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	buyer := createTestUser(t, db, "chat_buyer@example.com", constants.UserTypeBuyer)

	_, err := svc.StartConversation(StartConversationInput{
		SellerID:     buyer.ID,
		CustomerName: "Ada",
		Body:         "hello",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for buyer target, got %v", err)
	}
}

func TestStartConversationProductOwnershipCheck(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	seller := createTestUser(t, db, "chat_owner@example.com", constants.UserTypeSeller)
	other := createTestUser(t, db, "chat_other@example.com", constants.UserTypeSeller)

	product := &models.Product{
		SellerID:   other.ID,
		CategoryID: 1,
		Slug:       "foreign-product",
		Name:       "Foreign Product",
		Status:     constants.ProductStatusActive,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}

	_, err := svc.StartConversation(StartConversationInput{
		SellerID:     seller.ID,
		ProductID:    &product.ID,
		CustomerName: "Ada",
		Body:         "hello",
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for product of another seller, got %v", err)
	}
}

func startTestConversation(t *testing.T, svc *ChatService, db *gorm.DB, email string) (*models.User, *models.Conversation) {
	t.Helper()
	seller := createTestUser(t, db, email, constants.UserTypeSeller)
	conversation, err := svc.StartConversation(StartConversationInput{
		SellerID:      seller.ID,
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Body:          "first message",
	})
	if err != nil {
		t.Fatalf("start conversation failed: %v", err)
	}
	return seller, conversation
}

func TestReplyOnClosedConversation(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	seller, conversation := startTestConversation(t, svc, db, "chat_closed@example.com")

	if _, err := svc.CloseConversation(seller.ID, conversation.ID); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := svc.ReplyAsSeller(seller.ID, conversation.ID, "too late"); !errors.Is(err, ErrConversationClosed) {
		t.Fatalf("expected ErrConversationClosed, got %v", err)
	}
	if _, err := svc.AppendCustomerMessage(conversation.ID, "ada@example.com", "still there?"); !errors.Is(err, ErrConversationClosed) {
		t.Fatalf("expected ErrConversationClosed for customer, got %v", err)
	}

	// 重新打开后恢复可回复
	if _, err := svc.ReopenConversation(seller.ID, conversation.ID); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	if _, err := svc.ReplyAsSeller(seller.ID, conversation.ID, "back again"); err != nil {
		t.Fatalf("reply after reopen failed: %v", err)
	}
}

func TestAppendCustomerMessageEmailMismatch(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	_, conversation := startTestConversation(t, svc, db, "chat_email@example.com")

	if _, err := svc.AppendCustomerMessage(conversation.ID, "intruder@example.com", "hi"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on email mismatch, got %v", err)
	}
	// 大小写不敏感匹配
	if _, err := svc.AppendCustomerMessage(conversation.ID, "ADA@example.com", "hi again"); err != nil {
		t.Fatalf("expected case-insensitive match, got %v", err)
	}
}

func TestUnreadCountAndReadOnView(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	seller, conversation := startTestConversation(t, svc, db, "chat_unread@example.com")

	if _, err := svc.AppendCustomerMessage(conversation.ID, "ada@example.com", "second"); err != nil {
		t.Fatalf("append failed: %v", err)
	}

	unread, err := svc.CountUnread(seller.ID, conversation.ID)
	if err != nil {
		t.Fatalf("count unread failed: %v", err)
	}
	if unread != 2 {
		t.Fatalf("expected 2 unread, got %d", unread)
	}

	// 查看会话即标记顾客消息已读
	if _, _, err := svc.GetConversation(seller.ID, conversation.ID); err != nil {
		t.Fatalf("get conversation failed: %v", err)
	}
	unread, err = svc.CountUnread(seller.ID, conversation.ID)
	if err != nil {
		t.Fatalf("count unread failed: %v", err)
	}
	if unread != 0 {
		t.Fatalf("expected 0 unread after view, got %d", unread)
	}
}

func TestConversationSellerScoping(t *testing.T) {
	svc, db := setupChatServiceTest(t)
	_, conversation := startTestConversation(t, svc, db, "chat_scope@example.com")
	stranger := createTestUser(t, db, "chat_stranger@example.com", constants.UserTypeSeller)

	if _, _, err := svc.GetConversation(stranger.ID, conversation.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other seller, got %v", err)
	}
	if _, err := svc.CloseConversation(stranger.ID, conversation.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other seller close, got %v", err)
	}
}
