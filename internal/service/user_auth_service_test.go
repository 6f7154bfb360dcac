package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/models"
	"github.com/sellflow-next/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAuthServiceTest(t *testing.T) (*UserAuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:user_auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Profile{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "user-auth-service-test-secret-key-0123456789"
	cfg.JWT.ExpireHours = 24
	cfg.Security.PasswordPolicy.MinLength = 8
	cfg.Security.PasswordPolicy.RequireNumber = true

	return NewUserAuthService(cfg, repository.NewUserRepository(db)), db
}

func registerTestUser(t *testing.T, svc *UserAuthService, email, userType string) *models.User {
	t.Helper()
	user, _, _, err := svc.Register(RegisterInput{
		Email:     email,
		Password:  "passw0rd123",
		FirstName: "Sam",
		LastName:  "Okoro",
		UserType:  userType,
	})
	if err != nil {
		t.Fatalf("register %s failed: %v", email, err)
	}
	return user
}

func TestRegisterAndLoginRoundTrip(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	user, token, expiresAt, err := svc.Register(RegisterInput{
		Email:    "  Seller@Example.COM ",
		Password: "passw0rd123",
		UserType: "seller",
		Locale:   constants.LocaleFrFR,
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.Email != "seller@example.com" {
		t.Fatalf("expected normalized email, got %s", user.Email)
	}
	if user.UserType != constants.UserTypeSeller {
		t.Fatalf("expected seller, got %s", user.UserType)
	}
	if user.Locale != constants.LocaleFrFR {
		t.Fatalf("expected fr-FR locale, got %s", user.Locale)
	}
	if token == "" || !expiresAt.After(time.Now()) {
		t.Fatalf("expected valid token and future expiry")
	}

	claims, err := svc.ParseUserJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != user.ID || claims.UserType != constants.UserTypeSeller || claims.TokenVersion != user.TokenVersion {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	logged, loginToken, _, err := svc.Login("seller@example.com", "passw0rd123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != user.ID || loginToken == "" {
		t.Fatalf("unexpected login result")
	}
	if logged.LastLoginAt == nil {
		t.Fatalf("expected last_login_at set")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	registerTestUser(t, svc, "dup@example.com", "buyer")

	_, _, _, err := svc.Register(RegisterInput{Email: "DUP@example.com", Password: "passw0rd123"})
	if !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestRegisterInputValidation(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)

	if _, _, _, err := svc.Register(RegisterInput{Email: "not-an-email", Password: "passw0rd123"}); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if _, _, _, err := svc.Register(RegisterInput{Email: "ok@example.com", Password: "passw0rd123", UserType: "admin"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown user type, got %v", err)
	}

	// 密码策略：短于最小长度时带参数返回
	_, _, _, err := svc.Register(RegisterInput{Email: "ok@example.com", Password: "abc1"})
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
	var keyed interface {
		Key() string
		Args() []interface{}
	}
	if !errors.As(err, &keyed) {
		t.Fatalf("expected keyed password error, got %T", err)
	}
	if keyed.Key() != "error.password_min_length" || len(keyed.Args()) != 1 {
		t.Fatalf("unexpected keyed error: %s %v", keyed.Key(), keyed.Args())
	}

	if _, _, _, err := svc.Register(RegisterInput{Email: "ok@example.com", Password: "password-long"}); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for missing digit, got %v", err)
	}
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	registerTestUser(t, svc, "login@example.com", "buyer")

	if _, _, _, err := svc.Login("login@example.com", "wrong-passw0rd"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	// 用户不存在与密码错误返回一致，不泄露邮箱是否注册
	if _, _, _, err := svc.Login("nobody@example.com", "passw0rd123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}

func TestLoginDisabledUser(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	user := registerTestUser(t, svc, "disabled@example.com", "buyer")
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("status", constants.UserStatusDisabled).Error; err != nil {
		t.Fatalf("disable user failed: %v", err)
	}

	if _, _, _, err := svc.Login("disabled@example.com", "passw0rd123"); !errors.Is(err, ErrUserDisabled) {
		t.Fatalf("expected ErrUserDisabled, got %v", err)
	}
}

func TestChangePasswordInvalidatesTokens(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	user := registerTestUser(t, svc, "rotate@example.com", "buyer")

	if err := svc.ChangePassword(user.ID, "wrong-old", "newpassw0rd1"); !errors.Is(err, ErrInvalidPassword) {
		t.Fatalf("expected ErrInvalidPassword, got %v", err)
	}
	if err := svc.ChangePassword(user.ID, "passw0rd123", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}

	if err := svc.ChangePassword(user.ID, "passw0rd123", "newpassw0rd1"); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	var reloaded models.User
	if err := db.First(&reloaded, user.ID).Error; err != nil {
		t.Fatalf("reload user failed: %v", err)
	}
	if reloaded.TokenVersion != user.TokenVersion+1 {
		t.Fatalf("expected token version bump, got %d", reloaded.TokenVersion)
	}
	if reloaded.TokenInvalidBefore == nil {
		t.Fatalf("expected token_invalid_before set")
	}

	if _, _, _, err := svc.Login("rotate@example.com", "passw0rd123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got %v", err)
	}
	if _, _, _, err := svc.Login("rotate@example.com", "newpassw0rd1"); err != nil {
		t.Fatalf("new password login failed: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	svc, db := setupUserAuthServiceTest(t)
	user := registerTestUser(t, svc, "profile@example.com", "seller")

	if _, err := svc.UpdateProfile(user.ID, UpdateProfileInput{}); !errors.Is(err, ErrProfileEmpty) {
		t.Fatalf("expected ErrProfileEmpty, got %v", err)
	}

	firstName := "Awa"
	city := "Dakar"
	business := "Diallo Trading"
	updated, err := svc.UpdateProfile(user.ID, UpdateProfileInput{
		FirstName:    &firstName,
		City:         &city,
		BusinessName: &business,
	})
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if updated.FirstName != "Awa" {
		t.Fatalf("expected first name updated, got %s", updated.FirstName)
	}
	if updated.Profile == nil || updated.Profile.City != "Dakar" || updated.Profile.BusinessName != "Diallo Trading" {
		t.Fatalf("expected profile upserted, got %+v", updated.Profile)
	}

	var count int64
	if err := db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count profiles failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one profile row, got %d", count)
	}

	// 二次更新复用同一条资料
	bio := "Handmade goods from Dakar"
	if _, err := svc.UpdateProfile(user.ID, UpdateProfileInput{Bio: &bio}); err != nil {
		t.Fatalf("second update failed: %v", err)
	}
	if err := db.Model(&models.Profile{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("recount profiles failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected profile row reused, got %d", count)
	}

	if _, err := svc.UpdateProfile(9999, UpdateProfileInput{Bio: &bio}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestParseUserJWTRejectsTampered(t *testing.T) {
	svc, _ := setupUserAuthServiceTest(t)
	user := registerTestUser(t, svc, "jwt@example.com", "buyer")

	token, _, err := svc.GenerateUserJWT(user, 1)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	if _, err := svc.ParseUserJWT(token); err != nil {
		t.Fatalf("parse valid token failed: %v", err)
	}

	tampered := token[:len(token)-2] + "xx"
	if _, err := svc.ParseUserJWT(tampered); err == nil {
		t.Fatalf("expected tampered token to be rejected")
	}
	if !strings.Contains(token, ".") {
		t.Fatalf("expected JWT format")
	}
}
