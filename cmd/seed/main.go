package main

import (
	"fmt"

	"github.com/sellflow-next/internal/config"
	"github.com/sellflow-next/internal/constants"
	"github.com/sellflow-next/internal/logger"
	"github.com/sellflow-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 添加分类
	categories := []models.Category{
		{Slug: "electronics", Name: "Electronics", Description: "Phones, audio and smart devices", SortOrder: 10},
		{Slug: "fashion", Name: "Fashion", Description: "Clothing, shoes and accessories", SortOrder: 20},
		{Slug: "home-living", Name: "Home & Living", Description: "Furniture, decor and kitchenware", SortOrder: 30},
		{Slug: "food-beverage", Name: "Food & Beverage", Description: "Snacks, drinks and pantry staples", SortOrder: 40},
	}

	for _, cat := range categories {
		var existing models.Category
		if err := models.DB.Where("slug = ?", cat.Slug).First(&existing).Error; err != nil {
			// 不存在则创建
			if err := models.DB.Create(&cat).Error; err != nil {
				stdLog.Printf("Failed to create category %s: %v", cat.Slug, err)
			} else {
				stdLog.Printf("Created category: %s", cat.Slug)
			}
		} else {
			stdLog.Printf("Category already exists: %s", cat.Slug)
		}
	}

	// 获取分类ID
	categoryIDs := map[string]uint{}
	var categoryList []models.Category
	if err := models.DB.Where("slug IN ?", []string{"electronics", "fashion", "home-living", "food-beverage"}).Find(&categoryList).Error; err != nil {
		stdLog.Printf("Failed to load categories: %v", err)
	}
	for _, cat := range categoryList {
		categoryIDs[cat.Slug] = cat.ID
	}
	electronicsID := categoryIDs["electronics"]
	fashionID := categoryIDs["fashion"]
	homeID := categoryIDs["home-living"]

	// 添加演示账号
	users := []struct {
		Email    string
		Password string
		Model    models.User
		Profile  *models.Profile
	}{
		{
			Email:    "seller@sellflow.dev",
			Password: "Seller123!",
			Model: models.User{
				Email:     "seller@sellflow.dev",
				FirstName: "Awa",
				LastName:  "Diallo",
				Phone:     "+221770000001",
				UserType:  constants.UserTypeSeller,
				Locale:    constants.LocaleFrFR,
				Status:    constants.UserStatusActive,
			},
			Profile: &models.Profile{
				Bio:          "Handmade goods and electronics reseller",
				BusinessName: "Diallo Trading",
				BusinessType: "retail",
				City:         "Dakar",
				Country:      "SN",
			},
		},
		{
			Email:    "buyer@sellflow.dev",
			Password: "Buyer123!",
			Model: models.User{
				Email:     "buyer@sellflow.dev",
				FirstName: "Sam",
				LastName:  "Okoro",
				Phone:     "+234800000002",
				UserType:  constants.UserTypeBuyer,
				Locale:    constants.LocaleEnUS,
				Status:    constants.UserStatusActive,
			},
		},
	}

	var sellerID uint
	for _, seedUser := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", seedUser.Email).First(&existing).Error; err == nil {
			stdLog.Printf("User already exists: %s", seedUser.Email)
			if existing.UserType == constants.UserTypeSeller {
				sellerID = existing.ID
			}
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(seedUser.Password), bcrypt.DefaultCost)
		if err != nil {
			stdLog.Printf("Failed to hash password for %s: %v", seedUser.Email, err)
			continue
		}
		user := seedUser.Model
		user.PasswordHash = string(hash)
		if err := models.DB.Create(&user).Error; err != nil {
			stdLog.Printf("Failed to create user %s: %v", seedUser.Email, err)
			continue
		}
		stdLog.Printf("Created user: %s", seedUser.Email)
		if seedUser.Profile != nil {
			profile := *seedUser.Profile
			profile.UserID = user.ID
			if err := models.DB.Create(&profile).Error; err != nil {
				stdLog.Printf("Failed to create profile for %s: %v", seedUser.Email, err)
			}
		}
		if user.UserType == constants.UserTypeSeller {
			sellerID = user.ID
		}
	}

	if sellerID == 0 {
		stdLog.Fatalf("No seller account available, cannot seed products")
	}

	// 添加商品
	products := []models.Product{
		{
			SellerID:      sellerID,
			CategoryID:    electronicsID,
			Slug:          "wireless-earphones",
			Name:          "Wireless Bluetooth Earphones",
			Description:   "High quality sound, long battery life, comfortable to wear",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(99.99)),
			StockQuantity: 25,
			Status:        constants.ProductStatusActive,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1590658268037-6bf12165a8df?w=800",
			}),
			SortOrder: 100,
		},
		{
			SellerID:      sellerID,
			CategoryID:    electronicsID,
			Slug:          "smart-watch",
			Name:          "Smart Watch",
			Description:   "Health monitoring, fitness tracking, message notifications",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(199.99)),
			StockQuantity: 12,
			Status:        constants.ProductStatusActive,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1579586337278-3befd40fd17a?w=800",
			}),
			SortOrder: 90,
		},
		{
			SellerID:      sellerID,
			CategoryID:    fashionID,
			Slug:          "canvas-tote-bag",
			Name:          "Canvas Tote Bag",
			Description:   "Durable everyday tote with inner pocket",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(24.50)),
			StockQuantity: 40,
			Status:        constants.ProductStatusActive,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1553062407-98eeb64c6a62?w=800",
			}),
			SortOrder: 80,
		},
		{
			SellerID:      sellerID,
			CategoryID:    homeID,
			Slug:          "ceramic-mug-set",
			Name:          "Ceramic Mug Set",
			Description:   "Set of four hand-glazed ceramic mugs",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(34.00)),
			StockQuantity: 18,
			Status:        constants.ProductStatusActive,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1514228742587-6b1558fcca3d?w=800",
			}),
			SortOrder: 70,
		},
		{
			// 售罄演示商品
			SellerID:      sellerID,
			CategoryID:    electronicsID,
			Slug:          "power-bank-sold-out",
			Name:          "Portable Power Bank",
			Description:   "High capacity, fast charging, multi-device compatible",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(49.99)),
			StockQuantity: 0,
			Status:        constants.ProductStatusActive,
			Images: models.StringArray([]string{
				"https://images.unsplash.com/photo-1609091839311-d5365f9ff1c5?w=800",
			}),
			SortOrder: 60,
		},
		{
			// 草稿状态，前台不可见
			SellerID:      sellerID,
			CategoryID:    fashionID,
			Slug:          "linen-shirt-draft",
			Name:          "Linen Shirt (Coming Soon)",
			Description:   "Lightweight linen shirt, summer collection",
			Price:         models.NewMoneyFromDecimal(decimal.NewFromFloat(45.00)),
			StockQuantity: 30,
			Status:        constants.ProductStatusDraft,
			SortOrder:     50,
		},
	}

	for _, prod := range products {
		if prod.CategoryID == 0 {
			stdLog.Printf("Skip product %s: category_id missing", prod.Slug)
			continue
		}
		var existing models.Product
		if err := models.DB.Where("slug = ?", prod.Slug).First(&existing).Error; err != nil {
			if err := models.DB.Create(&prod).Error; err != nil {
				stdLog.Printf("Failed to create product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Created product: %s", prod.Slug)
			}
		} else {
			existing.Name = prod.Name
			existing.Description = prod.Description
			existing.Price = prod.Price
			existing.CategoryID = prod.CategoryID
			existing.Images = prod.Images
			existing.StockQuantity = prod.StockQuantity
			existing.Status = prod.Status
			existing.SortOrder = prod.SortOrder
			if err := models.DB.Save(&existing).Error; err != nil {
				stdLog.Printf("Failed to update product %s: %v", prod.Slug, err)
			} else {
				stdLog.Printf("Updated product: %s", prod.Slug)
			}
		}
	}

	// 添加演示社交账号
	socialAccounts := []models.SocialAccount{
		{
			UserID:      sellerID,
			Platform:    constants.SocialPlatformInstagram,
			Handle:      "diallo.trading",
			IsActive:    true,
		},
		{
			UserID:      sellerID,
			Platform:    constants.SocialPlatformFacebook,
			Handle:      "diallotrading",
			IsActive:    true,
		},
	}

	for _, account := range socialAccounts {
		var existing models.SocialAccount
		if err := models.DB.Where("user_id = ? AND platform = ?", account.UserID, account.Platform).First(&existing).Error; err == nil {
			stdLog.Printf("Social account already exists: %s", account.Platform)
			continue
		}
		if err := models.DB.Create(&account).Error; err != nil {
			stdLog.Printf("Failed to create social account %s: %v", account.Platform, err)
		} else {
			stdLog.Printf("Created social account: %s", account.Platform)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 4 Categories")
	fmt.Println("- 2 Users (seller@sellflow.dev / buyer@sellflow.dev)")
	fmt.Println("- 6 Products (incl. sold-out and draft demos)")
	fmt.Println("- 2 Social accounts")
}
