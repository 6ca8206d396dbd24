package database

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"expensetracker/models"

	"golang.org/x/crypto/bcrypt"
)

// 演示数据中每个类别对应的描述候选
var seedDescriptions = map[string][]string{
	"Food":          {"Lunch", "Dinner", "Groceries", "Coffee", "Snacks"},
	"Transport":     {"Uber", "Gas", "Bus Ticket", "Train", "Taxi"},
	"Entertainment": {"Movie", "Concert", "Subscription", "Game", "Books"},
	"Bills":         {"Electricity", "Water", "Internet", "Phone", "Rent"},
	"Shopping":      {"Clothes", "Electronics", "Furniture", "Gifts", "Accessories"},
	"Health":        {"Doctor", "Medicine", "Gym", "Insurance", "Vitamins"},
	"Other":         {"Miscellaneous", "Donation", "Service", "Fees", "Subscription"},
}

// Seed 清空并重建演示数据：一个演示用户和最近 60 天的随机消费记录
// 仅用于开发环境，通过 -seed 参数触发
func Seed() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 清空现有数据
	if err := DB.Unscoped().Where("1 = 1").Delete(&models.Expense{}).Error; err != nil {
		return err
	}
	if err := DB.Unscoped().Where("is_default = ?", false).Delete(&models.Category{}).Error; err != nil {
		return err
	}
	if err := DB.Unscoped().Where("1 = 1").Delete(&models.User{}).Error; err != nil {
		return err
	}
	log.Println("已清空原有数据")

	// 演示用户
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	user := models.User{
		Username: "demo",
		Email:    "demo@example.com",
		Password: string(hashed),
		Role:     models.RoleUser,
	}
	if err := DB.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("已创建演示用户: %s / password123", user.Username)

	// 最近 60 天，每天 0-3 条随机消费
	names := make([]string, 0, len(seedDescriptions))
	for name := range seedDescriptions {
		names = append(names, name)
	}

	var expenses []models.Expense
	today := time.Now()
	for i := 0; i < 60; i++ {
		date := today.AddDate(0, 0, -i)
		numExpenses := rand.Intn(4)
		for j := 0; j < numExpenses; j++ {
			category := names[rand.Intn(len(names))]
			candidates := seedDescriptions[category]
			expenses = append(expenses, models.Expense{
				UserID:      user.ID,
				Amount:      float64(int((rand.Float64()*100+5)*100)) / 100,
				Category:    category,
				Description: candidates[rand.Intn(len(candidates))],
				Date:        date,
			})
		}
	}
	if len(expenses) > 0 {
		if err := DB.Create(&expenses).Error; err != nil {
			return err
		}
	}
	log.Printf("已创建 %d 条演示消费记录", len(expenses))

	return nil
}
