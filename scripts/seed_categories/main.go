package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"meudinheiro/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Default palette seeded for a new account. Idempotent: existing names
// are skipped.
var defaultCategories = []models.Category{
	{Name: "Salário", Color: "#2609b7"},
	{Name: "Alimentação", Color: "#e67e22"},
	{Name: "Transporte", Color: "#3498db"},
	{Name: "Lazer", Color: "#f1c40f"},
	{Name: "Saúde", Color: "#e74c3c"},
	{Name: "Moradia", Color: "#9b59b6"},
}

func main() {
	email := flag.String("email", "", "email of the account to seed")
	flag.Parse()
	if *email == "" {
		log.Fatal("--email is required")
	}
	db := mustOpenDB()

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	created := 0
	for _, cat := range defaultCategories {
		var cnt int64
		db.Model(&models.Category{}).Where("user_id = ? AND name = ?", user.ID, cat.Name).Count(&cnt)
		if cnt > 0 {
			continue
		}
		cat.UserID = user.ID
		if err := db.Create(&cat).Error; err != nil {
			log.Fatalf("create category %s: %v", cat.Name, err)
		}
		created++
	}
	fmt.Printf("seeded %d categories for %s\n", created, user.Email)
}

func mustOpenDB() *gorm.DB {
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		return db
	}
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "gastos.db"
	}
	db, err := gorm.Open(sqlite.Open("file:"+path+"?_fk=1"), &gorm.Config{})
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	return db
}
