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

// Removes an account and everything it owns: card purchases of its
// people, people, transactions, categories, then the user row. One
// transaction, so a crash mid-way leaves nothing half-deleted.
func main() {
	email := flag.String("email", "", "email of the account to delete")
	flag.Parse()
	if *email == "" {
		log.Fatal("--email is required")
	}
	db := mustOpenDB()

	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(*email))).First(&user).Error; err != nil {
		log.Fatalf("user not found: %v", err)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("person_id IN (?)",
			tx.Model(&models.Person{}).Select("id").Where("user_id = ?", user.ID),
		).Delete(&models.CardPurchase{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Person{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Category{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, user.ID).Error
	})
	if err != nil {
		log.Fatalf("delete failed: %v", err)
	}
	fmt.Printf("deleted user %s (id=%d) and all owned records\n", user.Email, user.ID)
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
