package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"meudinheiro/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("usage: go run ./cmd/create_user <email> <password>")
		os.Exit(2)
	}
	email := strings.ToLower(strings.TrimSpace(os.Args[1]))
	password := os.Args[2]
	if len(password) < 6 {
		log.Fatal("password too short (min 6)")
	}

	db := mustOpenDB()

	// check existing
	var existing models.User
	if err := db.Where("email = ?", email).First(&existing).Error; err == nil {
		fmt.Printf("user %s already exists (id=%d)\n", email, existing.ID)
		os.Exit(0)
	}

	hpw, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("bcrypt failed: %v", err)
	}
	user := models.User{Email: email, HashedPassword: hpw}
	if err := db.Create(&user).Error; err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	fmt.Printf("created user %s id=%d\n", email, user.ID)
}

// mustOpenDB opens the same database the server uses: DB_DSN for
// Postgres, DB_PATH (default gastos.db) for sqlite.
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
