package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"meudinheiro/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRoutes(r *gin.Engine) {
	r.POST("/register", registerHandler)
	r.POST("/login", loginHandler)
	authGroup := r.Group("")
	authGroup.Use(jwtAuthMiddleware())
	authGroup.GET("/me", meHandler)
	authGroup.GET("/categories", listCategoriesHandler)
	authGroup.POST("/categories", createCategoryHandler)
	authGroup.PUT("/categories/:id", updateCategoryHandler)
	authGroup.DELETE("/categories/:id", deleteCategoryHandler)
	authGroup.GET("/transactions", listTransactionsHandler)
	authGroup.POST("/transactions", createTransactionHandler)
	authGroup.DELETE("/transactions/:id", deleteTransactionHandler)
	authGroup.GET("/summary", summaryHandler)
	authGroup.GET("/people", listPeopleHandler)
	authGroup.POST("/people", createPersonHandler)
	authGroup.PUT("/people/:id", updatePersonHandler)
	authGroup.DELETE("/people/:id", deletePersonHandler)
	authGroup.GET("/people/:id/purchases", listPurchasesHandler)
	authGroup.POST("/people/:id/purchases", createPurchaseHandler)
	authGroup.DELETE("/people/:id/purchases/:purchaseID", deletePurchaseHandler)
}

// jwtAuthMiddleware verifies the bearer token and resolves its subject
// to a user. A missing/forged/expired token and a subject that no
// longer exists produce the same 401; callers cannot tell them apart.
func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			abortUnauthenticated(c)
			return
		}
		email, err := ParseToken(authHeader[7:])
		if err != nil {
			abortUnauthenticated(c)
			return
		}
		var user models.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			abortUnauthenticated(c)
			return
		}
		c.Set("user", &user)
		c.Next()
	}
}

func abortUnauthenticated(c *gin.Context) {
	c.Header("WWW-Authenticate", "Bearer")
	c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token or expired session"})
	c.Abort()
}

// currentUser returns the user resolved by jwtAuthMiddleware.
func currentUser(c *gin.Context) *models.User {
	return c.MustGet("user").(*models.User)
}

// paramID parses a numeric path parameter. Responds 400 and returns
// false on garbage.
func paramID(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(v), true
}

func notFoundOrError(c *gin.Context, err error, msg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
}

func registerHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := RegisterUser(req.Email, req.Password)
	if err != nil {
		if err == ErrEmailTaken {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": user.ID, "email": user.Email})
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := Authenticate(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	tokenString, err := IssueToken(user.Email, tokenTTL)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "token_type": "bearer"})
}

func meHandler(c *gin.Context) {
	user := currentUser(c)
	c.JSON(http.StatusOK, gin.H{"id": user.ID, "email": user.Email})
}

// --- categories ---

func listCategoriesHandler(c *gin.Context) {
	user := currentUser(c)
	categories, err := listOwned[models.Category](db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func createCategoryHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = models.DefaultCategoryColor
	}
	category := models.Category{Name: req.Name, Color: req.Color, UserID: user.ID}
	if err := db.Create(&category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func updateCategoryHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name  string `json:"name" binding:"required"`
		Color string `json:"color"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Color == "" {
		req.Color = models.DefaultCategoryColor
	}
	category, err := firstOwned[models.Category](db, user.ID, id)
	if err != nil {
		notFoundOrError(c, err, "category not found")
		return
	}
	category.Name = req.Name
	category.Color = req.Color
	if err := db.Save(category).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, category)
}

func deleteCategoryHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := deleteCategory(db, user.ID, id); err != nil {
		notFoundOrError(c, err, "category not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "category removed"})
}

// --- transactions ---

func listTransactionsHandler(c *gin.Context) {
	user := currentUser(c)
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	if skip < 0 {
		skip = 0
	}
	transactions, err := listOwned[models.Transaction](db, user.ID, func(q *gorm.DB) *gorm.DB {
		return q.Order("date desc").Offset(skip).Limit(limit)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, transactions)
}

func createTransactionHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		Type        string  `json:"type" binding:"required,oneof=income expense"`
		CategoryID  *uint   `json:"category_id"`
		Date        string  `json:"date"` // optional ISO8601
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CategoryID != nil {
		// a category owned by someone else does not exist, as far as
		// this caller is concerned
		if _, err := firstOwned[models.Category](db, user.ID, *req.CategoryID); err != nil {
			notFoundOrError(c, err, "category not found")
			return
		}
	}
	transaction := models.Transaction{
		Description: req.Description,
		Amount:      req.Amount,
		Type:        req.Type,
		CategoryID:  req.CategoryID,
		UserID:      user.ID,
		Date:        time.Now(),
	}
	if req.Date != "" {
		t, err := time.Parse(time.RFC3339, req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want RFC3339)"})
			return
		}
		transaction.Date = t
	}
	if err := db.Create(&transaction).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, transaction)
}

func deleteTransactionHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := deleteTransaction(db, user.ID, id); err != nil {
		notFoundOrError(c, err, "transaction not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "transaction removed"})
}

// summaryHandler aggregates the caller's transactions. Sums run in
// decimal and are rounded to 2 places after summation, so cent-level
// inputs come out exact.
func summaryHandler(c *gin.Context) {
	user := currentUser(c)
	transactions, err := listOwned[models.Transaction](db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	income := decimal.Zero
	expense := decimal.Zero
	for _, t := range transactions {
		switch t.Type {
		case models.TransactionTypeIncome:
			income = income.Add(decimal.NewFromFloat(t.Amount))
		case models.TransactionTypeExpense:
			expense = expense.Add(decimal.NewFromFloat(t.Amount))
		}
	}
	balance := income.Sub(expense).Round(2)
	c.JSON(http.StatusOK, gin.H{
		"income":  income.Round(2).InexactFloat64(),
		"expense": expense.Round(2).InexactFloat64(),
		"balance": balance.InexactFloat64(),
	})
}

// --- people ---

func listPeopleHandler(c *gin.Context) {
	user := currentUser(c)
	people, err := listOwned[models.Person](db, user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, people)
}

func createPersonHandler(c *gin.Context) {
	user := currentUser(c)
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	person := models.Person{Name: req.Name, UserID: user.ID}
	if err := db.Create(&person).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create failed"})
		return
	}
	c.JSON(http.StatusOK, person)
}

func updatePersonHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	person, err := personForOwner(db, user.ID, id)
	if err != nil {
		notFoundOrError(c, err, "person not found")
		return
	}
	person.Name = req.Name
	if err := db.Save(person).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	c.JSON(http.StatusOK, person)
}

func deletePersonHandler(c *gin.Context) {
	user := currentUser(c)
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := deletePerson(db, user.ID, id); err != nil {
		notFoundOrError(c, err, "person not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "person removed"})
}

// --- card purchases (nested under a person) ---

func listPurchasesHandler(c *gin.Context) {
	user := currentUser(c)
	personID, ok := paramID(c, "id")
	if !ok {
		return
	}
	purchases, err := listPurchases(db, user.ID, personID)
	if err != nil {
		notFoundOrError(c, err, "person not found")
		return
	}
	c.JSON(http.StatusOK, purchases)
}

func createPurchaseHandler(c *gin.Context) {
	user := currentUser(c)
	personID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Description string  `json:"description" binding:"required"`
		Amount      float64 `json:"amount" binding:"required"`
		CategoryID  *uint   `json:"category_id"`
		Date        string  `json:"date"` // optional YYYY-MM-DD
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CategoryID != nil {
		if _, err := firstOwned[models.Category](db, user.ID, *req.CategoryID); err != nil {
			notFoundOrError(c, err, "category not found")
			return
		}
	}
	purchase := models.CardPurchase{
		Description: req.Description,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
		Date:        models.Today(),
	}
	if req.Date != "" {
		t, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date (want YYYY-MM-DD)"})
			return
		}
		purchase.Date = models.NewDateOnly(t)
	}
	if err := createPurchase(db, user.ID, personID, &purchase); err != nil {
		notFoundOrError(c, err, "person not found")
		return
	}
	c.JSON(http.StatusOK, purchase)
}

func deletePurchaseHandler(c *gin.Context) {
	user := currentUser(c)
	personID, ok := paramID(c, "id")
	if !ok {
		return
	}
	purchaseID, ok := paramID(c, "purchaseID")
	if !ok {
		return
	}
	if err := deletePurchase(db, user.ID, personID, purchaseID); err != nil {
		notFoundOrError(c, err, "purchase not found")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "purchase removed"})
}
