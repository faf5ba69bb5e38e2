package main

import (
	"fmt"
	"io"
	"net/http"
	"testing"

	"meudinheiro/models"
)

func createOwnedFixtures(t *testing.T, r http.Handler, token string) (catID, txID, personID, purchaseID uint) {
	t.Helper()
	resp := performRequest(r, http.MethodPost, "/categories", jsonBody(t, map[string]any{"name": "Fix"}), token)
	if resp.Code != http.StatusOK {
		t.Fatalf("create category failed status=%d", resp.Code)
	}
	catID = uint(decodeJSON(t, resp)["id"].(float64))

	resp = performRequest(r, http.MethodPost, "/transactions",
		jsonBody(t, map[string]any{"description": "tx", "amount": 10, "type": "expense", "category_id": catID}), token)
	if resp.Code != http.StatusOK {
		t.Fatalf("create transaction failed status=%d", resp.Code)
	}
	txID = uint(decodeJSON(t, resp)["id"].(float64))

	resp = performRequest(r, http.MethodPost, "/people", jsonBody(t, map[string]any{"name": "Bob"}), token)
	if resp.Code != http.StatusOK {
		t.Fatalf("create person failed status=%d", resp.Code)
	}
	personID = uint(decodeJSON(t, resp)["id"].(float64))

	resp = performRequest(r, http.MethodPost, fmt.Sprintf("/people/%d/purchases", personID),
		jsonBody(t, map[string]any{"description": "thing", "amount": 5, "category_id": catID}), token)
	if resp.Code != http.StatusOK {
		t.Fatalf("create purchase failed status=%d", resp.Code)
	}
	purchaseID = uint(decodeJSON(t, resp)["id"].(float64))
	return
}

// A record owned by one user must look nonexistent to every other
// user: 404 on every verb, never a permission error.
func TestCrossUserIsolation(t *testing.T) {
	r := setupTestServer(t)
	tokenA := registerAndLogin(t, r, "a@example.com", "pass123")
	tokenB := registerAndLogin(t, r, "b@example.com", "pass123")

	catID, txID, personID, purchaseID := createOwnedFixtures(t, r, tokenA)

	attempts := []struct {
		method string
		path   string
		body   map[string]any
	}{
		{http.MethodPut, fmt.Sprintf("/categories/%d", catID), map[string]any{"name": "stolen"}},
		{http.MethodDelete, fmt.Sprintf("/categories/%d", catID), nil},
		{http.MethodDelete, fmt.Sprintf("/transactions/%d", txID), nil},
		{http.MethodPut, fmt.Sprintf("/people/%d", personID), map[string]any{"name": "stolen"}},
		{http.MethodDelete, fmt.Sprintf("/people/%d", personID), nil},
		{http.MethodGet, fmt.Sprintf("/people/%d/purchases", personID), nil},
		{http.MethodPost, fmt.Sprintf("/people/%d/purchases", personID), map[string]any{"description": "x", "amount": 1}},
		{http.MethodDelete, fmt.Sprintf("/people/%d/purchases/%d", personID, purchaseID), nil},
	}
	for _, a := range attempts {
		var body io.Reader
		if a.body != nil {
			body = jsonBody(t, a.body)
		}
		resp := performRequest(r, a.method, a.path, body, tokenB)
		if resp.Code != http.StatusNotFound {
			t.Errorf("%s %s as non-owner: got %d, want 404", a.method, a.path, resp.Code)
		}
	}

	// B's listings stay empty
	for _, path := range []string{"/categories", "/transactions", "/people"} {
		resp := performRequest(r, http.MethodGet, path, nil, tokenB)
		if resp.Code != http.StatusOK {
			t.Fatalf("list %s failed status=%d", path, resp.Code)
		}
		if got := len(decodeList(t, resp)); got != 0 {
			t.Errorf("list %s as non-owner: got %d items, want 0", path, got)
		}
	}

	// referencing A's category in B's create is a 404 too
	resp := performRequest(r, http.MethodPost, "/transactions",
		jsonBody(t, map[string]any{"description": "x", "amount": 1, "type": "expense", "category_id": catID}), tokenB)
	if resp.Code != http.StatusNotFound {
		t.Errorf("create with foreign category: got %d, want 404", resp.Code)
	}

	// nothing of A's was touched
	resp = performRequest(r, http.MethodGet, "/transactions", nil, tokenA)
	if got := len(decodeList(t, resp)); got != 1 {
		t.Fatalf("owner lost transactions: %d", got)
	}
	resp = performRequest(r, http.MethodGet, fmt.Sprintf("/people/%d/purchases", personID), nil, tokenA)
	if got := len(decodeList(t, resp)); got != 1 {
		t.Fatalf("owner lost purchases: %d", got)
	}
}

func TestCategoryDeleteClearsTransactionLinkOnly(t *testing.T) {
	r := setupTestServer(t)
	token := registerAndLogin(t, r, "cat@example.com", "pass123")
	catID, txID, _, purchaseID := createOwnedFixtures(t, r, token)

	resp := performRequest(r, http.MethodDelete, fmt.Sprintf("/categories/%d", catID), nil, token)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete category failed status=%d body=%s", resp.Code, resp.Body.String())
	}

	// the transaction survives with its category reference cleared
	var tx models.Transaction
	if err := db.First(&tx, txID).Error; err != nil {
		t.Fatalf("transaction was deleted with its category: %v", err)
	}
	if tx.CategoryID != nil {
		t.Fatalf("transaction category_id = %d, want cleared", *tx.CategoryID)
	}

	// the card purchase keeps its (now stale) category id
	var purchase models.CardPurchase
	if err := db.First(&purchase, purchaseID).Error; err != nil {
		t.Fatalf("purchase was deleted with the category: %v", err)
	}
	if purchase.CategoryID == nil || *purchase.CategoryID != catID {
		t.Fatalf("purchase category_id changed: %v", purchase.CategoryID)
	}
}

func TestPersonDeleteCascadesPurchases(t *testing.T) {
	r := setupTestServer(t)
	token := registerAndLogin(t, r, "person@example.com", "pass123")

	resp := performRequest(r, http.MethodPost, "/people", jsonBody(t, map[string]any{"name": "Carla"}), token)
	personID := uint(decodeJSON(t, resp)["id"].(float64))
	for i := 0; i < 3; i++ {
		resp = performRequest(r, http.MethodPost, fmt.Sprintf("/people/%d/purchases", personID),
			jsonBody(t, map[string]any{"description": fmt.Sprintf("p%d", i), "amount": 1}), token)
		if resp.Code != http.StatusOK {
			t.Fatalf("create purchase %d failed status=%d", i, resp.Code)
		}
	}

	resp = performRequest(r, http.MethodDelete, fmt.Sprintf("/people/%d", personID), nil, token)
	if resp.Code != http.StatusOK {
		t.Fatalf("delete person failed status=%d", resp.Code)
	}

	var count int64
	db.Model(&models.CardPurchase{}).Where("person_id = ?", personID).Count(&count)
	if count != 0 {
		t.Fatalf("%d purchases still reference the deleted person", count)
	}
}

func TestUserDeleteCascadesEverything(t *testing.T) {
	r := setupTestServer(t)
	tokenA := registerAndLogin(t, r, "gone@example.com", "pass123")
	tokenB := registerAndLogin(t, r, "stays@example.com", "pass123")

	_, _, personID, _ := createOwnedFixtures(t, r, tokenA)
	createOwnedFixtures(t, r, tokenB)

	var userA models.User
	if err := db.Where("email = ?", "gone@example.com").First(&userA).Error; err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if err := deleteUserCascade(db, userA.ID); err != nil {
		t.Fatalf("cascade delete: %v", err)
	}

	var count int64
	db.Model(&models.Category{}).Where("user_id = ?", userA.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d categories survived", count)
	}
	db.Model(&models.Transaction{}).Where("user_id = ?", userA.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d transactions survived", count)
	}
	db.Model(&models.Person{}).Where("user_id = ?", userA.ID).Count(&count)
	if count != 0 {
		t.Errorf("%d people survived", count)
	}
	db.Model(&models.CardPurchase{}).Where("person_id = ?", personID).Count(&count)
	if count != 0 {
		t.Errorf("%d card purchases survived transitively", count)
	}
	db.Model(&models.User{}).Where("id = ?", userA.ID).Count(&count)
	if count != 0 {
		t.Errorf("user row survived")
	}

	// the other account is untouched
	resp := performRequest(r, http.MethodGet, "/transactions", nil, tokenB)
	if got := len(decodeList(t, resp)); got != 1 {
		t.Fatalf("unrelated user's data was affected: %d transactions", got)
	}
}
