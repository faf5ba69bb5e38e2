package main

import (
	"meudinheiro/models"

	"gorm.io/gorm"
)

// Every read/write on owned records goes through the helpers in this
// file. The Where("user_id = ?") predicate lives here and nowhere
// else: an accessor that skips it cannot be written by accident.

// owned covers the entity kinds with a direct user_id column. Card
// purchases hang off a person instead and are scoped through
// personForOwner below.
type owned interface {
	models.Category | models.Transaction | models.Person
}

// ownedBy restricts a query to records owned by userID.
func ownedBy(userID uint) func(tx *gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("user_id = ?", userID)
	}
}

// firstOwned fetches one record by id, invisible unless userID owns it.
// A foreign id yields gorm.ErrRecordNotFound, same as an absent one.
func firstOwned[T owned](tx *gorm.DB, userID, id uint) (*T, error) {
	var out T
	if err := tx.Scopes(ownedBy(userID)).First(&out, id).Error; err != nil {
		return nil, err
	}
	return &out, nil
}

// listOwned lists a user's records, with optional extra query mods
// (ordering, pagination).
func listOwned[T owned](tx *gorm.DB, userID uint, mods ...func(*gorm.DB) *gorm.DB) ([]T, error) {
	out := []T{}
	q := tx.Scopes(ownedBy(userID))
	for _, mod := range mods {
		q = mod(q)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// personForOwner resolves a person id under userID. It is the gate for
// every card purchase operation.
func personForOwner(tx *gorm.DB, userID, personID uint) (*models.Person, error) {
	return firstOwned[models.Person](tx, userID, personID)
}

// listPurchases returns the purchases of one of userID's people.
func listPurchases(tx *gorm.DB, userID, personID uint) ([]models.CardPurchase, error) {
	person, err := personForOwner(tx, userID, personID)
	if err != nil {
		return nil, err
	}
	purchases := []models.CardPurchase{}
	if err := tx.Where("person_id = ?", person.ID).Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// createPurchase attaches a purchase to one of userID's people.
func createPurchase(tx *gorm.DB, userID, personID uint, purchase *models.CardPurchase) error {
	person, err := personForOwner(tx, userID, personID)
	if err != nil {
		return err
	}
	purchase.PersonID = person.ID
	return tx.Create(purchase).Error
}

// deletePurchase removes a purchase, but only through a person the
// caller owns; a valid purchase id under someone else's person is not
// found.
func deletePurchase(tx *gorm.DB, userID, personID, purchaseID uint) error {
	person, err := personForOwner(tx, userID, personID)
	if err != nil {
		return err
	}
	res := tx.Where("person_id = ?", person.ID).Delete(&models.CardPurchase{}, purchaseID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteTransaction removes one of userID's transactions.
func deleteTransaction(tx *gorm.DB, userID, id uint) error {
	res := tx.Scopes(ownedBy(userID)).Delete(&models.Transaction{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// deleteCategory removes a category and clears the category link on
// its transactions, in one transaction. The transactions themselves
// survive. Card purchase category ids are left as they are.
func deleteCategory(gdb *gorm.DB, userID, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		category, err := firstOwned[models.Category](tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Model(&models.Transaction{}).
			Where("category_id = ? AND user_id = ?", category.ID, userID).
			Update("category_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Category{}, category.ID).Error
	})
}

// deletePerson removes a person and all their card purchases
// atomically. A partially-cascaded state is never visible.
func deletePerson(gdb *gorm.DB, userID, id uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		person, err := personForOwner(tx, userID, id)
		if err != nil {
			return err
		}
		if err := tx.Where("person_id = ?", person.ID).Delete(&models.CardPurchase{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Person{}, person.ID).Error
	})
}

// deleteUserCascade removes a user and everything they own: card
// purchases of their people, people, transactions, categories, then
// the user row itself. Runs in one transaction.
func deleteUserCascade(gdb *gorm.DB, userID uint) error {
	return gdb.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}
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
}
