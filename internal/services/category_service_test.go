package services

import (
	"testing"

	"paycycle/internal/models"
	"paycycle/internal/testutil"
)

func TestCreateCategoryRejectsDuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := service.CreateCategory(user.ID, "Groceries", models.CategoryTypeNeed, "", 0)
	testutil.AssertNoError(t, err)

	// Duplicate detection is case-insensitive.
	_, err = service.CreateCategory(user.ID, "GROCERIES", models.CategoryTypeNeed, "", 0)
	testutil.AssertAppError(t, err, "DUPLICATE_CATEGORY")

	// Same name for a different user is fine.
	otherUser := testutil.CreateTestUser(t, db)
	_, err = service.CreateCategory(otherUser.ID, "Groceries", models.CategoryTypeNeed, "", 0)
	testutil.AssertNoError(t, err)
}

func TestDeleteCategoryInUse(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	cycle := testutil.CreateTestCycle(t, db, user.ID)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeWant)

	tx := testutil.CreateTestTransaction(t, db, user.ID, cycle.ID, "2024-03-20", -10)
	if err := db.Model(tx).Update("category_id", category.ID).Error; err != nil {
		t.Fatalf("failed to categorize: %v", err)
	}

	err := service.DeleteCategory(user.ID, category.ID)
	testutil.AssertAppError(t, err, "CATEGORY_IN_USE")

	// After the reference is gone the category can be deleted.
	if err := db.Delete(tx).Error; err != nil {
		t.Fatalf("failed to delete transaction: %v", err)
	}
	testutil.AssertNoError(t, service.DeleteCategory(user.ID, category.ID))
}

func TestGetUserCategoriesOrdering(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)

	_, err := service.CreateCategory(user.ID, "Zebra", models.CategoryTypeWant, "", 2)
	testutil.AssertNoError(t, err)
	_, err = service.CreateCategory(user.ID, "Apple", models.CategoryTypeNeed, "", 1)
	testutil.AssertNoError(t, err)

	categories, err := service.GetUserCategories(user.ID)
	testutil.AssertNoError(t, err)
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	if categories[0].Name != "Apple" {
		t.Errorf("expected sort_order to order categories, got %q first", categories[0].Name)
	}
}

func TestUpdateCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewCategoryService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeWant)

	newType := models.CategoryTypeBucket
	updated, err := service.UpdateCategory(user.ID, category.ID, "Holiday Fund", &newType, nil, nil)
	testutil.AssertNoError(t, err)

	var reloaded models.Category
	if err := db.First(&reloaded, updated.ID).Error; err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if reloaded.Name != "Holiday Fund" || reloaded.Type != models.CategoryTypeBucket {
		t.Errorf("unexpected category after update: %q %q", reloaded.Name, reloaded.Type)
	}
}
