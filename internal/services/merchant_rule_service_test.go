package services

import (
	"testing"

	"paycycle/internal/models"
	"paycycle/internal/testutil"
)

func TestMatchCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewMerchantRuleService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeNeed)

	_, err := service.CreateRule(user.ID, "Coles", category.ID)
	testutil.AssertNoError(t, err)

	matched, err := service.MatchCategory(user.ID, "COLES EXPRESS 1234")
	testutil.AssertNoError(t, err)
	if matched == nil || matched.ID != category.ID {
		t.Errorf("expected category %d, got %v", category.ID, matched)
	}

	matched, err = service.MatchCategory(user.ID, "Completely Unrelated")
	testutil.AssertNoError(t, err)
	if matched != nil {
		t.Errorf("expected no match, got category %d", matched.ID)
	}
}

func TestCreateRuleRequiresOwnedCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewMerchantRuleService(db)
	owner := testutil.CreateTestUser(t, db)
	other := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, owner.ID, models.CategoryTypeNeed)

	_, err := service.CreateRule(other.ID, "Coles", category.ID)
	testutil.AssertAppError(t, err, "CATEGORY_NOT_FOUND")

	_, err = service.CreateRule(owner.ID, "   ", category.ID)
	testutil.AssertAppError(t, err, "INVALID_INPUT")
}

func TestDeleteRule(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.TeardownTestDB(t, db)
	service := NewMerchantRuleService(db)
	user := testutil.CreateTestUser(t, db)
	category := testutil.CreateTestCategory(t, db, user.ID, models.CategoryTypeNeed)

	rule, err := service.CreateRule(user.ID, "Coles", category.ID)
	testutil.AssertNoError(t, err)

	err = service.DeleteRule(user.ID, rule.ID+100)
	testutil.AssertAppError(t, err, "MERCHANT_RULE_NOT_FOUND")

	testutil.AssertNoError(t, service.DeleteRule(user.ID, rule.ID))
}
