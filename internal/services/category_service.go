package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	apperrors "paycycle/internal/errors"
	"paycycle/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

// CreateCategory creates a spending category. Names are unique per user,
// case-insensitively.
func (s *categoryService) CreateCategory(userID uint, name string, categoryType models.CategoryType, icon string, sortOrder int) (*models.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	taken, err := s.nameTaken(userID, name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperrors.ErrDuplicateCategory
	}

	category := &models.Category{
		UserID:    userID,
		Name:      name,
		Type:      categoryType,
		Icon:      icon,
		SortOrder: sortOrder,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// GetUserCategories returns all of the user's categories in sort order.
func (s *categoryService) GetUserCategories(userID uint) ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Where("user_id = ?", userID).
		Order("sort_order ASC, name ASC").
		Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a category by ID if it belongs to the user.
func (s *categoryService) GetCategoryByID(userID, categoryID uint) (*models.Category, error) {
	var category models.Category
	if err := s.db.Where("id = ? AND user_id = ?", categoryID, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// UpdateCategory applies a partial update to a category.
func (s *categoryService) UpdateCategory(userID, categoryID uint, name string, categoryType *models.CategoryType, icon *string, sortOrder *int) (*models.Category, error) {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name = strings.TrimSpace(name); name != "" {
		taken, err := s.nameTaken(userID, name, categoryID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, apperrors.ErrDuplicateCategory
		}
		updates["name"] = name
	}
	if categoryType != nil {
		updates["type"] = *categoryType
	}
	if icon != nil {
		updates["icon"] = *icon
	}
	if sortOrder != nil {
		updates["sort_order"] = *sortOrder
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory removes a category. Categories referenced by
// transactions, budgets, templates or merchant rules cannot be deleted.
func (s *categoryService) DeleteCategory(userID, categoryID uint) error {
	category, err := s.GetCategoryByID(userID, categoryID)
	if err != nil {
		return err
	}

	inUse, err := s.inUse(categoryID)
	if err != nil {
		return err
	}
	if inUse {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return nil
}

func (s *categoryService) nameTaken(userID uint, name string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.Model(&models.Category{}).
		Where("user_id = ? AND LOWER(name) = ?", userID, strings.ToLower(name))
	if excludeID != 0 {
		query = query.Where("id != ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count > 0, nil
}

func (s *categoryService) inUse(categoryID uint) (bool, error) {
	checks := []struct {
		model  interface{}
		column string
	}{
		{&models.Transaction{}, "category_id"},
		{&models.Budget{}, "category_id"},
		{&models.RecurringTransaction{}, "category_id"},
		{&models.MerchantRule{}, "default_category_id"},
	}
	for _, check := range checks {
		var count int64
		if err := s.db.Model(check.model).
			Where(check.column+" = ?", categoryID).
			Count(&count).Error; err != nil {
			return false, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if count > 0 {
			return true, nil
		}
	}
	return false, nil
}
