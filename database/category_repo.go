package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/mcp-search-server/errs"
	"github.com/rpupo63/mcp-search-server/models"
)

type CategoryRepo struct {
	db *gorm.DB
}

func NewCategoryRepo(db *gorm.DB) *CategoryRepo {
	return &CategoryRepo{db}
}

// FindAll returns all categories from the database
func (r *CategoryRepo) FindAll() ([]*models.Category, error) {
	var categories []*models.Category
	err := r.db.Find(&categories).Error
	return categories, err
}

// FindByName returns the category with the given unique name.
func (r *CategoryRepo) FindByName(name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("name = ?", name).First(&category).Error
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// FindOrCreate resolves a name to its shared category row, inserting it if
// missing. The insert rides on the unique name constraint (ON CONFLICT DO
// NOTHING), so concurrent creators cannot produce duplicate names.
func (r *CategoryRepo) FindOrCreate(name string) (*models.Category, error) {
	category := models.Category{Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&category).Error
	if err != nil {
		return nil, errs.NewDatabaseError("create", "category", err)
	}
	if category.ID == 0 {
		// Conflicted with an existing row; fetch it.
		if err := r.db.Where("name = ?", name).First(&category).Error; err != nil {
			return nil, errs.NewDatabaseError("find", "category", err)
		}
	}
	return &category, nil
}
