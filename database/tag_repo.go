package database

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/mcp-search-server/errs"
	"github.com/rpupo63/mcp-search-server/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindAll returns all tags from the database
func (r *TagRepo) FindAll() ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Find(&tags).Error
	return tags, err
}

// FindOrCreate resolves a name to its shared tag row, inserting it if
// missing. Insert-or-ignore on the unique name keeps concurrent lookups from
// racing into duplicates.
func (r *TagRepo) FindOrCreate(name string) (*models.Tag, error) {
	tag := models.Tag{Name: name}
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&tag).Error
	if err != nil {
		return nil, errs.NewDatabaseError("create", "tag", err)
	}
	if tag.ID == 0 {
		if err := r.db.Where("name = ?", name).First(&tag).Error; err != nil {
			return nil, errs.NewDatabaseError("find", "tag", err)
		}
	}
	return &tag, nil
}
