package database

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/rpupo63/mcp-search-server/errs"
	"github.com/rpupo63/mcp-search-server/models"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// ProjectInput carries the normalized record produced by one ingestion step.
type ProjectInput struct {
	Name          string
	Description   string
	RepoURL       string
	ReadmeContent string
	Stars         int
	Forks         int
	Language      string
	Categories    []string
	Tags          []string
	RelatedLinks  []string
}

// ProjectUpdate is a shallow field patch. Only non-nil fields are applied;
// associations are never part of an update. LastCrawledAt is set by
// ingestion only, so a manual patch leaves it nil.
type ProjectUpdate struct {
	Name          *string
	Description   *string
	ReadmeContent *string
	Stars         *int
	Forks         *int
	Language      *string
	RelatedLinks  []string
	LastCrawledAt *time.Time
}

// patch converts a crawled input into the update applied to an existing row.
func (in ProjectInput) patch(crawledAt time.Time) ProjectUpdate {
	return ProjectUpdate{
		Name:          &in.Name,
		Description:   &in.Description,
		ReadmeContent: &in.ReadmeContent,
		Stars:         &in.Stars,
		Forks:         &in.Forks,
		Language:      &in.Language,
		RelatedLinks:  in.RelatedLinks,
		LastCrawledAt: &crawledAt,
	}
}

func (u ProjectUpdate) apply(p *models.Project) {
	if u.Name != nil {
		p.Name = *u.Name
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.ReadmeContent != nil {
		p.ReadmeContent = *u.ReadmeContent
	}
	if u.Stars != nil {
		p.Stars = *u.Stars
	}
	if u.Forks != nil {
		p.Forks = *u.Forks
	}
	if u.Language != nil {
		p.Language = *u.Language
	}
	if u.RelatedLinks != nil {
		p.RelatedLinks = marshalLinks(u.RelatedLinks)
	}
	if u.LastCrawledAt != nil {
		p.LastCrawledAt = u.LastCrawledAt
	}
}

func marshalLinks(links []string) datatypes.JSON {
	if links == nil {
		links = []string{}
	}
	raw, err := json.Marshal(links)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(raw)
}

// FindByRepoURL returns the project with the given canonical repository URL,
// including its associations. Returns gorm.ErrRecordNotFound when absent.
func (r *ProjectRepo) FindByRepoURL(repoURL string) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Categories").Preload("Tags").
		Where("repo_url = ?", repoURL).First(&project).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.Preload("Categories").Preload("Tags").First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project into the database, creating join rows for any
// pre-resolved categories and tags. Linking an already-linked row is a
// no-op at the join table.
func (r *ProjectRepo) Add(project *models.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return errs.NewDatabaseError("create", "project", err)
	}
	return nil
}

// ApplyUpdate applies a shallow field patch to an existing project and
// persists it. Associations are deliberately omitted: update never re-syncs
// category or tag links.
func (r *ProjectRepo) ApplyUpdate(project *models.Project, update ProjectUpdate) error {
	update.apply(project)
	if err := r.db.Omit(clause.Associations).Save(project).Error; err != nil {
		return errs.NewDatabaseError("update", "project", err)
	}
	return nil
}

// SearchParams selects projects. Query matches name OR description OR readme
// (case-insensitive substring); Category narrows to members of that
// category; Tags requires membership in every listed tag. Pagination is
// 1-indexed.
type SearchParams struct {
	Query    string
	Page     int
	Size     int
	Category string
	Tags     []string
}

// SearchResults is the paginated search response. Total counts all matches
// regardless of the requested window.
type SearchResults struct {
	Total int64                   `json:"total"`
	Page  int                     `json:"page"`
	Size  int                     `json:"size"`
	Items []models.ProjectSummary `json:"items"`
}

// Search runs a multi-predicate query ordered by descending star count.
func (r *ProjectRepo) Search(params SearchParams) (SearchResults, error) {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Size < 1 {
		params.Size = 10
	}

	q := r.db.Model(&models.Project{})

	if params.Query != "" {
		pattern := "%" + strings.ToLower(params.Query) + "%"
		// LOWER(...) LIKE keeps matching case-insensitive on both sqlite
		// and postgres.
		q = q.Where(
			r.db.Where("LOWER(projects.name) LIKE ?", pattern).
				Or("LOWER(projects.description) LIKE ?", pattern).
				Or("LOWER(projects.readme_content) LIKE ?", pattern),
		)
	}

	if params.Category != "" {
		q = q.Joins("JOIN project_category ON project_category.project_id = projects.id").
			Joins("JOIN categories ON categories.id = project_category.category_id").
			Where("categories.name = ?", params.Category)
	}

	// One join pair per tag: a project must be linked to every listed tag.
	for i, tag := range params.Tags {
		joinAlias := fmt.Sprintf("pt%d", i)
		tagAlias := fmt.Sprintf("t%d", i)
		q = q.Joins(fmt.Sprintf(
			"JOIN project_tag %s ON %s.project_id = projects.id", joinAlias, joinAlias)).
			Joins(fmt.Sprintf(
				"JOIN tags %s ON %s.id = %s.tag_id", tagAlias, tagAlias, joinAlias)).
			Where(fmt.Sprintf("%s.name = ?", tagAlias), tag)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return SearchResults{}, errs.NewDatabaseError("count", "projects", err)
	}

	var projects []*models.Project
	err := q.Order("projects.stars DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Preload("Categories").
		Preload("Tags").
		Find(&projects).Error
	if err != nil {
		return SearchResults{}, errs.NewDatabaseError("search", "projects", err)
	}

	items := make([]models.ProjectSummary, 0, len(projects))
	for _, project := range projects {
		items = append(items, project.Summary())
	}

	return SearchResults{
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
		Items: items,
	}, nil
}
