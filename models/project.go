package models

import (
	"time"

	"gorm.io/datatypes"
)

// Project represents a single indexed software repository.
// The canonical repository URL is the natural identity of a project:
// re-ingesting the same URL updates the existing row.
type Project struct {
	ID            uint           `json:"id" db:"id" gorm:"primaryKey"`
	Name          string         `json:"name" db:"name" gorm:"size:100;not null"`
	Description   string         `json:"description" db:"description" gorm:"size:1000"`
	RepoURL       string         `json:"repo_url" db:"repo_url" gorm:"size:200;uniqueIndex;not null"`
	ReadmeContent string         `json:"readme_content,omitempty" db:"readme_content" gorm:"size:10000"`
	Stars         int            `json:"stars" db:"stars" gorm:"default:0"`
	Forks         int            `json:"forks" db:"forks" gorm:"default:0"`
	Language      string         `json:"language" db:"language" gorm:"size:50"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	LastCrawledAt *time.Time     `json:"last_crawled_at,omitempty" db:"last_crawled_at"`
	RelatedLinks  datatypes.JSON `json:"related_links,omitempty" db:"related_links"`

	// SearchScore is reserved for future ranking; ordering is by stars today.
	SearchScore float64 `json:"search_score" db:"search_score" gorm:"default:0"`

	Categories []Category `json:"categories,omitempty" gorm:"many2many:project_category"`
	Tags       []Tag      `json:"tags,omitempty" gorm:"many2many:project_tag"`
}

func (Project) TableName() string {
	return "projects"
}

// ProjectSummary is the public item shape returned by search and
// recommendation reads. It carries association names rather than rows and
// omits the raw readme body.
type ProjectSummary struct {
	ID          uint     `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	RepoURL     string   `json:"repo_url"`
	Stars       int      `json:"stars"`
	Forks       int      `json:"forks"`
	Language    string   `json:"language"`
	Categories  []string `json:"categories"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// Summary converts a project row into its public shape. Association slices
// are always non-nil so they serialize as empty JSON arrays.
func (p *Project) Summary() ProjectSummary {
	categories := make([]string, 0, len(p.Categories))
	for _, c := range p.Categories {
		categories = append(categories, c.Name)
	}
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, t.Name)
	}

	return ProjectSummary{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		RepoURL:     p.RepoURL,
		Stars:       p.Stars,
		Forks:       p.Forks,
		Language:    p.Language,
		Categories:  categories,
		Tags:        tags,
		CreatedAt:   p.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
