package database

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/rpupo63/mcp-search-server/errs"
	"github.com/rpupo63/mcp-search-server/models"
)

const defaultSQLitePath = "data/mcp_search.db"

type Database struct {
	projectRepo  *ProjectRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:  NewProjectRepo(db),
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
	}
}

// Open connects to the catalog store and runs auto-migration. The driver is
// chosen from the DSN: anything starting with "postgres" uses the postgres
// driver, everything else is treated as a sqlite file path. An empty DSN
// falls back to the default sqlite database under data/.
func Open(dsn string) (*gorm.DB, error) {
	newLogger := logger.New(
		log.New(os.Stderr, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             10 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		},
	)
	gormConfig := &gorm.Config{Logger: newLogger}

	var dialector gorm.Dialector
	switch {
	case strings.HasPrefix(dsn, "postgres"):
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			path = defaultSQLitePath
		}
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := db.AutoMigrate(&models.Project{}, &models.Category{}, &models.Tag{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return db, nil
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

// CreateOrUpdateProject upserts a project keyed by its repository URL.
// A previously unseen URL inserts a new row and links its deduplicated
// categories and tags; a known URL gets a shallow field patch and a fresh
// last-crawled timestamp, leaving associations untouched. The boolean
// reports whether a new row was created.
func (d Database) CreateOrUpdateProject(input ProjectInput) (*models.Project, bool, error) {
	existing, err := d.projectRepo.FindByRepoURL(input.RepoURL)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, errs.NewDatabaseError("find", "project", err)
	}

	now := time.Now().UTC()

	if existing == nil {
		project, createErr := d.createProject(input, now)
		if createErr == nil {
			return project, true, nil
		}
		if !errs.IsUniqueConstraintViolationError(createErr) {
			return nil, false, createErr
		}
		// Lost a create race on repo_url; recover onto the update path.
		existing, err = d.projectRepo.FindByRepoURL(input.RepoURL)
		if err != nil {
			return nil, false, errs.NewDatabaseError("find", "project", err)
		}
	}

	patch := input.patch(now)
	if err := d.projectRepo.ApplyUpdate(existing, patch); err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

func (d Database) createProject(input ProjectInput, crawledAt time.Time) (*models.Project, error) {
	categories, err := d.resolveCategories(input.Categories)
	if err != nil {
		return nil, err
	}
	tags, err := d.resolveTags(input.Tags)
	if err != nil {
		return nil, err
	}

	project := &models.Project{
		Name:          input.Name,
		Description:   input.Description,
		RepoURL:       input.RepoURL,
		ReadmeContent: input.ReadmeContent,
		Stars:         input.Stars,
		Forks:         input.Forks,
		Language:      input.Language,
		RelatedLinks:  marshalLinks(input.RelatedLinks),
		LastCrawledAt: &crawledAt,
		Categories:    categories,
		Tags:          tags,
	}

	if err := d.projectRepo.Add(project); err != nil {
		return nil, err
	}
	return project, nil
}

// resolveCategories deduplicates names and resolves each to its shared row,
// creating missing ones. The extractor is allowed to repeat names; the store
// owns dedup.
func (d Database) resolveCategories(names []string) ([]models.Category, error) {
	seen := make(map[string]struct{}, len(names))
	categories := make([]models.Category, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		category, err := d.categoryRepo.FindOrCreate(name)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *category)
	}
	return categories, nil
}

func (d Database) resolveTags(names []string) ([]models.Tag, error) {
	seen := make(map[string]struct{}, len(names))
	tags := make([]models.Tag, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		tag, err := d.tagRepo.FindOrCreate(name)
		if err != nil {
			return nil, err
		}
		tags = append(tags, *tag)
	}
	return tags, nil
}

// SearchProjects delegates to the project repository.
func (d Database) SearchProjects(params SearchParams) (SearchResults, error) {
	return d.projectRepo.Search(params)
}
