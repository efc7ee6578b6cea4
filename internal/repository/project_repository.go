package repository

import (
	"github.com/todo-tracker/todo-api/internal/database"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// Transaction runs fn inside a database transaction
func (r *GormProjectRepository) Transaction(fn func(repo ProjectRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormProjectRepository{db: tx})
	})
}

// Create creates a new project
func (r *GormProjectRepository) Create(project *models.Project) error {
	return r.db.Omit(clause.Associations).Create(project).Error
}

// Update updates a project
func (r *GormProjectRepository) Update(project *models.Project) error {
	return r.db.Omit(clause.Associations).Save(project).Error
}

// Delete deletes a project and all its tasks in a transaction
func (r *GormProjectRepository) Delete(id uint64) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Project{}, id).Error
	})
}

// FindBySlug finds a project by slug
func (r *GormProjectRepository) FindBySlug(slug string) (*models.Project, error) {
	var project models.Project
	if err := r.db.Preload("User").Where("slug = ?", slug).First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// LockOwner takes SELECT ... FOR UPDATE on the owner's user row.
// SQLite has no row locks and serializes writers instead.
func (r *GormProjectRepository) LockOwner(userID uint64) error {
	var owner models.User
	return r.db.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate}).
		Select("id").
		First(&owner, userID).Error
}

// TitleTaken checks the owner's other projects for the title
func (r *GormProjectRepository) TitleTaken(userID uint64, title string, excludeID uint64) (bool, error) {
	return r.exists(r.db.Scopes(database.OwnedBy(userID)).Where("title = ?", title), excludeID)
}

// ColorTaken checks the owner's other projects for the color
func (r *GormProjectRepository) ColorTaken(userID uint64, color string, excludeID uint64) (bool, error) {
	return r.exists(r.db.Scopes(database.OwnedBy(userID)).Where("color = ?", color), excludeID)
}

// SlugExists checks every other project for the slug
func (r *GormProjectRepository) SlugExists(slug string, excludeID uint64) (bool, error) {
	return r.exists(r.db.Where("slug = ?", slug), excludeID)
}

func (r *GormProjectRepository) exists(query *gorm.DB, excludeID uint64) (bool, error) {
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Model(&models.Project{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListByUser lists an owner's projects
func (r *GormProjectRepository) ListByUser(userID uint64, params utils.PaginationParams) ([]models.Project, int64, error) {
	query := r.db.Model(&models.Project{}).Scopes(database.OwnedBy(userID))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	projects := []models.Project{}
	if err := query.Scopes(database.Paginate(params)).Preload("User").Order("projects.id").Find(&projects).Error; err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}
