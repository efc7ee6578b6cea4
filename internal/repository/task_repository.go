package repository

import (
	"github.com/todo-tracker/todo-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Transaction runs fn inside a database transaction
func (r *GormTaskRepository) Transaction(fn func(repo TaskRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormTaskRepository{db: tx})
	})
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Omit(clause.Associations).Create(task).Error
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Omit(clause.Associations).Save(task).Error
}

// Delete deletes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Delete(&models.Task{}, id).Error
}

// FindBySlug finds a task by slug
func (r *GormTaskRepository) FindBySlug(slug string) (*models.Task, error) {
	var task models.Task
	if err := r.db.Preload("Project.User").Where("slug = ?", slug).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// SlugExists checks every other task for the slug
func (r *GormTaskRepository) SlugExists(slug string, excludeID uint64) (bool, error) {
	query := r.db.Model(&models.Task{}).Where("slug = ?", slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// List retrieves the tasks of one owner's projects with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	// Joins are rendered into the shared statement on execution, so the count
	// and the page each get a fresh query.
	scoped := func() *gorm.DB {
		query := r.db.Model(&models.Task{}).
			Joins("JOIN projects ON projects.id = tasks.project_id").
			Where("projects.user_id = ?", filter.OwnerID)

		// Apply filters
		if filter.ProjectSlug != "" {
			query = query.Where("projects.slug = ?", filter.ProjectSlug)
		}
		if filter.Status != nil {
			query = query.Where("tasks.status = ?", *filter.Status)
		}
		if filter.Priority != nil {
			query = query.Where("tasks.priority = ?", *filter.Priority)
		}
		return query
	}

	var total int64
	if err := scoped().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := scoped().Order("tasks.id")
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		listQuery = listQuery.Offset(offset).Limit(filter.PageSize)
	}

	if err := listQuery.Preload("Project").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, total, nil
}

// CountByProject counts the tasks of a project
func (r *GormTaskRepository) CountByProject(projectID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).Where("project_id = ?", projectID).Count(&count).Error
	return count, err
}
