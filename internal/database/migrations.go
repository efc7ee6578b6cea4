package database

import (
	"fmt"
	"log"
	"strings"

	"github.com/todo-tracker/todo-api/internal/models"
	"gorm.io/gorm"
)

type index struct {
	model   interface{}
	table   string
	name    string
	columns []string
}

// Composite indexes backing the per-owner lookups. Uniqueness of title and
// color per owner is enforced by the project service, not here.
var indexes = []index{
	{&models.Project{}, "projects", "idx_projects_user_title", []string{"user_id", "title"}},
	{&models.Project{}, "projects", "idx_projects_user_color", []string{"user_id", "color"}},
	{&models.Task{}, "tasks", "idx_tasks_project_status", []string{"project_id", "status"}},
}

// EnsureIndexes adds the secondary indexes that AutoMigrate cannot express
// through struct tags. Existing indexes are skipped.
func EnsureIndexes(db *gorm.DB) error {
	migrator := db.Migrator()
	for _, idx := range indexes {
		if migrator.HasIndex(idx.model, idx.name) {
			continue
		}

		sql := fmt.Sprintf("CREATE INDEX %s ON %s (%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("failed to create index %s: %w", idx.name, err)
		}

		log.Printf("Created index %s on %s(%s)", idx.name, idx.table, strings.Join(idx.columns, ", "))
	}

	return nil
}
