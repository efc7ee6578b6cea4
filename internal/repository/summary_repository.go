package repository

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/todo-tracker/todo-api/internal/models"
	"gorm.io/gorm"
)

// SQLSummaryRepository runs the summary queries through sqlx on the gorm connection pool
type SQLSummaryRepository struct {
	db      *sqlx.DB
	builder squirrel.StatementBuilderType
}

// NewSummaryRepository creates a SummaryRepository sharing db's connection pool
func NewSummaryRepository(db *gorm.DB) (SummaryRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	name := db.Dialector.Name()
	var placeholder squirrel.PlaceholderFormat = squirrel.Question
	switch name {
	case "postgres":
		placeholder = squirrel.Dollar
	case "sqlite":
		name = "sqlite3"
	}

	return &SQLSummaryRepository{
		db:      sqlx.NewDb(sqlDB, name),
		builder: squirrel.StatementBuilder.PlaceholderFormat(placeholder),
	}, nil
}

// ProjectSummaries counts total and completed tasks per project of one owner
func (r *SQLSummaryRepository) ProjectSummaries(ctx context.Context, userID uint64) ([]ProjectSummary, error) {
	query, args, err := r.builder.
		Select(
			"projects.slug AS slug",
			"projects.title AS title",
			"projects.color AS color",
			"COUNT(tasks.id) AS total",
		).
		Column(squirrel.Expr("COALESCE(SUM(CASE WHEN tasks.status = ? THEN 1 ELSE 0 END), 0) AS completed", int(models.TaskStatusCompleted))).
		From("projects").
		LeftJoin("tasks ON tasks.project_id = projects.id").
		Where(squirrel.Eq{"projects.user_id": userID}).
		GroupBy("projects.id", "projects.slug", "projects.title", "projects.color").
		OrderBy("projects.id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build summary query: %w", err)
	}

	summaries := []ProjectSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query project summaries: %w", err)
	}
	return summaries, nil
}
