package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/todo-tracker/todo-api/internal/models"
	"github.com/todo-tracker/todo-api/internal/testutil"
	"github.com/todo-tracker/todo-api/internal/utils"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func createProject(t *testing.T, repo ProjectRepository, owner *models.User, title, color string) *models.Project {
	t.Helper()
	project := &models.Project{
		Title:  title,
		Slug:   utils.MakeSlug(title, owner.Username),
		Color:  color,
		UserID: owner.ID,
	}
	require.NoError(t, repo.Create(project))
	return project
}

func createTask(t *testing.T, repo TaskRepository, project *models.Project, slug string, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:     slug,
		Slug:      slug,
		Priority:  models.PriorityHigh,
		Status:    status,
		ProjectID: project.ID,
	}
	require.NoError(t, repo.Create(task))
	return task
}

func TestProjectRepository_LookupsAndUniqueness(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	golang := createProject(t, repo, alice, "Golang", "primary")

	found, err := repo.FindBySlug("golang-alice")
	require.NoError(t, err)
	assert.Equal(t, golang.ID, found.ID)
	assert.Equal(t, "alice", found.User.Username)

	_, err = repo.FindBySlug("missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	taken, err := repo.TitleTaken(alice.ID, "Golang", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.TitleTaken(alice.ID, "Golang", golang.ID)
	require.NoError(t, err)
	assert.False(t, taken, "the project itself is excluded")

	taken, err = repo.TitleTaken(bob.ID, "Golang", 0)
	require.NoError(t, err)
	assert.False(t, taken)

	taken, err = repo.ColorTaken(alice.ID, "primary", 0)
	require.NoError(t, err)
	assert.True(t, taken)

	exists, err := repo.SlugExists("golang-alice", 0)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestProjectRepository_ListByUser(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	for _, title := range []string{"one", "two", "three"} {
		createProject(t, repo, alice, title, title)
	}
	createProject(t, repo, bob, "four", "four")

	projects, total, err := repo.ListByUser(alice.ID, utils.NewPaginationParams(1, 2))
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, projects, 2)
	assert.Equal(t, "one", projects[0].Title)
	assert.Equal(t, "two", projects[1].Title)

	projects, _, err = repo.ListByUser(alice.ID, utils.NewPaginationParams(2, 2))
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "three", projects[0].Title)

	_, total, err = repo.ListByUser(bob.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestProjectRepository_DeleteCascadesTasks(t *testing.T) {
	db := testutil.NewDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	doomed := createProject(t, projects, alice, "Doomed", "red")
	kept := createProject(t, projects, alice, "Kept", "blue")
	createTask(t, tasks, doomed, "a", models.TaskStatusUncompleted)
	createTask(t, tasks, doomed, "b", models.TaskStatusCompleted)
	createTask(t, tasks, kept, "c", models.TaskStatusUncompleted)

	require.NoError(t, projects.Delete(doomed.ID))

	_, err := projects.FindBySlug(doomed.Slug)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	count, err := tasks.CountByProject(doomed.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	count, err = tasks.CountByProject(kept.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestProjectRepository_TransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	boom := errors.New("boom")
	err := repo.Transaction(func(tx ProjectRepository) error {
		createProject(t, tx, alice, "Temp", "red")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, total, err := repo.ListByUser(alice.ID, utils.NewPaginationParams(1, 10))
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestProjectRepository_LockOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewProjectRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	err := repo.Transaction(func(tx ProjectRepository) error {
		return tx.LockOwner(alice.ID)
	})
	require.NoError(t, err)

	assert.ErrorIs(t, repo.LockOwner(999), gorm.ErrRecordNotFound)
}

func TestTaskRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	work := createProject(t, projects, alice, "Work", "red")
	home := createProject(t, projects, alice, "Home", "blue")
	other := createProject(t, projects, bob, "Other", "red")
	createTask(t, tasks, work, "w1", models.TaskStatusUncompleted)
	createTask(t, tasks, work, "w2", models.TaskStatusCompleted)
	createTask(t, tasks, home, "h1", models.TaskStatusUncompleted)
	createTask(t, tasks, other, "o1", models.TaskStatusUncompleted)

	list, total, err := tasks.List(TaskFilter{OwnerID: alice.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 3)
	assert.Equal(t, "work-alice", list[0].Project.Slug)

	list, total, err = tasks.List(TaskFilter{OwnerID: alice.ID, ProjectSlug: work.Slug})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	completed := models.TaskStatusCompleted
	list, total, err = tasks.List(TaskFilter{OwnerID: alice.ID, Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "w2", list[0].Slug)

	low := models.PriorityLow
	list, total, err = tasks.List(TaskFilter{OwnerID: alice.ID, Priority: &low})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, list)
	assert.Empty(t, list)

	list, total, err = tasks.List(TaskFilter{OwnerID: alice.ID, Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, list, 1)
	assert.Equal(t, "h1", list[0].Slug)
}

func TestTaskRepository_FindUpdateDelete(t *testing.T) {
	db := testutil.NewDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	work := createProject(t, projects, alice, "Work", "red")
	task := createTask(t, tasks, work, "write-alice", models.TaskStatusUncompleted)

	found, err := tasks.FindBySlug("write-alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", found.Project.User.Username)

	found.Status = models.TaskStatusCompleted
	found.Priority = models.PriorityMiddle
	require.NoError(t, tasks.Update(found))

	reloaded, err := tasks.FindBySlug("write-alice")
	require.NoError(t, err)
	assert.Equal(t, models.TaskStatusCompleted, reloaded.Status)
	assert.Equal(t, models.PriorityMiddle, reloaded.Priority)

	exists, err := tasks.SlugExists("write-alice", task.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, tasks.Delete(task.ID))
	_, err = tasks.FindBySlug("write-alice")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUserRepository_Find(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewUserRepository(db)
	alice := testutil.CreateUser(t, db, "alice")

	byName, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byName.ID)

	byEmail, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, byEmail.ID)

	_, err = repo.FindByID(999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestSummaryRepository_ProjectSummaries(t *testing.T) {
	db := testutil.NewDB(t)
	projects := NewProjectRepository(db)
	tasks := NewTaskRepository(db)
	alice := testutil.CreateUser(t, db, "alice")
	bob := testutil.CreateUser(t, db, "bob")

	work := createProject(t, projects, alice, "Work", "red")
	createProject(t, projects, alice, "Empty", "blue")
	other := createProject(t, projects, bob, "Other", "red")
	createTask(t, tasks, work, "w1", models.TaskStatusCompleted)
	createTask(t, tasks, work, "w2", models.TaskStatusUncompleted)
	createTask(t, tasks, work, "w3", models.TaskStatusCompleted)
	createTask(t, tasks, other, "o1", models.TaskStatusCompleted)

	repo, err := NewSummaryRepository(db)
	require.NoError(t, err)

	summaries, err := repo.ProjectSummaries(context.Background(), alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []ProjectSummary{
		{Slug: "work-alice", Title: "Work", Color: "red", Total: 3, Completed: 2},
		{Slug: "empty-alice", Title: "Empty", Color: "blue", Total: 0, Completed: 0},
	}, summaries)
}

func newMockPostgres(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestProjectRepository_DeleteSQL(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE project_id = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "projects" WHERE "projects"."id" = \$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_DeleteRollsBackOnError(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "tasks" WHERE project_id = \$1`).
		WithArgs(int64(7)).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, repo.Delete(7))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_LockOwnerSQL(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo := NewProjectRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT "id" FROM "users" WHERE "users"."id" = \$1 .*LIMIT \$2 FOR UPDATE$`).
		WithArgs(int64(5), 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" WHERE projects.user_id = \$1 AND title = \$2`).
		WithArgs(int64(5), "Work").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectCommit()

	err := repo.Transaction(func(tx ProjectRepository) error {
		if err := tx.LockOwner(5); err != nil {
			return err
		}
		_, err := tx.TitleTaken(5, "Work", 0)
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryRepository_PostgresPlaceholders(t *testing.T) {
	db, mock := newMockPostgres(t)
	repo, err := NewSummaryRepository(db)
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT projects.slug AS slug, .* FROM projects LEFT JOIN tasks ON tasks.project_id = projects.id WHERE projects.user_id = \$2 GROUP BY`).
		WithArgs(1, int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"slug", "title", "color", "total", "completed"}).
			AddRow("work-alice", "Work", "red", 4, 1))

	summaries, err := repo.ProjectSummaries(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, int64(4), summaries[0].Total)
	assert.Equal(t, int64(1), summaries[0].Completed)
	require.NoError(t, mock.ExpectationsWereMet())
}
