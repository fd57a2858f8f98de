package repository

import (
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTaskRepo(t *testing.T) (*gorm.DB, TaskRepository) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Task{}))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db, NewTaskRepository(db)
}

func seedTask(t *testing.T, db *gorm.DB, title string, assigneeID, creatorID uint64, status models.TaskStatus) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:      title,
		Status:     status,
		Priority:   models.TaskPriorityMedium,
		AssigneeID: assigneeID,
		CreatorID:  creatorID,
	}
	require.NoError(t, db.Create(task).Error)
	return task
}

func TestTaskRepository_List_VisibilityScope(t *testing.T) {
	db, repo := setupTaskRepo(t)

	seedTask(t, db, "assigned", 1, 2, models.TaskStatusPending)
	seedTask(t, db, "created", 2, 1, models.TaskStatusPending)
	seedTask(t, db, "unrelated", 2, 2, models.TaskStatusPending)

	userID := uint64(1)
	tasks, total, err := repo.List(TaskFilter{VisibleToUserID: &userID, Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Len(t, tasks, 2)
}

func TestTaskRepository_List_CombinedFilters(t *testing.T) {
	db, repo := setupTaskRepo(t)

	seedTask(t, db, "match", 1, 1, models.TaskStatusCompleted)
	seedTask(t, db, "wrong status", 1, 1, models.TaskStatusPending)
	seedTask(t, db, "wrong assignee", 2, 1, models.TaskStatusCompleted)

	userID := uint64(1)
	status := models.TaskStatusCompleted
	tasks, total, err := repo.List(TaskFilter{
		Status:     &status,
		AssigneeID: &userID,
		Page:       1,
		PageSize:   10,
	})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "match", tasks[0].Title)
}

func TestTaskRepository_CountReferencingUser(t *testing.T) {
	db, repo := setupTaskRepo(t)

	seedTask(t, db, "assigned to 1", 1, 2, models.TaskStatusPending)
	seedTask(t, db, "created by 1", 2, 1, models.TaskStatusPending)
	seedTask(t, db, "unrelated", 2, 2, models.TaskStatusPending)

	count, err := repo.CountReferencingUser(1)
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	count, err = repo.CountReferencingUser(3)
	require.NoError(t, err)
	require.Equal(t, int64(0), count)
}

func TestTaskRepository_Delete_IsPermanent(t *testing.T) {
	db, repo := setupTaskRepo(t)
	task := seedTask(t, db, "doomed", 1, 1, models.TaskStatusPending)

	require.NoError(t, repo.Delete(task.ID))

	// Gone even from unscoped queries: no soft-delete.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Task{}).Where("id = ?", task.ID).Count(&count).Error)
	require.Equal(t, int64(0), count)
}

// newMockRepo builds a repository over sqlmock so storage failures can be
// driven deterministically.
func newMockRepo(t *testing.T) (sqlmock.Sqlmock, TaskRepository) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	db, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      sqlDB,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	return mock, NewTaskRepository(db)
}

func TestTaskRepository_FindByID_StoreFailure(t *testing.T) {
	mock, repo := newMockRepo(t)

	storeErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT \\* FROM `tasks`").WillReturnError(storeErr)

	_, err := repo.FindByID(1)
	require.ErrorIs(t, err, storeErr)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_List_StoreFailure(t *testing.T) {
	mock, repo := newMockRepo(t)

	storeErr := errors.New("connection reset")
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `tasks`").WillReturnError(storeErr)

	_, _, err := repo.List(TaskFilter{Page: 1, PageSize: 10})
	require.ErrorIs(t, err, storeErr)
	require.NoError(t, mock.ExpectationsWereMet())
}
