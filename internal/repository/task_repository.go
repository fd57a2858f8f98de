package repository

import (
	"github.com/yamadayuki/task-tracker-api/internal/database"
	"github.com/yamadayuki/task-tracker-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByID finds a task by ID with optional preloading
func (r *GormTaskRepository) FindByID(id uint64, preload ...string) (*models.Task, error) {
	var task models.Task
	query := r.db

	for _, p := range preload {
		query = query.Preload(p)
	}

	if err := query.First(&task, id).Error; err != nil {
		return nil, err
	}

	return &task, nil
}

// List retrieves tasks with filtering and pagination, sorted by creation
// time descending
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{})

	if filter.VisibleToUserID != nil {
		query = query.Where("tasks.assignee_id = ? OR tasks.creator_id = ?",
			*filter.VisibleToUserID, *filter.VisibleToUserID)
	}
	if filter.Status != nil {
		query = query.Where("tasks.status = ?", *filter.Status)
	}
	if filter.Priority != nil {
		query = query.Where("tasks.priority = ?", *filter.Priority)
	}
	if filter.AssigneeID != nil {
		query = query.Where("tasks.assignee_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order("tasks.created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(filter.Page, filter.PageSize))
	}

	if err := listQuery.Preload("Assignee").Preload("Creator").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete permanently removes a task
func (r *GormTaskRepository) Delete(id uint64) error {
	return r.db.Unscoped().Delete(&models.Task{}, id).Error
}

// CountReferencingUser counts tasks where the user is assignee or creator
func (r *GormTaskRepository) CountReferencingUser(userID uint64) (int64, error) {
	var count int64
	err := r.db.Model(&models.Task{}).
		Where("assignee_id = ? OR creator_id = ?", userID, userID).
		Count(&count).Error
	return count, err
}
