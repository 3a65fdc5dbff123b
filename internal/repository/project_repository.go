package repository

import (
	"context"
	"errors"

	"github.com/ywpark/brickpay-api/internal/models"

	"gorm.io/gorm"
)

// ProjectRepository defines data access for projects and their pricing
// fallbacks. Lookup methods return (value, found, error): a missing row is
// not an error, it just means the next fallback applies.
type ProjectRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Project, error)
	List(ctx context.Context) ([]models.Project, error)
	FindUnitType(ctx context.Context, id uint) (*models.UnitType, error)
	FindBudget(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error)
}

type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) FindByID(ctx context.Context, id uint) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).First(&project, id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *projectRepository) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).Order("id ASC").Find(&projects).Error
	return projects, err
}

func (r *projectRepository) FindUnitType(ctx context.Context, id uint) (*models.UnitType, error) {
	var unitType models.UnitType
	err := r.db.WithContext(ctx).First(&unitType, id).Error
	if err != nil {
		return nil, err
	}
	return &unitType, nil
}

func (r *projectRepository) FindBudget(ctx context.Context, projectID, orderGroupID, unitTypeID uint) (*models.ProjectBudget, bool, error) {
	var budget models.ProjectBudget
	err := r.db.WithContext(ctx).
		Where("project_id = ? AND order_group_id = ? AND unit_type_id = ?", projectID, orderGroupID, unitTypeID).
		First(&budget).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &budget, true, nil
}
