package repositories

import (
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
)

// ReportRepository defines the interface for report operations
type ReportRepository interface {
	CreateReport(report *models.Report) error
	GetByReporterID(reporterID uint, page, limit int) ([]models.Report, int64, error)
}

type postgresReportRepository struct {
	db *gorm.DB
}

func NewPostgresReportRepository(db *gorm.DB) ReportRepository {
	return &postgresReportRepository{db: db}
}

func (r *postgresReportRepository) CreateReport(report *models.Report) error {
	return r.db.Create(report).Error
}

func (r *postgresReportRepository) GetByReporterID(reporterID uint, page, limit int) ([]models.Report, int64, error) {
	var total int64
	if err := r.db.Model(&models.Report{}).Where("reporter_id = ?", reporterID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var reports []models.Report
	offset := (page - 1) * limit
	err := r.db.Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, total, err
}
