package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/snipvid/backend/internal/models"
	"github.com/snipvid/backend/internal/repositories"
)

// ReportHandler handles report-related HTTP requests
type ReportHandler struct {
	reportRepository repositories.ReportRepository
	postRepository   repositories.PostRepository
	userRepository   repositories.UserRepository
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportRepo repositories.ReportRepository, postRepo repositories.PostRepository, userRepo repositories.UserRepository) *ReportHandler {
	return &ReportHandler{
		reportRepository: reportRepo,
		postRepository:   postRepo,
		userRepository:   userRepo,
	}
}

// RegisterReportRoutes registers report-related routes
func (h *ReportHandler) RegisterReportRoutes(g *echo.Group) {
	g.POST("/reports", h.CreateReport)
	g.GET("/reports", h.GetMyReports)
}

// CreateReport files a report against a post or user
func (h *ReportHandler) CreateReport(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}

	var req models.CreateReportRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	// The report target must exist
	switch req.TargetType {
	case "post":
		if _, err := h.postRepository.GetPostByID(c.Request().Context(), req.TargetID); err != nil {
			if errors.Is(err, repositories.ErrPostNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Reported post not found")
			}
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
	case "user":
		targetID, err := strconv.ParseUint(req.TargetID, 10, 32)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "Invalid user ID")
		}
		if _, err := h.userRepository.GetUserByID(uint(targetID)); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusNotFound, "Reported user not found")
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
	}

	report := &models.Report{
		ReporterID: currentUserID,
		TargetType: req.TargetType,
		TargetID:   req.TargetID,
		Reason:     req.Reason,
		Status:     "open",
	}
	if err := h.reportRepository.CreateReport(report); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": report})
}

// GetMyReports lists reports filed by the current user
func (h *ReportHandler) GetMyReports(c echo.Context) error {
	currentUserID := getUserIDFromContext(c)
	if currentUserID == 0 {
		return echo.NewHTTPError(http.StatusUnauthorized, "User not authenticated")
	}
	page, limit := getPagination(c)

	reports, total, err := h.reportRepository.GetByReporterID(currentUserID, page, limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"data":    echo.Map{"reports": reports},
		"meta":    paginationMeta(page, limit, total),
	})
}
