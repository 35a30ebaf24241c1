package admin

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"saas-api/database"
	"saas-api/internal/app/http/middleware"
	"saas-api/internal/domain/access"
	"saas-api/internal/domain/billing"
	"saas-api/internal/domain/feedback"
	"saas-api/internal/domain/plans"
	"saas-api/internal/domain/users"
	"saas-api/logger"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const defaultPageSize = 10

type AdminUser struct {
	ID                 uint                      `json:"id"`
	Name               string                    `json:"name"`
	Lastname           string                    `json:"lastname"`
	Email              string                    `json:"email"`
	IsAdmin            bool                      `json:"is_admin"`
	IsVerified         bool                      `json:"is_verified"`
	StripeCustomerID   *string                   `json:"stripe_customer_id,omitempty"`
	SubscriptionPlan   *plans.PaymentPlanID      `json:"subscription_plan,omitempty"`
	SubscriptionStatus *plans.SubscriptionStatus `json:"subscription_status,omitempty"`
	DatePaid           *time.Time                `json:"date_paid,omitempty"`
	Credits            decimal.Decimal           `json:"credits"`
	CreatedAt          time.Time                 `json:"created_at"`
}

type FeedbackPage struct {
	Feedback   []feedback.Feedback `json:"feedback"`
	TotalCount int64               `json:"totalCount"`
	TotalPages int64               `json:"totalPages"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
}

type AdminStats struct {
	TotalUsers    int64   `json:"total_users"`
	PayingUsers   int64   `json:"paying_users"`
	TotalRevenue  float64 `json:"total_revenue"`
	RecentRevenue float64 `json:"recent_revenue"`
	TotalFeedback int64   `json:"total_feedback"`
}

// ListFeedback serves GET /admin/feedback?page=&pageSize=.
func ListFeedback(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be an integer"})
		return
	}
	pageSize, err := intQuery(c, "pageSize", defaultPageSize)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be an integer"})
		return
	}

	result, err := feedback.ListForAdmin(c.Request.Context(), database.DB, middleware.PrincipalFrom(c), page, pageSize)
	switch {
	case errors.Is(err, access.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, feedback.ErrInvalidPagination):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load feedback"})
		return
	}

	c.JSON(http.StatusOK, FeedbackPage{
		Feedback:   result.Feedback,
		TotalCount: result.TotalCount,
		TotalPages: result.TotalPages(),
		Page:       result.Page,
		PageSize:   result.PageSize,
	})
}

func ListAllUsers(c *gin.Context) {
	var list []users.User
	if err := database.DB.WithContext(c.Request.Context()).Order("created_at DESC").Find(&list).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load users"})
		return
	}

	adminUsers := make([]AdminUser, 0, len(list))
	for _, u := range list {
		adminUsers = append(adminUsers, AdminUser{
			ID:                 u.ID,
			Name:               u.Name,
			Lastname:           u.Lastname,
			Email:              u.Email,
			IsAdmin:            u.IsAdmin,
			IsVerified:         u.IsVerified,
			StripeCustomerID:   u.PaymentProcessorUserID,
			SubscriptionPlan:   u.SubscriptionPlan,
			SubscriptionStatus: u.SubscriptionStatus,
			DatePaid:           u.DatePaid,
			Credits:            u.Credits,
			CreatedAt:          u.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, adminUsers)
}

func GetAdminStats(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	var stats AdminStats
	thirtyDaysAgo := time.Now().AddDate(0, 0, -30)

	queries := []func() error{
		func() error { return db.Model(&users.User{}).Count(&stats.TotalUsers).Error },
		func() error {
			return db.Model(&users.User{}).Where("date_paid IS NOT NULL").Count(&stats.PayingUsers).Error
		},
		func() error { return db.Model(&feedback.Feedback{}).Count(&stats.TotalFeedback).Error },
		func() error {
			return db.Model(&billing.Payment{}).
				Where("status = ?", billing.PaymentStatusPaid).
				Select("COALESCE(SUM(amount_eur), 0)").
				Scan(&stats.TotalRevenue).Error
		},
		func() error {
			return db.Model(&billing.Payment{}).
				Where("status = ? AND created_at >= ?", billing.PaymentStatusPaid, thirtyDaysAgo).
				Select("COALESCE(SUM(amount_eur), 0)").
				Scan(&stats.RecentRevenue).Error
		},
	}
	for _, q := range queries {
		if err := q(); err != nil {
			logger.Get().Error("admin stats query failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
			return
		}
	}

	c.JSON(http.StatusOK, stats)
}

func GetUserDetails(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return
	}

	var user users.User
	if err := database.DB.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var payments []billing.Payment
	if err := database.DB.Where("user_id = ?", userID).Order("created_at DESC").Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":     user,
		"payments": payments,
	})
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(raw)
}
