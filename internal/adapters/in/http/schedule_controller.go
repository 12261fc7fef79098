package http

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/json_types"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/in"
	"github.com/suchimauz/clinic-slots-engine/internal/utils"
)

type ScheduleController struct {
	useCase in.ScheduleUseCase
	cfg     *config.Config
}

func NewScheduleController(useCase in.ScheduleUseCase, cfg *config.Config) *ScheduleController {
	return &ScheduleController{
		useCase: useCase,
		cfg:     cfg,
	}
}

func (c *ScheduleController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/doctors/:doctorId/slots", c.getDaySlots)
		api.POST("/doctors/:doctorId/slots/check", c.checkSlotConflicts)
		api.PUT("/doctors/:doctorId/slots/status", c.updateSlotStatus)
		api.POST("/doctors/:doctorId/appointments", c.bookAppointment)
		api.DELETE("/doctors/:doctorId/appointments/:appointmentId", c.cancelAppointment)
		api.POST("/doctors/:doctorId/templates/apply", c.applyTemplate)
		api.GET("/templates/presets", c.getTemplatePresets)
	}
}

// Для времени binding:"required" не подходит: полночь "00:00" - это нулевое
// значение структуры, валидатор отбросил бы легитимный запрос. Отсутствующие
// времена дают start == end и отбиваются проверкой диапазона.
type CheckSlotConflictsRequest struct {
	Date      string               `json:"date" binding:"required"`
	StartTime json_types.Time      `json:"startTime"`
	EndTime   json_types.Time      `json:"endTime"`
	Breaks    []domain.BreakPeriod `json:"breaks"`
}

type BookAppointmentRequest struct {
	Date          string          `json:"date" binding:"required"`
	StartTime     json_types.Time `json:"startTime"`
	EndTime       json_types.Time `json:"endTime"`
	AppointmentID uuid.UUID       `json:"appointmentId" binding:"required"`
}

type ApplyTemplateRequest struct {
	StartDate string `json:"startDate" binding:"required"`
	EndDate   string `json:"endDate"`
}

func (c *ScheduleController) getDaySlots(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	date, err := utils.ParseDate(ctx.Query("date"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	slots, err := c.useCase.GetDaySlots(ctx.Request.Context(), doctorID, date)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"date":     date.Format("2006-01-02"),
		"slots":    slots,
	})
}

func (c *ScheduleController) checkSlotConflicts(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var req CheckSlotConflictsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	result, err := c.useCase.CheckSlotConflicts(ctx.Request.Context(), doctorID, date, req.StartTime, req.EndTime, req.Breaks)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, result)
}

func (c *ScheduleController) bookAppointment(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var req BookAppointmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	date, err := utils.ParseDate(req.Date)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format, expected YYYY-MM-DD"})
		return
	}

	result, err := c.useCase.BookAppointment(ctx.Request.Context(), doctorID, date, req.StartTime, req.EndTime, req.AppointmentID)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result.HasConflict {
		ctx.JSON(http.StatusConflict, result)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"appointmentId": req.AppointmentID,
		"result":        result,
	})
}

func (c *ScheduleController) cancelAppointment(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	appointmentID, err := uuid.Parse(ctx.Param("appointmentId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	if err := c.useCase.CancelAppointment(ctx.Request.Context(), doctorID, appointmentID); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"appointmentId": appointmentID})
}

func (c *ScheduleController) updateSlotStatus(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var update domain.SlotStatusUpdate
	if err := ctx.ShouldBindJSON(&update); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := update.Validate(); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := c.useCase.UpdateSlotStatus(ctx.Request.Context(), doctorID, update); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": update.Status})
}

func (c *ScheduleController) applyTemplate(ctx *gin.Context) {
	doctorID, err := uuid.Parse(ctx.Param("doctorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid doctor ID format"})
		return
	}

	var req ApplyTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	from, err := utils.ParseDate(req.StartDate)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid start date format, expected YYYY-MM-DD"})
		return
	}

	// Пустой endDate означает применение на один день
	to := from
	if req.EndDate != "" {
		to, err = utils.ParseDate(req.EndDate)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end date format, expected YYYY-MM-DD"})
			return
		}
	}

	slots, result, err := c.useCase.ApplyTemplate(ctx.Request.Context(), doctorID, from, to)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if result != nil && result.HasConflict {
		ctx.JSON(http.StatusBadRequest, result)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"doctorId": doctorID,
		"slots":    slots,
		"result":   result,
	})
}

func (c *ScheduleController) getTemplatePresets(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"presets": c.useCase.GetTemplatePresets(ctx.Request.Context()),
	})
}

func (c *ScheduleController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		for _, client := range c.cfg.Auth.BasicClients {
			if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
				subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
				ctx.Next()
				return
			}
		}

		ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
		ctx.AbortWithStatus(http.StatusUnauthorized)
	}
}
