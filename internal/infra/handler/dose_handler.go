package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-dose-core/internal/app"
)

type DoseHandler struct {
	useCase app.DoseUseCase
}

func NewDoseHandler(useCase app.DoseUseCase) *DoseHandler {
	return &DoseHandler{
		useCase: useCase,
	}
}

func (h *DoseHandler) NextDose(c *gin.Context) {
	var req ScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	output, err := h.useCase.CalculateNextDose(toNextDoseInput(req))
	if err != nil {
		handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromNextDose(output))
}

func (h *DoseHandler) DoseWindow(c *gin.Context) {
	var req DoseWindowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	output, err := h.useCase.IsDoseTime(app.DoseWindowInput{
		DoseTime:      req.DoseTime,
		Timezone:      req.Timezone,
		WindowMinutes: req.WindowMinutes,
	})
	if err != nil {
		handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDoseWindow(output))
}

func (h *DoseHandler) DoseStatus(c *gin.Context) {
	var req DoseStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)

		return
	}

	schedules := make([]app.NextDoseInput, 0, len(req.Schedules))
	for _, s := range req.Schedules {
		schedules = append(schedules, toNextDoseInput(s))
	}

	output, err := h.useCase.GetDoseStatus(app.DoseStatusInput{
		Frequency:     req.Frequency,
		Schedules:     schedules,
		Timezone:      req.Timezone,
		RecentlyTaken: req.RecentlyTaken,
		WindowMinutes: req.WindowMinutes,
	})
	if err != nil {
		handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDoseStatus(output))
}

func toNextDoseInput(req ScheduleRequest) app.NextDoseInput {
	return app.NextDoseInput{
		TimeOfDay:  req.TimeOfDay,
		DaysOfWeek: req.DaysOfWeek,
		Timezone:   req.Timezone,
	}
}

func (h *DoseHandler) RegisterRoutes(router *gin.RouterGroup) {
	doses := router.Group("/doses")
	{
		doses.POST("/next", h.NextDose)
		doses.POST("/window", h.DoseWindow)
		doses.POST("/status", h.DoseStatus)
	}
}
