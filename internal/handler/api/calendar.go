package api

import (
	"net/http"
	"time"

	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

type CalendarHandler struct {
	calendarQueries queries.CalendarQueries
}

func NewCalendarHandler(calendarQueries queries.CalendarQueries) *CalendarHandler {
	return &CalendarHandler{calendarQueries: calendarQueries}
}

func (h *CalendarHandler) GetWeek(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	weekStart := time.Now().UTC()
	if raw := c.Query("week_start"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid week_start format, expected YYYY-MM-DD",
			})
			return
		}
		weekStart = parsed
	}

	view, err := h.calendarQueries.GetWeek(c.Request.Context(), clientID, weekStart)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	c.JSON(http.StatusOK, view)
}
