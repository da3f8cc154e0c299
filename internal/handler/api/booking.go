package api

import (
	"errors"
	"net/http"

	reqdto "studio-booking/internal/handler/dto/request"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/handler/middleware"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BookingHandler struct {
	bookingCommands    commands.BookingCommands
	reservationQueries queries.ReservationQueries
}

func NewBookingHandler(bookingCommands commands.BookingCommands, reservationQueries queries.ReservationQueries) *BookingHandler {
	return &BookingHandler{
		bookingCommands:    bookingCommands,
		reservationQueries: reservationQueries,
	}
}

func (h *BookingHandler) CreateBooking(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	var req reqdto.CreateBookingRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.bookingCommands.Book(c.Request.Context(), clientID, req.SlotID)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		case errors.Is(err, commands.ErrAlreadyBooked):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Already booked this slot",
			})
		case errors.Is(err, commands.ErrSlotFull):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Slot is full",
			})
		case errors.Is(err, commands.ErrSlotInPast):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Slot has already started",
			})
		case errors.Is(err, commands.ErrNoValidPackage):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No valid package",
			})
		case errors.Is(err, commands.ErrNoCreditsRemaining):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "No credits remaining",
			})
		case errors.Is(err, commands.ErrPackageExpired):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Package expired",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromBookingResult(result))
}

func (h *BookingHandler) CancelBooking(c *gin.Context) {
	idStr := c.Param("id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid reservation ID format",
		})
		return
	}

	var req reqdto.CancelBookingRequest
	if c.Request.ContentLength > 0 {
		if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Invalid request format",
			})
			return
		}
	}

	result, err := h.bookingCommands.Cancel(c.Request.Context(), id, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrReservationNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Reservation not found",
			})
		case errors.Is(err, commands.ErrNotCancellable):
			c.JSON(http.StatusConflict, gin.H{
				"error": "Reservation is not cancellable",
			})
		case errors.Is(err, commands.ErrSlotNotFound):
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Slot not found",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusOK, resdto.FromCancelResult(result))
}

func (h *BookingHandler) GetClientBookings(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.reservationQueries.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	if views == nil {
		views = []*queries.ReservationView{}
	}

	c.JSON(http.StatusOK, views)
}
