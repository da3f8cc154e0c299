//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"studio-booking/internal/domain/booking"
	"studio-booking/internal/handler/api"
	resdto "studio-booking/internal/handler/dto/response"
	"studio-booking/internal/usecase/commands"
	"studio-booking/internal/usecase/queries"
	"studio-booking/tests/common/httptest"
	commandsmock "studio-booking/tests/mock/commands"
	queriesmock "studio-booking/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type BookingHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockBookingCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.BookingHandler
	clientID     uuid.UUID
}

func (s *BookingHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockBookingCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewBookingHandler(s.mockCommands, s.mockQueries)
	s.clientID = uuid.New()

	// Mock authentication middleware for testing
	authMiddleware := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("client_id", s.clientID)
		c.Set("client_role", "member")
		c.Next()
	}

	s.router.POST("/bookings", authMiddleware, s.handler.CreateBooking)
	s.router.GET("/bookings", authMiddleware, s.handler.GetClientBookings)
	s.router.POST("/bookings/:id/cancel", authMiddleware, s.handler.CancelBooking)
}

func (s *BookingHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestBookingHandlerSuite(t *testing.T) {
	suite.Run(t, new(BookingHandlerTestSuite))
}

func (s *BookingHandlerTestSuite) confirmedResult(slotID uuid.UUID) *commands.BookingResult {
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	res := booking.NewReservation(s.clientID, slotID, uuid.New(), now)
	s.Require().NoError(res.Confirm())
	return &commands.BookingResult{Reservation: res, CreditsRemaining: 4}
}

// ================================================================================
// TestCreateBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCreateBooking() {
	url := "/bookings"
	slotID := uuid.New()
	reqBody := map[string]any{"slot_id": slotID.String()}

	s.Run("success: returns 201 Created", func() {
		result := s.confirmedResult(slotID)
		s.mockCommands.EXPECT().Book(gomock.Any(), s.clientID, slotID).
			Return(result, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
		s.Equal(http.StatusCreated, rec.Code)

		var body resdto.BookingResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal(result.Reservation.ID(), body.ID)
		s.Equal("confirmed", body.Status)
		s.Equal(4, body.CreditsRemaining)
	})

	s.Run("requires authentication", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("rejects malformed body", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"slot_id": "not-a-uuid"}, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error mapping", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "slot not found", err: commands.ErrSlotNotFound, expectCode: http.StatusNotFound},
			{name: "already booked", err: commands.ErrAlreadyBooked, expectCode: http.StatusConflict},
			{name: "slot full", err: commands.ErrSlotFull, expectCode: http.StatusConflict},
			{name: "slot in past", err: commands.ErrSlotInPast, expectCode: http.StatusUnprocessableEntity},
			{name: "no valid package", err: commands.ErrNoValidPackage, expectCode: http.StatusUnprocessableEntity},
			{name: "no credits", err: commands.ErrNoCreditsRemaining, expectCode: http.StatusUnprocessableEntity},
			{name: "package expired", err: commands.ErrPackageExpired, expectCode: http.StatusUnprocessableEntity},
			{name: "storage failure", err: commands.ErrStorageFailure, expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Book(gomock.Any(), s.clientID, slotID).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "bearer-token")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

// ================================================================================
// TestCancelBooking
// ================================================================================

func (s *BookingHandlerTestSuite) TestCancelBooking() {
	reservationID := uuid.New()
	url := "/bookings/" + reservationID.String() + "/cancel"

	cancelledResult := func(replayed bool) *commands.CancelResult {
		now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		res := booking.NewReservation(s.clientID, uuid.New(), uuid.New(), now)
		s.Require().NoError(res.Confirm())
		s.Require().NoError(res.Cancel(now, nil, true, nil))
		return &commands.CancelResult{Reservation: res, RefundOccurred: true, Replayed: replayed}
	}

	s.Run("success: returns 200 with terminal state", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(cancelledResult(false), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var body resdto.CancelResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Equal("cancelled", body.Status)
		s.True(body.CreditRefunded)
		s.False(body.Replayed)
	})

	s.Run("replayed cancel still returns 200", func() {
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
			Return(cancelledResult(true), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var body resdto.CancelResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.True(body.Replayed)
	})

	s.Run("passes the cancellation reason through", func() {
		reason := "schedule conflict"
		s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Cond(func(r *string) bool {
			return r != nil && *r == reason
		})).Return(cancelledResult(false), nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"reason": reason}, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
	})

	s.Run("invalid id format", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/bookings/not-a-uuid/cancel", nil, "bearer-token")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("error mapping", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
		}{
			{name: "not found", err: commands.ErrReservationNotFound, expectCode: http.StatusNotFound},
			{name: "not cancellable", err: commands.ErrNotCancellable, expectCode: http.StatusConflict},
			{name: "storage failure", err: commands.ErrStorageFailure, expectCode: http.StatusInternalServerError},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Cancel(gomock.Any(), reservationID, gomock.Any()).
					Return(nil, tc.err).Times(1)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, nil, "bearer-token")
				s.Equal(tc.expectCode, rec.Code)
			})
		}
	})
}

// ================================================================================
// TestGetClientBookings
// ================================================================================

func (s *BookingHandlerTestSuite) TestGetClientBookings() {
	url := "/bookings"

	s.Run("success: returns the viewer's reservations", func() {
		views := []*queries.ReservationView{
			{ID: uuid.New(), SlotID: uuid.New(), SlotTitle: "Reformer Basics", Status: "confirmed"},
		}
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)

		var body []*queries.ReservationView
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Len(body, 1)
		s.Equal(views[0].ID, body[0].ID)
	})

	s.Run("empty list serializes as an array", func() {
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, url, nil, "bearer-token")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})
}
