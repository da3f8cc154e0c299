//go:build unit

package api_test

import (
	"net/http"
	"testing"
	"time"

	"studio-booking/internal/domain/pack"
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

type PackageHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLedgerCommands
	mockQueries  *queriesmock.MockPackageQueries
	handler      *api.PackageHandler
	clientID     uuid.UUID
}

func (s *PackageHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLedgerCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockPackageQueries(s.mockCtrl)
	s.handler = api.NewPackageHandler(s.mockCommands, s.mockQueries)
	s.clientID = uuid.New()

	authMiddleware := func(c *gin.Context) {
		c.Set("client_id", s.clientID)
		c.Set("client_role", "admin")
		c.Next()
	}

	s.router.GET("/packages", authMiddleware, s.handler.GetClientPackages)
	s.router.POST("/packages/grant", authMiddleware, s.handler.GrantPackage)
}

func (s *PackageHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestPackageHandlerSuite(t *testing.T) {
	suite.Run(t, new(PackageHandlerTestSuite))
}

func (s *PackageHandlerTestSuite) TestGetClientPackages() {
	s.Run("success: returns balances with status", func() {
		views := []*queries.PackageView{
			{ID: uuid.New(), Total: 10, Remaining: 4, Status: "active"},
		}
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID).
			Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/packages", nil, "")
		s.Equal(http.StatusOK, rec.Code)

		var body []*queries.PackageView
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &body)
		s.Len(body, 1)
		s.Equal("active", body[0].Status)
	})

	s.Run("empty list serializes as an array", func() {
		s.mockQueries.EXPECT().ListByClient(gomock.Any(), s.clientID).
			Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/packages", nil, "")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq("[]", rec.Body.String())
	})
}

func (s *PackageHandlerTestSuite) TestGrantPackage() {
	url := "/packages/grant"
	targetID := uuid.New()
	now := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	s.Run("success: returns 201 Created", func() {
		p, err := pack.NewPackage(targetID, 10, 30, now)
		s.Require().NoError(err)
		s.mockCommands.EXPECT().GrantPackage(gomock.Any(), targetID, 10, 30).
			Return(&commands.GrantPackageResult{Package: p}, nil).Times(1)

		body := map[string]any{"client_id": targetID.String(), "credits": 10, "validity_days": 30}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusCreated, rec.Code)

		var resp resdto.GrantPackageResponse
		_ = httptest.DecodeResponseBody(s.T(), rec.Body, &resp)
		s.Equal(10, resp.Remaining)
		s.Equal(targetID, resp.ClientID)
	})

	s.Run("omitted validity falls back to the default", func() {
		p, err := pack.NewPackage(targetID, 5, 30, now)
		s.Require().NoError(err)
		s.mockCommands.EXPECT().GrantPackage(gomock.Any(), targetID, 5, 30).
			Return(&commands.GrantPackageResult{Package: p}, nil).Times(1)

		body := map[string]any{"client_id": targetID.String(), "credits": 5}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusCreated, rec.Code)
	})

	s.Run("binding rejects out-of-range validity", func() {
		body := map[string]any{"client_id": targetID.String(), "credits": 5, "validity_days": 400}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusBadRequest, rec.Code)
	})

	s.Run("invalid parameters map to 422", func() {
		s.mockCommands.EXPECT().GrantPackage(gomock.Any(), targetID, 10, 30).
			Return(nil, commands.ErrInvalidPackage).Times(1)

		body := map[string]any{"client_id": targetID.String(), "credits": 10, "validity_days": 30}
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, body, "")
		s.Equal(http.StatusUnprocessableEntity, rec.Code)
	})
}
