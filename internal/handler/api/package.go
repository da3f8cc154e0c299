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
)

type PackageHandler struct {
	ledgerCommands commands.LedgerCommands
	packageQueries queries.PackageQueries
}

func NewPackageHandler(ledgerCommands commands.LedgerCommands, packageQueries queries.PackageQueries) *PackageHandler {
	return &PackageHandler{
		ledgerCommands: ledgerCommands,
		packageQueries: packageQueries,
	}
}

func (h *PackageHandler) GetClientPackages(c *gin.Context) {
	clientID, ok := middleware.GetClientID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}

	views, err := h.packageQueries.ListByClient(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
		})
		return
	}
	if views == nil {
		views = []*queries.PackageView{}
	}

	c.JSON(http.StatusOK, views)
}

func (h *PackageHandler) GrantPackage(c *gin.Context) {
	var req reqdto.GrantPackageRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request format",
		})
		return
	}

	result, err := h.ledgerCommands.GrantPackage(c.Request.Context(), req.ClientID, req.Credits, req.GetValidityDays())
	if err != nil {
		switch {
		case errors.Is(err, commands.ErrInvalidPackage):
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error": "Invalid package parameters",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Internal server error",
			})
		}
		return
	}

	c.JSON(http.StatusCreated, resdto.FromGrantPackageResult(result))
}
