package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/matches"
)

type MatchHandler struct {
	matchesUseCase *matches.UseCase
}

func NewMatchHandler(matchesUseCase *matches.UseCase) *MatchHandler {
	return &MatchHandler{matchesUseCase: matchesUseCase}
}

// ListMatches handles GET /matches
// @Summary List my matches
// @Description Active matches resolved to the counterpart's profile,
// @Description timestamped with the match creation time.
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 200 {array} domain.UserProfile
// @Failure 401 {object} ErrorResponse
// @Router /matches [get]
func (h *MatchHandler) ListMatches(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	profiles, err := h.matchesUseCase.GetUserMatches(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load matches"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// ListPotentialMatches handles GET /matches/potential
// @Summary List discovery candidates
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Param limit query int false "Page size" default(50)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} domain.UserProfile
// @Failure 401 {object} ErrorResponse
// @Router /matches/potential [get]
func (h *MatchHandler) ListPotentialMatches(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	profiles, err := h.matchesUseCase.GetPotentialMatches(c.Request.Context(), userID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to load potential matches"})
		return
	}

	c.JSON(http.StatusOK, profiles)
}

// Unmatch handles DELETE /matches/:user_id
// @Summary Unmatch a user
// @Tags matches
// @Security BearerAuth
// @Produce json
// @Success 204
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /matches/{user_id} [delete]
func (h *MatchHandler) Unmatch(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	err := h.matchesUseCase.Unmatch(c.Request.Context(), userID, c.Param("user_id"))
	if err != nil {
		if errors.Is(err, domain.ErrMatchNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "match not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to unmatch"})
		return
	}

	c.Status(http.StatusNoContent)
}
