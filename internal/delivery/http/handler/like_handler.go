package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/like"
)

type LikeHandler struct {
	likeUseCase *like.UseCase
}

func NewLikeHandler(likeUseCase *like.UseCase) *LikeHandler {
	return &LikeHandler{likeUseCase: likeUseCase}
}

// LikeRequest is a like action against another user.
type LikeRequest struct {
	ToUserID string `json:"to_user_id" binding:"required,uuid4"`
}

// CreateLike handles POST /likes
// @Summary Like a user
// @Description Record a like; reports a match when it is mutual and
// @Description flags repeats as already_liked.
// @Tags likes
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LikeRequest true "Like target"
// @Success 200 {object} domain.MatchResult
// @Failure 400 {object} domain.MatchResult
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} domain.MatchResult
// @Failure 500 {object} domain.MatchResult
// @Router /likes [post]
func (h *LikeHandler) CreateLike(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req LikeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.MatchResult{Error: "invalid request body"})
		return
	}

	result, err := h.likeUseCase.LikeUser(c.Request.Context(), userID, req.ToUserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCannotLikeSelf):
			c.JSON(http.StatusBadRequest, domain.MatchResult{Error: "cannot like yourself"})
		case errors.Is(err, domain.ErrUserNotFound):
			c.JSON(http.StatusNotFound, domain.MatchResult{Error: "user not found"})
		default:
			c.JSON(http.StatusInternalServerError, domain.MatchResult{Error: "failed to record like"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
