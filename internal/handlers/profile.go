package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ipsstrack/api/internal/models"
	"ipsstrack/api/internal/service"
)

type profileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	DOB       *string   `json:"dob"`
	Gender    *string   `json:"gender"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProfileResponse(user models.User) profileResponse {
	return profileResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		DOB:       user.DOB,
		Gender:    user.Gender,
		Avatar:    user.Avatar,
		CreatedAt: user.CreatedAt,
	}
}

func (h HandlerSet) GetProfile(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	user, err := h.profiles.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toProfileResponse(user)})
}

type updateProfileRequest struct {
	Name   string  `json:"name"`
	DOB    *string `json:"dob"`
	Gender *string `json:"gender"`
	Avatar *string `json:"avatar"`
}

func (h HandlerSet) UpdateProfile(c *gin.Context) {
	userID, ok := userIDOrAbort(c)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	user, err := h.profiles.Update(c.Request.Context(), userID, service.ProfileUpdateInput{
		Name:   req.Name,
		DOB:    req.DOB,
		Gender: req.Gender,
		Avatar: req.Avatar,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": toProfileResponse(user)})
}
