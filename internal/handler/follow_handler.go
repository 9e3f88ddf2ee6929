package handler

import (
	"net/http"
	"strconv"

	"Yatube/internal/middleware"
	"Yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FollowHandler struct {
	svc *service.FollowService
}

func NewFollowHandler(svc *service.FollowService) *FollowHandler {
	return &FollowHandler{svc: svc}
}

func (h *FollowHandler) Follow(c *gin.Context) {
	changed, err := h.svc.FollowUsername(c.Request.Context(), middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	changed, err := h.svc.UnfollowUsername(c.Request.Context(), middleware.ViewerID(c), c.Param("username"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed})
}

// Followings pages the accounts a user follows.
func (h *FollowHandler) Followings(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	users, next, err := h.svc.ListFollowings(c.Request.Context(), c.Param("username"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": users, "next_cursor": next})
}

// Followers pages the accounts following a user.
func (h *FollowHandler) Followers(c *gin.Context) {
	cursor, _ := strconv.ParseUint(c.Query("cursor"), 10, 64)
	limit, _ := strconv.Atoi(c.Query("limit"))
	users, next, err := h.svc.ListFollowers(c.Request.Context(), c.Param("username"), cursor, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": users, "next_cursor": next})
}
