package handler

import (
	"net/http"

	"Yatube/internal/middleware"
	"Yatube/internal/pkg"
	"Yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type FeedHandler struct {
	svc *service.FeedService
}

func NewFeedHandler(svc *service.FeedService) *FeedHandler {
	return &FeedHandler{svc: svc}
}

// Index lists every post, newest first.
func (h *FeedHandler) Index(c *gin.Context) {
	page, err := h.svc.Index(c.Request.Context(), middleware.ViewerID(c), pkg.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *FeedHandler) Group(c *gin.Context) {
	feed, err := h.svc.GroupFeed(c.Request.Context(), c.Param("slug"), middleware.ViewerID(c), pkg.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

func (h *FeedHandler) Profile(c *gin.Context) {
	feed, err := h.svc.ProfileFeed(c.Request.Context(), c.Param("username"), middleware.ViewerID(c), pkg.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, feed)
}

// Following lists posts by the authors the viewer follows.
func (h *FeedHandler) Following(c *gin.Context) {
	page, err := h.svc.FollowingFeed(c.Request.Context(), middleware.ViewerID(c), pkg.ParsePage(c.Query("page")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}
