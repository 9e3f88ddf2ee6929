package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"Yatube/internal/middleware"
	"Yatube/internal/pkg"
	"Yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type PostHandler struct {
	svc *service.PostService
}

// postReq accepts JSON or a multipart form; multipart may carry an "image" file.
type postReq struct {
	Text    string  `json:"text" form:"text"`
	GroupID *uint64 `json:"group" form:"group"`
}

type commentReq struct {
	Text string `json:"text" form:"text"`
}

func NewPostHandler(svc *service.PostService) *PostHandler {
	return &PostHandler{svc: svc}
}

func postIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"msg": "post not found"})
		return 0, false
	}
	return id, true
}

// bindPostForm builds the service form. The returned closer releases an uploaded file.
func bindPostForm(c *gin.Context) (service.PostForm, func(), error) {
	noop := func() {}
	var req postReq
	if err := c.ShouldBind(&req); err != nil {
		return service.PostForm{}, noop, &pkg.ValidationError{Fields: map[string]string{"body": "invalid params"}}
	}
	if req.GroupID != nil && *req.GroupID == 0 {
		req.GroupID = nil
	}
	form := service.PostForm{Text: req.Text, GroupID: req.GroupID}

	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return form, noop, nil
	}
	fh, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return form, noop, nil
	}
	if err != nil {
		return form, noop, pkg.NewValidationError("image", "upload a valid image")
	}
	f, err := fh.Open()
	if err != nil {
		return form, noop, pkg.NewValidationError("image", "upload a valid image")
	}
	form.Image = &service.ImageUpload{
		Filename:    fh.Filename,
		ContentType: contentType(fh),
		Size:        fh.Size,
		Reader:      f,
	}
	return form, func() { _ = f.Close() }, nil
}

func contentType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// Detail returns a post with its comments.
func (h *PostHandler) Detail(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	detail, err := h.svc.Detail(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// Create submits a new post for the viewer.
func (h *PostHandler) Create(c *gin.Context) {
	form, release, err := bindPostForm(c)
	defer release()
	if err != nil {
		respondError(c, err)
		return
	}
	post, err := h.svc.CreatePost(c.Request.Context(), middleware.ViewerID(c), form)
	if err != nil {
		respondError(c, err)
		return
	}
	// clients continue to the author's profile
	c.JSON(http.StatusCreated, gin.H{"post": post, "redirect": "/api/profile/" + post.Author.Username})
}

func (h *PostHandler) Edit(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	form, release, err := bindPostForm(c)
	defer release()
	if err != nil {
		respondError(c, err)
		return
	}
	post, err := h.svc.EditPost(c.Request.Context(), middleware.ViewerID(c), id, form)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post, "redirect": "/api/posts/" + strconv.FormatUint(post.ID, 10)})
}

// Delete removes one of the viewer's posts.
func (h *PostHandler) Delete(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	if err := h.svc.DeletePost(c.Request.Context(), middleware.ViewerID(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"msg": "deleted"})
}

func (h *PostHandler) Comment(c *gin.Context) {
	id, ok := postIDParam(c)
	if !ok {
		return
	}
	var req commentReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params"})
		return
	}
	comment, err := h.svc.CreateComment(c.Request.Context(), middleware.ViewerID(c), id, service.CommentForm{Text: req.Text})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"comment": comment, "redirect": "/api/posts/" + strconv.FormatUint(id, 10)})
}
