package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

// ImageStore keeps uploaded post images and hands back an object key.
type ImageStore interface {
	Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type PostOptions struct {
	// EnforceEditOwnership limits edits to the post's author. When off, any
	// signed-in editor may edit and becomes the post's author.
	EnforceEditOwnership bool
}

type PostService struct {
	repo        *mysql.PostRepository
	comments    *mysql.CommentRepository
	groups      *mysql.GroupRepository
	users       *mysql.UserRepository
	images      ImageStore
	invalidator Invalidator
	opts        PostOptions
}

func NewPostService(db *gorm.DB, images ImageStore, inv Invalidator, opts PostOptions) *PostService {
	return &PostService{
		repo:        &mysql.PostRepository{DB: db},
		comments:    &mysql.CommentRepository{DB: db},
		groups:      &mysql.GroupRepository{DB: db},
		users:       &mysql.UserRepository{DB: db},
		images:      images,
		invalidator: inv,
		opts:        opts,
	}
}

// requireUser fails with ErrNotFound when an authenticated id has no user row,
// e.g. a token for an account that was never mirrored.
func requireUser(ctx context.Context, users *mysql.UserRepository, id uint64) error {
	if _, err := users.FindByID(ctx, id); err != nil {
		return fmt.Errorf("user %d: %w", id, err)
	}
	return nil
}

type PostDetail struct {
	Post            model.Post      `json:"post"`
	Comments        []model.Comment `json:"comments"`
	CommentCount    int             `json:"comment_count"`
	AuthorPostCount int64           `json:"author_post_count"`
}

func (s *PostService) Detail(ctx context.Context, postID uint64) (*PostDetail, error) {
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []model.Comment{}
	}
	count, err := s.repo.CountByAuthor(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}
	return &PostDetail{
		Post:            *post,
		Comments:        comments,
		CommentCount:    len(comments),
		AuthorPostCount: count,
	}, nil
}

// checkForm trims and validates the form, including that the group exists.
func (s *PostService) checkForm(ctx context.Context, form *PostForm) error {
	form.Text = strings.TrimSpace(form.Text)
	if err := validateForm(form); err != nil {
		return err
	}
	if form.GroupID != nil {
		if _, err := s.groups.FindByID(ctx, *form.GroupID); err != nil {
			if errors.Is(err, pkg.ErrNotFound) {
				return pkg.NewValidationError("group", "select a valid choice")
			}
			return err
		}
	}
	if form.Image != nil && s.images == nil {
		return pkg.NewValidationError("image", "image uploads are not enabled")
	}
	return nil
}

func (s *PostService) storeImage(ctx context.Context, img *ImageUpload) (string, error) {
	if img == nil {
		return "", nil
	}
	return s.images.Put(ctx, img.Filename, img.Reader, img.Size, img.ContentType)
}

// discardImage removes an uploaded image whose row never made it to the store.
func (s *PostService) discardImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, key); err != nil {
		logger.Warn("image_cleanup_failed", map[string]any{"object_name": key, "error": err.Error()})
	}
}

func (s *PostService) CreatePost(ctx context.Context, authorID uint64, form PostForm) (*model.Post, error) {
	if authorID == 0 {
		return nil, pkg.ErrUnauthorized
	}
	if err := requireUser(ctx, s.users, authorID); err != nil {
		return nil, err
	}
	if err := s.checkForm(ctx, &form); err != nil {
		return nil, err
	}

	key, err := s.storeImage(ctx, form.Image)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	post := &model.Post{
		Text:     form.Text,
		AuthorID: authorID,
		GroupID:  form.GroupID,
		Image:    key,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}
	invalidate(ctx, s.invalidator, model.EventPostCreated)
	logger.InfoWithUser(authorID, "post_created", map[string]any{"post_id": post.ID})

	return s.repo.FindByID(ctx, post.ID)
}

// EditPost replaces text and group, and the image when a new one is given.
// created_at is preserved.
func (s *PostService) EditPost(ctx context.Context, editorID, postID uint64, form PostForm) (*model.Post, error) {
	if editorID == 0 {
		return nil, pkg.ErrUnauthorized
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	if s.opts.EnforceEditOwnership && post.AuthorID != editorID {
		return nil, pkg.ErrForbidden
	}
	if post.AuthorID != editorID {
		if err := requireUser(ctx, s.users, editorID); err != nil {
			return nil, err
		}
	}
	if err := s.checkForm(ctx, &form); err != nil {
		return nil, err
	}

	key, err := s.storeImage(ctx, form.Image)
	if err != nil {
		return nil, fmt.Errorf("store image: %w", err)
	}
	oldImage := post.Image
	post.Text = form.Text
	post.GroupID = form.GroupID
	post.AuthorID = editorID
	if key != "" {
		post.Image = key
	}
	if err := s.repo.Update(ctx, post); err != nil {
		s.discardImage(ctx, key)
		return nil, err
	}
	if key != "" {
		s.discardImage(ctx, oldImage)
	}
	invalidate(ctx, s.invalidator, model.EventPostEdited)
	logger.InfoWithUser(editorID, "post_edited", map[string]any{"post_id": post.ID})

	return s.repo.FindByID(ctx, post.ID)
}

// DeletePost removes a post and its comments. Only the author may delete.
func (s *PostService) DeletePost(ctx context.Context, viewerID, postID uint64) error {
	if viewerID == 0 {
		return pkg.ErrUnauthorized
	}
	post, err := s.repo.FindByID(ctx, postID)
	if err != nil {
		return fmt.Errorf("post %d: %w", postID, err)
	}
	if post.AuthorID != viewerID {
		return pkg.ErrForbidden
	}
	if err := s.repo.Delete(ctx, postID, viewerID); err != nil {
		return err
	}
	s.discardImage(ctx, post.Image)
	invalidate(ctx, s.invalidator, model.EventPostDeleted)
	logger.InfoWithUser(viewerID, "post_deleted", map[string]any{"post_id": postID})
	return nil
}

// CreateComment appends a comment to an existing post.
func (s *PostService) CreateComment(ctx context.Context, authorID, postID uint64, form CommentForm) (*model.Comment, error) {
	if authorID == 0 {
		return nil, pkg.ErrUnauthorized
	}
	if err := requireUser(ctx, s.users, authorID); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, postID); err != nil {
		return nil, fmt.Errorf("post %d: %w", postID, err)
	}
	form.Text = strings.TrimSpace(form.Text)
	if err := validateForm(&form); err != nil {
		return nil, err
	}

	comment := &model.Comment{PostID: postID, AuthorID: authorID, Text: form.Text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	invalidate(ctx, s.invalidator, model.EventCommentCreated)
	logger.InfoWithUser(authorID, "comment_created", map[string]any{"post_id": postID, "comment_id": comment.ID})

	return s.comments.FindByID(ctx, comment.ID)
}
