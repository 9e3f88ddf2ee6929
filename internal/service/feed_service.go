package service

import (
	"context"
	"fmt"

	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/repository/mysql"

	"gorm.io/gorm"
)

type ScopeKind int

const (
	ScopeAll ScopeKind = iota
	ScopeGroup
	ScopeAuthor
	ScopeFollowing
)

// Scope selects which posts a feed shows. GroupID and AuthorID, when set,
// are the already resolved Slug and Username and spare the composer a lookup.
type Scope struct {
	Kind     ScopeKind
	Slug     string
	Username string
	ViewerID uint64
	GroupID  uint64
	AuthorID uint64
}

func AllPosts() Scope { return Scope{Kind: ScopeAll} }
func ByGroup(slug string) Scope { return Scope{Kind: ScopeGroup, Slug: slug} }
func ByAuthor(username string) Scope { return Scope{Kind: ScopeAuthor, Username: username} }
func FollowedByViewer(viewerID uint64) Scope { return Scope{Kind: ScopeFollowing, ViewerID: viewerID} }

// Key identifies the scope in cache keys.
func (s Scope) Key() string {
	switch s.Kind {
	case ScopeGroup:
		return "group:" + s.Slug
	case ScopeAuthor:
		return "author:" + s.Username
	case ScopeFollowing:
		return fmt.Sprintf("following:%d", s.ViewerID)
	default:
		return "all"
	}
}

type FeedComposer interface {
	Compose(ctx context.Context, scope Scope, page int) (pkg.Page[model.Post], error)
}

// Composer turns a scope into a filter, orders newest first and paginates.
// It has no side effects.
type Composer struct {
	posts    *mysql.PostRepository
	groups   *mysql.GroupRepository
	users    *mysql.UserRepository
	follows  *mysql.FollowRepository
	pageSize int
}

func NewComposer(db *gorm.DB, pageSize int) *Composer {
	if pageSize <= 0 {
		pageSize = pkg.DefaultPageSize
	}
	return &Composer{
		posts:    &mysql.PostRepository{DB: db},
		groups:   &mysql.GroupRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		follows:  &mysql.FollowRepository{DB: db},
		pageSize: pageSize,
	}
}

func (c *Composer) Compose(ctx context.Context, scope Scope, page int) (pkg.Page[model.Post], error) {
	var f mysql.PostFilter
	switch scope.Kind {
	case ScopeAll:
	case ScopeGroup:
		id := scope.GroupID
		if id == 0 {
			group, err := c.groups.FindBySlug(ctx, scope.Slug)
			if err != nil {
				return pkg.Page[model.Post]{}, fmt.Errorf("group %q: %w", scope.Slug, err)
			}
			id = group.ID
		}
		f.GroupID = &id
	case ScopeAuthor:
		id := scope.AuthorID
		if id == 0 {
			author, err := c.users.FindByUsername(ctx, scope.Username)
			if err != nil {
				return pkg.Page[model.Post]{}, fmt.Errorf("user %q: %w", scope.Username, err)
			}
			id = author.ID
		}
		f.AuthorID = &id
	case ScopeFollowing:
		if scope.ViewerID == 0 {
			return pkg.Page[model.Post]{}, pkg.ErrUnauthorized
		}
		ids, err := c.follows.FolloweeIDs(ctx, scope.ViewerID)
		if err != nil {
			return pkg.Page[model.Post]{}, err
		}
		f.AuthorIDs = ids
	default:
		return pkg.Page[model.Post]{}, fmt.Errorf("unknown feed scope %d", scope.Kind)
	}
	return c.posts.List(ctx, f, page, c.pageSize)
}

type GroupFeed struct {
	Group model.Group          `json:"group"`
	Page  pkg.Page[model.Post] `json:"page"`
}

type ProfileFeed struct {
	Author   model.User           `json:"author"`
	Page     pkg.Page[model.Post] `json:"page"`
	Relation Relation             `json:"relation"`
}

// FeedService answers the four feed views. Header lookups (group, author)
// happen here; the post page comes from the composer, cached or not.
type FeedService struct {
	composer FeedComposer
	groups   *mysql.GroupRepository
	users    *mysql.UserRepository
	graph    *FollowService
}

func NewFeedService(db *gorm.DB, composer FeedComposer, graph *FollowService) *FeedService {
	return &FeedService{
		composer: composer,
		groups:   &mysql.GroupRepository{DB: db},
		users:    &mysql.UserRepository{DB: db},
		graph:    graph,
	}
}

func (s *FeedService) Index(ctx context.Context, viewerID uint64, page int) (pkg.Page[model.Post], error) {
	return s.composer.Compose(ctx, AllPosts(), page)
}

func (s *FeedService) GroupFeed(ctx context.Context, slug string, viewerID uint64, page int) (*GroupFeed, error) {
	group, err := s.groups.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("group %q: %w", slug, err)
	}
	scope := ByGroup(slug)
	scope.GroupID = group.ID
	p, err := s.composer.Compose(ctx, scope, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: *group, Page: p}, nil
}

func (s *FeedService) ProfileFeed(ctx context.Context, username string, viewerID uint64, page int) (*ProfileFeed, error) {
	author, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("user %q: %w", username, err)
	}
	scope := ByAuthor(username)
	scope.AuthorID = author.ID
	p, err := s.composer.Compose(ctx, scope, page)
	if err != nil {
		return nil, err
	}
	rel, err := s.graph.RelationStatus(ctx, viewerID, author.ID)
	if err != nil {
		return nil, err
	}
	return &ProfileFeed{Author: *author, Page: p, Relation: rel}, nil
}

func (s *FeedService) FollowingFeed(ctx context.Context, viewerID uint64, page int) (pkg.Page[model.Post], error) {
	if viewerID == 0 {
		return pkg.Page[model.Post]{}, pkg.ErrUnauthorized
	}
	return s.composer.Compose(ctx, FollowedByViewer(viewerID), page)
}
