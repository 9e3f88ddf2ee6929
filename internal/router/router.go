package router

import (
	"Yatube/internal/handler"
	"Yatube/internal/middleware"
	"Yatube/internal/pkg"
	"Yatube/internal/service"

	"github.com/gin-gonic/gin"
)

type Services struct {
	Feeds    *service.FeedService
	Posts    *service.PostService
	Follows  *service.FollowService
	Groups   *service.GroupService
	Verifier *pkg.TokenVerifier
}

func InitRouter(s Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.MaxMultipartMemory = 8 << 20

	feed := handler.NewFeedHandler(s.Feeds)
	post := handler.NewPostHandler(s.Posts)
	follow := handler.NewFollowHandler(s.Follows)
	group := handler.NewGroupHandler(s.Groups)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(s.Verifier))

	// guest-readable feeds
	api.GET("/posts", feed.Index)
	api.GET("/posts/:id", post.Detail)
	api.GET("/groups", group.List)
	api.GET("/groups/:slug/posts", feed.Group)
	api.GET("/profile/:username", feed.Profile)
	api.GET("/profile/:username/following", follow.Followings)
	api.GET("/profile/:username/followers", follow.Followers)

	authed := api.Group("")
	authed.Use(middleware.RequireViewer())
	{
		authed.POST("/posts", post.Create)
		authed.PUT("/posts/:id", post.Edit)
		authed.DELETE("/posts/:id", post.Delete)
		authed.POST("/posts/:id/comments", post.Comment)

		authed.GET("/follow/posts", feed.Following)
		authed.POST("/profile/:username/follow", follow.Follow)
		authed.POST("/profile/:username/unfollow", follow.Unfollow)
	}

	return r
}
