package mysql

import (
	"context"
	"testing"
	"time"

	"Yatube/internal/model"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}
	return db
}

func createUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{Username: username, Email: username + "@test.local"}
	if err := (&UserRepository{DB: db}).Create(context.Background(), u); err != nil {
		t.Fatalf("failed creating user %s: %v", username, err)
	}
	return u
}

func createGroup(t *testing.T, db *gorm.DB, slug string) *model.Group {
	t.Helper()
	g := &model.Group{Title: "Group " + slug, Slug: slug, Description: "about " + slug}
	if err := (&GroupRepository{DB: db}).Create(context.Background(), g); err != nil {
		t.Fatalf("failed creating group %s: %v", slug, err)
	}
	return g
}

func createPost(t *testing.T, db *gorm.DB, author *model.User, group *model.Group, text string, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{Text: text, AuthorID: author.ID, CreatedAt: at}
	if group != nil {
		p.GroupID = &group.ID
	}
	if err := (&PostRepository{DB: db}).Create(context.Background(), p); err != nil {
		t.Fatalf("failed creating post: %v", err)
	}
	return p
}
