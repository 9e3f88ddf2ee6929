package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"Yatube/internal/config"
	"Yatube/internal/model"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"
	"Yatube/internal/repository/redis"
	"Yatube/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// env is what every subcommand needs: a migrated database and the cache invalidator.
type env struct {
	cfg *config.Config
	db  *gorm.DB
	inv service.Invalidator
}

func openEnv(ctx context.Context) (*env, error) {
	cfg := config.Load()
	db, err := mysql.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := mysql.Migrate(db.WithContext(ctx)); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	var inv service.Invalidator = service.NopCache{}
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(cfg.Redis)
		if err != nil {
			logger.Warn("redis_unavailable", map[string]any{"addr": cfg.Redis.Addr, "error": err.Error()})
		} else {
			inv = redis.NewFeedCacheRepository(rdb, cfg.Feed.CacheTTL)
		}
	}
	return &env{cfg: cfg, db: db, inv: inv}, nil
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "blogctl",
		Short:         "Administer the blog: groups, mirrored users, dev tokens",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newMigrateCmd(), newGroupCmd(), newUserCmd(), newTokenCmd())
	return root
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := openEnv(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
}

func newGroupCmd() *cobra.Command {
	group := &cobra.Command{Use: "group", Short: "Manage post groups"}

	var title, description string
	create := &cobra.Command{
		Use:   "create <slug>",
		Short: "Create a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			g, err := service.NewGroupService(e.db, e.inv).CreateGroup(cmd.Context(), service.GroupForm{
				Title:       title,
				Slug:        args[0],
				Description: description,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created group %d (%s)\n", g.ID, g.Slug)
			return nil
		},
	}
	create.Flags().StringVar(&title, "title", "", "group title")
	create.Flags().StringVar(&description, "description", "", "group description")
	_ = create.MarkFlagRequired("title")

	list := &cobra.Command{
		Use:   "list",
		Short: "List groups",
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			groups, err := service.NewGroupService(e.db, e.inv).ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSLUG\tTITLE")
			for _, g := range groups {
				fmt.Fprintf(w, "%d\t%s\t%s\n", g.ID, g.Slug, g.Title)
			}
			return w.Flush()
		},
	}

	del := &cobra.Command{
		Use:   "delete <slug>",
		Short: "Delete a group; its posts are kept without a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			n, err := service.NewGroupService(e.db, e.inv).DeleteGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted group %s, %d posts detached\n", args[0], n)
			return nil
		},
	}

	group.AddCommand(create, list, del)
	return group
}

// newUserCmd mirrors an identity-provider account into the local user table.
func newUserCmd() *cobra.Command {
	user := &cobra.Command{Use: "user", Short: "Mirror identity provider accounts"}

	var email string
	var id uint64
	add := &cobra.Command{
		Use:   "add <username>",
		Short: "Register a user known to the identity provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			u := &model.User{ID: id, Username: args[0], Email: email}
			if err := (&mysql.UserRepository{DB: e.db}).Create(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s)\n", u.ID, u.Username)
			return nil
		},
	}
	add.Flags().StringVar(&email, "email", "", "address for comment notices")
	add.Flags().Uint64Var(&id, "id", 0, "identity provider user id (assigned when 0)")

	user.AddCommand(add)
	return user
}

func newTokenCmd() *cobra.Command {
	var ttl time.Duration
	cmd := &cobra.Command{
		Use:   "token <username>",
		Short: "Sign a development access token for a mirrored user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			u, err := (&mysql.UserRepository{DB: e.db}).FindByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tok, err := pkg.NewTokenVerifier(e.cfg.JWT.Secret).Issue(u.ID, u.Username, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", pkg.AccessTTL, "token lifetime")
	return cmd
}

