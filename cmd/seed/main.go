package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/reseau-local/reseau/internal/api"
	"github.com/reseau-local/reseau/internal/db"
	"github.com/reseau-local/reseau/internal/models"
	"github.com/reseau-local/reseau/pkg/config"
	"github.com/reseau-local/reseau/pkg/logging"
)

type seedOptions struct {
	users        int
	postsPerUser int
	followRatio  float64
	views        int
	seed         int64
}

func main() {
	var opts seedOptions
	flag.IntVar(&opts.users, "users", 50, "number of users to create")
	flag.IntVar(&opts.postsPerUser, "posts", 5, "maximum posts per user")
	flag.Float64Var(&opts.followRatio, "follow-ratio", 0.2, "probability that a user follows another")
	flag.IntVar(&opts.views, "views", 500, "number of random view events")
	flag.Int64Var(&opts.seed, "seed", time.Now().UnixNano(), "random seed")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()
	logger := logging.GetLogger()

	ctx := context.Background()

	database, err := db.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.Migrate(ctx); err != nil {
		logger.Fatal("Failed to migrate database", zap.Error(err))
	}

	gofakeit.Seed(opts.seed)
	userIDs, err := seed(ctx, db.NewRepository(database.DB), opts)
	if err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("Seeding complete", zap.Int("users", len(userIDs)), zap.Int64("seed", opts.seed))

	if cfg.Auth.JWTSecret != "" && len(userIDs) > 0 {
		token, err := api.IssueToken(cfg.Auth.JWTSecret, userIDs[0], 24*time.Hour)
		if err != nil {
			logger.Fatal("Failed to issue token", zap.Error(err))
		}
		fmt.Printf("Viewer %s token: %s\n", userIDs[0], token)
	}
}

func seed(ctx context.Context, repo *db.Repository, opts seedOptions) ([]string, error) {
	users := db.NewUserRepository(repo)
	follows := db.NewFollowRepository(repo)
	posts := db.NewPostRepository(repo)
	comments := db.NewCommentRepository(repo)

	now := time.Now().UTC()
	start := now.AddDate(0, -1, 0)

	userIDs := make([]string, 0, opts.users)
	for i := 0; i < opts.users; i++ {
		u := &models.User{
			ID:          uuid.NewString(),
			Username:    fmt.Sprintf("%s%d", gofakeit.Username(), i),
			DisplayName: gofakeit.Name(),
			AvatarURL:   gofakeit.ImageURL(128, 128),
			CreatedAt:   gofakeit.DateRange(start, now),
		}
		if err := users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("failed to create user: %w", err)
		}
		userIDs = append(userIDs, u.ID)
	}

	for _, follower := range userIDs {
		for _, followed := range userIDs {
			if follower == followed || gofakeit.Float64Range(0, 1) >= opts.followRatio {
				continue
			}
			if _, err := follows.Follow(ctx, follower, followed, gofakeit.DateRange(start, now)); err != nil {
				return nil, fmt.Errorf("failed to create follow: %w", err)
			}
		}
	}

	var postIDs []string
	for _, author := range userIDs {
		for i := gofakeit.Number(0, opts.postsPerUser); i > 0; i-- {
			p := &models.Post{
				ID:        uuid.NewString(),
				AuthorID:  author,
				Content:   gofakeit.Paragraph(1, gofakeit.Number(1, 4), 12, " "),
				CreatedAt: gofakeit.DateRange(start, now),
			}
			if gofakeit.Bool() {
				p.MediaURLs = []string{gofakeit.ImageURL(800, 600)}
			}
			if err := posts.Create(ctx, p); err != nil {
				return nil, fmt.Errorf("failed to create post: %w", err)
			}
			postIDs = append(postIDs, p.ID)
		}
	}
	if len(postIDs) == 0 {
		return userIDs, nil
	}

	for i := 0; i < opts.views; i++ {
		postID := postIDs[gofakeit.Number(0, len(postIDs)-1)]
		userID := userIDs[gofakeit.Number(0, len(userIDs)-1)]
		if err := posts.RecordView(ctx, postID, userID, gofakeit.DateRange(start, now)); err != nil {
			return nil, fmt.Errorf("failed to record view: %w", err)
		}
		if gofakeit.Number(0, 3) == 0 {
			if _, err := posts.Like(ctx, postID, userID, now); err != nil {
				return nil, fmt.Errorf("failed to like post: %w", err)
			}
		}
		if gofakeit.Number(0, 9) == 0 {
			c := &models.Comment{
				ID:          uuid.NewString(),
				AuthorID:    userID,
				ContentType: models.ContentPost,
				ContentID:   postID,
				Text:        gofakeit.Sentence(gofakeit.Number(3, 15)),
				CreatedAt:   now,
			}
			if err := comments.Create(ctx, c); err != nil {
				return nil, fmt.Errorf("failed to create comment: %w", err)
			}
		}
	}

	return userIDs, nil
}
