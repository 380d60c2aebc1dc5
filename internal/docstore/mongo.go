package docstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/reseau-local/reseau/internal/feed"
	"github.com/reseau-local/reseau/pkg/config"
	"github.com/reseau-local/reseau/pkg/logging"
)

// Collection names
const (
	postsCollection    = "posts"
	usersCollection    = "users"
	commentsCollection = "comments"
)

type viewDoc struct {
	ViewerID     string    `bson:"viewerId"`
	ViewCount    int       `bson:"viewCount"`
	LastViewedAt time.Time `bson:"lastViewedAt"`
}

type likeDoc struct {
	UserID  string    `bson:"userId"`
	LikedAt time.Time `bson:"likedAt"`
}

type postDoc struct {
	ID        string    `bson:"_id"`
	AuthorID  string    `bson:"authorId"`
	Content   string    `bson:"content"`
	Media     []string  `bson:"media,omitempty"`
	CreatedAt time.Time `bson:"createdAt"`
	IsDeleted bool      `bson:"isDeleted"`
	Views     []viewDoc `bson:"views,omitempty"`
	Likes     []likeDoc `bson:"likes,omitempty"`
}

type userDoc struct {
	ID            string   `bson:"_id"`
	Username      string   `bson:"username"`
	DisplayName   string   `bson:"displayName"`
	Avatar        string   `bson:"avatar"`
	FollowerCount int64    `bson:"followerCount"`
	Following     []string `bson:"following,omitempty"`
	Followers     []string `bson:"followers,omitempty"`
	IsDeleted     bool     `bson:"isDeleted"`
}

// Source serves the feed ranker from MongoDB. Users embed their follow
// lists and posts embed their views and likes.
type Source struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect opens a client against cfg and verifies it with a ping
func Connect(ctx context.Context, cfg *config.MongoConfig) (*Source, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.URL).SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logging.GetLogger().Info("MongoDB connection established")

	return &Source{client: client, db: client.Database(cfg.Database)}, nil
}

// Close disconnects the client
func (s *Source) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Health pings the primary
func (s *Source) Health(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Sources exposes s as every source the ranker needs
func (s *Source) Sources() feed.Sources {
	return feed.Sources{Candidates: s, Relationships: s, Authors: s, Comments: s}
}

// ListNonDeletedPosts implements feed.CandidateSource
func (s *Source) ListNonDeletedPosts(ctx context.Context) ([]feed.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := s.db.Collection(postsCollection).Find(ctx, bson.D{{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []postDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]feed.Post, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toFeed())
	}
	return out, nil
}

// GetFollowing implements feed.RelationshipSource
func (s *Source) GetFollowing(ctx context.Context, userID string) (feed.IDSet, error) {
	doc, err := s.findUser(ctx, userID, bson.D{{Key: "following", Value: 1}})
	if err != nil || doc == nil {
		return feed.IDSet{}, err
	}
	return feed.NewIDSet(doc.Following...), nil
}

// GetFollowers implements feed.RelationshipSource
func (s *Source) GetFollowers(ctx context.Context, userID string) (feed.IDSet, error) {
	doc, err := s.findUser(ctx, userID, bson.D{{Key: "followers", Value: 1}})
	if err != nil || doc == nil {
		return feed.IDSet{}, err
	}
	return feed.NewIDSet(doc.Followers...), nil
}

// GetUser implements feed.AuthorResolver
func (s *Source) GetUser(ctx context.Context, id string) (*feed.UserSummary, error) {
	doc, err := s.findUser(ctx, id, bson.D{
		{Key: "username", Value: 1},
		{Key: "displayName", Value: 1},
		{Key: "avatar", Value: 1},
		{Key: "followerCount", Value: 1},
		{Key: "isDeleted", Value: 1},
	})
	if err != nil || doc == nil || doc.IsDeleted {
		return nil, err
	}
	summary := doc.toSummary()
	return &summary, nil
}

// CountComments implements feed.CommentCounter
func (s *Source) CountComments(ctx context.Context, postID string) (int64, error) {
	return s.db.Collection(commentsCollection).CountDocuments(ctx, bson.D{
		{Key: "contentType", Value: "post"},
		{Key: "contentId", Value: postID},
		{Key: "isDeleted", Value: bson.D{{Key: "$ne", Value: true}}},
	})
}

func (s *Source) findUser(ctx context.Context, id string, projection bson.D) (*userDoc, error) {
	var doc userDoc
	err := s.db.Collection(usersCollection).
		FindOne(ctx, bson.D{{Key: "_id", Value: id}}, options.FindOne().SetProjection(projection)).
		Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *postDoc) toFeed() feed.Post {
	p := feed.Post{
		ID:        d.ID,
		AuthorID:  d.AuthorID,
		Content:   d.Content,
		Media:     d.Media,
		CreatedAt: d.CreatedAt,
		IsDeleted: d.IsDeleted,
	}
	for _, v := range d.Views {
		p.Views = append(p.Views, feed.View{ViewerID: v.ViewerID, Count: v.ViewCount, LastViewedAt: v.LastViewedAt})
	}
	for _, l := range d.Likes {
		p.Likes = append(p.Likes, feed.Like{UserID: l.UserID, LikedAt: l.LikedAt})
	}
	return p
}

func (d *userDoc) toSummary() feed.UserSummary {
	name := d.DisplayName
	if name == "" {
		name = d.Username
	}
	return feed.UserSummary{
		ID:            d.ID,
		DisplayName:   name,
		Avatar:        d.Avatar,
		FollowerCount: d.FollowerCount,
	}
}
