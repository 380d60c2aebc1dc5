package feed

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reseau-local/reseau/pkg/logging"
	"github.com/reseau-local/reseau/pkg/telemetry"
)

// Options tunes the ranker.
type Options struct {
	// MaxConcurrency caps the per-candidate lookups in flight.
	MaxConcurrency int
	// LookupTimeout bounds each candidate's author and comment lookups.
	LookupTimeout time.Duration
	// MaxPageSize rejects larger pages when positive.
	MaxPageSize int
	// RecencyWeight enables the freshness term, see Scorer.
	RecencyWeight float64
}

// DefaultOptions returns the options used when none are configured.
func DefaultOptions() Options {
	return Options{
		MaxConcurrency: 16,
		LookupTimeout:  2 * time.Second,
		MaxPageSize:    100,
	}
}

// Ranker builds ranked feed pages.
type Ranker struct {
	sources Sources
	opts    Options
	scorer  Scorer
	metrics *telemetry.FeedMetrics
	logger  *zap.Logger
}

// NewRanker creates a ranker reading from sources.
func NewRanker(sources Sources, opts Options) *Ranker {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultOptions().MaxConcurrency
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = DefaultOptions().LookupTimeout
	}
	return &Ranker{
		sources: sources,
		opts:    opts,
		scorer:  Scorer{RecencyWeight: opts.RecencyWeight},
		metrics: telemetry.NewFeedMetrics(),
		logger:  logging.WithComponent("feed-ranker"),
	}
}

// Rank returns one page of the viewer's feed.
//
// Every non-deleted post is a candidate. Candidates are scored, sorted as a
// whole and only then paginated; a candidate whose author cannot be resolved
// is dropped and does not count toward the total.
func (r *Ranker) Rank(ctx context.Context, req Request) (*Page, error) {
	if err := r.validate(req); err != nil {
		return nil, err
	}

	ctx, span := telemetry.StartSpan(ctx, "feed.rank")
	defer span.End()
	span.SetAttributes(
		attribute.Int("feed.page", req.Page),
		attribute.Int("feed.page_size", req.PageSize),
		attribute.Bool("feed.anonymous", req.ViewerID == ""),
	)
	start := time.Now()

	candidates, err := r.sources.Candidates.ListNonDeletedPosts(ctx)
	if err != nil {
		span.SetStatus(codes.Error, "candidate source")
		return nil, unavailable("list candidates", err)
	}

	following, followers, err := r.relationships(ctx, req.ViewerID)
	if err != nil {
		span.SetStatus(codes.Error, "relationship source")
		return nil, err
	}

	resolved, err := r.resolve(ctx, req, candidates, following, followers)
	if err != nil {
		span.SetStatus(codes.Error, "resolve")
		return nil, err
	}

	ranked := make([]RankedPost, 0, len(resolved))
	for _, rp := range resolved {
		if rp != nil {
			ranked = append(ranked, *rp)
		}
	}
	excluded := len(candidates) - len(ranked)

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Priority > ranked[j].Priority
	})

	page := paginate(ranked, req.Page, req.PageSize)

	span.SetAttributes(
		attribute.Int("feed.candidates", len(candidates)),
		attribute.Int("feed.excluded", excluded),
	)
	r.metrics.ObserveRank(ctx, time.Since(start), req.Page, excluded)

	return page, nil
}

func (r *Ranker) validate(req Request) error {
	if req.Page <= 0 {
		return invalidArgument("validate", "page must be positive, got %d", req.Page)
	}
	if req.PageSize <= 0 {
		return invalidArgument("validate", "page size must be positive, got %d", req.PageSize)
	}
	if r.opts.MaxPageSize > 0 && req.PageSize > r.opts.MaxPageSize {
		return invalidArgument("validate", "page size %d exceeds maximum %d", req.PageSize, r.opts.MaxPageSize)
	}
	return nil
}

// relationships resolves the viewer's follow sets once per request. Anonymous
// viewers get empty sets without touching the source.
func (r *Ranker) relationships(ctx context.Context, viewerID string) (IDSet, IDSet, error) {
	if viewerID == "" {
		return IDSet{}, IDSet{}, nil
	}

	var following, followers IDSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s, err := r.sources.Relationships.GetFollowing(gctx, viewerID)
		if err != nil {
			return unavailable("get following", err)
		}
		following = s
		return nil
	})
	g.Go(func() error {
		s, err := r.sources.Relationships.GetFollowers(gctx, viewerID)
		if err != nil {
			return unavailable("get followers", err)
		}
		followers = s
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return following, followers, nil
}

// resolve fans out the per-candidate lookups with bounded concurrency. The
// returned slice is index-aligned with candidates; nil marks an excluded one.
func (r *Ranker) resolve(ctx context.Context, req Request, candidates []Post, following, followers IDSet) ([]*RankedPost, error) {
	out := make([]*RankedPost, len(candidates))

	var g errgroup.Group
	g.SetLimit(r.opts.MaxConcurrency)

	for i := range candidates {
		if ctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			rp, err := r.resolveOne(ctx, req, &candidates[i], following, followers)
			if err != nil {
				logging.WithSpan(ctx, r.logger).Warn("Excluding feed candidate",
					zap.String("post_id", candidates[i].ID),
					zap.String("author_id", candidates[i].AuthorID),
					zap.Error(err))
				return nil
			}
			out[i] = rp
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("feed: rank aborted: %w", err)
	}
	return out, nil
}

func (r *Ranker) resolveOne(ctx context.Context, req Request, post *Post, following, followers IDSet) (*RankedPost, error) {
	ctx, cancel := context.WithTimeout(ctx, r.opts.LookupTimeout)
	defer cancel()

	ctx, span := telemetry.StartSpan(ctx, "feed.resolve_candidate")
	defer span.End()
	span.SetAttributes(attribute.String("post.id", post.ID))

	author, err := r.sources.Authors.GetUser(ctx, post.AuthorID)
	if err != nil {
		return nil, partial("get author", err)
	}
	if author == nil {
		return nil, partial("get author", fmt.Errorf("author %q not found", post.AuthorID))
	}

	comments, err := r.sources.Comments.CountComments(ctx, post.ID)
	if err != nil {
		return nil, partial("count comments", err)
	}

	tier := Classify(following, followers, post.AuthorID)
	priority := r.scorer.Priority(tier, post.ViewCount(req.ViewerID), post.CreatedAt, req.Page)

	return &RankedPost{
		Post: *post,
		Author: AuthorSummary{
			UserSummary: *author,
			IsFollowed:  following.Has(post.AuthorID),
			FollowsYou:  followers.Has(post.AuthorID),
		},
		Tier:         tier,
		Priority:     priority,
		CommentCount: comments,
	}, nil
}

// paginate slices an already sorted list. A page past the end is empty.
func paginate(ranked []RankedPost, page, pageSize int) *Page {
	total := len(ranked)
	pages := total / pageSize
	if total%pageSize != 0 {
		pages++
	}

	items := []RankedPost{}
	if page <= pages {
		skip := (page - 1) * pageSize
		end := total
		if pageSize < total-skip {
			end = skip + pageSize
		}
		items = ranked[skip:end]
	}

	return &Page{
		Items: items,
		Pagination: Pagination{
			Total: total,
			Page:  page,
			Pages: pages,
		},
	}
}
