package feed

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// fakeStore implements all four sources in memory.
type fakeStore struct {
	posts      []Post
	postsErr   error
	following  map[string]IDSet
	followers  map[string]IDSet
	relErr     error
	users      map[string]*UserSummary
	userErr    map[string]error
	slowUsers  map[string]bool
	comments   map[string]int64
	commentErr map[string]error
	delay      time.Duration

	candidateCalls    int32
	relationshipCalls int32
	inFlight          int32
	maxInFlight       int32
	mu                sync.Mutex
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		following:  map[string]IDSet{},
		followers:  map[string]IDSet{},
		users:      map[string]*UserSummary{},
		userErr:    map[string]error{},
		slowUsers:  map[string]bool{},
		comments:   map[string]int64{},
		commentErr: map[string]error{},
	}
}

func (f *fakeStore) sources() Sources {
	return Sources{Candidates: f, Relationships: f, Authors: f, Comments: f}
}

func (f *fakeStore) addUser(id string) {
	f.users[id] = &UserSummary{ID: id, DisplayName: "User " + id}
}

func (f *fakeStore) addPost(id, author string, views ...View) {
	f.posts = append(f.posts, Post{
		ID:        id,
		AuthorID:  author,
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Views:     views,
	})
}

func (f *fakeStore) ListNonDeletedPosts(ctx context.Context) ([]Post, error) {
	atomic.AddInt32(&f.candidateCalls, 1)
	if f.postsErr != nil {
		return nil, f.postsErr
	}
	out := make([]Post, len(f.posts))
	copy(out, f.posts)
	return out, nil
}

func (f *fakeStore) GetFollowing(ctx context.Context, userID string) (IDSet, error) {
	atomic.AddInt32(&f.relationshipCalls, 1)
	if f.relErr != nil {
		return nil, f.relErr
	}
	return f.following[userID], nil
}

func (f *fakeStore) GetFollowers(ctx context.Context, userID string) (IDSet, error) {
	atomic.AddInt32(&f.relationshipCalls, 1)
	if f.relErr != nil {
		return nil, f.relErr
	}
	return f.followers[userID], nil
}

func (f *fakeStore) GetUser(ctx context.Context, id string) (*UserSummary, error) {
	n := atomic.AddInt32(&f.inFlight, 1)
	defer atomic.AddInt32(&f.inFlight, -1)
	f.mu.Lock()
	if n > f.maxInFlight {
		f.maxInFlight = n
	}
	f.mu.Unlock()

	if f.slowUsers[id] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if err := f.userErr[id]; err != nil {
		return nil, err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) CountComments(ctx context.Context, postID string) (int64, error) {
	if err := f.commentErr[postID]; err != nil {
		return 0, err
	}
	return f.comments[postID], nil
}
