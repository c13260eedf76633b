package subscriptionservice

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sushihentaime/blogfeed/internal/common"
	"github.com/sushihentaime/blogfeed/internal/readservice"
)

type failingPurger struct{}

func (failingPurger) PurgeForBlog(ctx context.Context, tx *sql.Tx, userID, blogID int) (int64, error) {
	return 0, errors.New("purge failed")
}

func setupTestEnvironment(t *testing.T) (*SubscriptionService, *readservice.ReadService, *sql.DB) {
	db := common.TestDB("file://../../migrations", t)
	reads := readservice.NewReadService(db)

	return NewSubscriptionService(db, reads), reads, db
}

func countSubscriptions(t *testing.T, db *sql.DB, userID, blogID int) int {
	t.Helper()

	var n int
	err := db.QueryRow("SELECT COUNT(*) FROM subscriptions WHERE user_id = $1 AND blog_id = $2", userID, blogID).Scan(&n)
	require.NoError(t, err)

	return n
}

func TestToggleSubscriptionScenario(t *testing.T) {
	s, reads, db := setupTestEnvironment(t)
	ctx := context.Background()

	a := common.TestUser(t, db, "alice")
	b := common.TestUser(t, db, "bob")
	blogA := common.TestBlog(t, db, a)

	state, err := s.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)
	assert.Equal(t, StateSubscribed, state)

	emails, err := s.ListSubscriberEmails(ctx, blogA)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@example.com"}, emails)

	p1 := common.TestPost(t, db, blogA, "P1")

	readState, err := reads.ToggleRead(ctx, b, p1)
	require.NoError(t, err)
	assert.Equal(t, readservice.StateRead, readState)

	read, err := reads.ListReadPosts(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int{p1}, read)

	state, err = s.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)
	assert.Equal(t, StateUnsubscribed, state)

	read, err = reads.ListReadPosts(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, read)

	followed, err := s.ListFollowedBlogs(ctx, b)
	require.NoError(t, err)
	assert.Empty(t, followed)
}

func TestToggleSubscriptionIsItsOwnInverse(t *testing.T) {
	s, _, db := setupTestEnvironment(t)
	ctx := context.Background()

	a := common.TestUser(t, db, "alice")
	c := common.TestUser(t, db, "carol")
	b := common.TestUser(t, db, "bob")
	blogA := common.TestBlog(t, db, a)
	blogC := common.TestBlog(t, db, c)

	_, err := s.ToggleSubscription(ctx, b, blogC)
	require.NoError(t, err)

	before, err := s.ListFollowedBlogs(ctx, b)
	require.NoError(t, err)

	first, err := s.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)
	second, err := s.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)

	assert.Equal(t, StateSubscribed, first)
	assert.Equal(t, StateUnsubscribed, second)

	after, err := s.ListFollowedBlogs(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, []int{blogC}, after)
}

func TestUnsubscribeKeepsMarkersOfOtherBlogs(t *testing.T) {
	s, reads, db := setupTestEnvironment(t)
	ctx := context.Background()

	a := common.TestUser(t, db, "alice")
	c := common.TestUser(t, db, "carol")
	b := common.TestUser(t, db, "bob")
	blogA := common.TestBlog(t, db, a)
	blogC := common.TestBlog(t, db, c)
	pa := common.TestPost(t, db, blogA, "from alice")
	pc := common.TestPost(t, db, blogC, "from carol")

	for _, blogID := range []int{blogA, blogC} {
		_, err := s.ToggleSubscription(ctx, b, blogID)
		require.NoError(t, err)
	}
	for _, postID := range []int{pa, pc} {
		_, err := reads.ToggleRead(ctx, b, postID)
		require.NoError(t, err)
	}

	state, err := s.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)
	assert.Equal(t, StateUnsubscribed, state)

	read, err := reads.ListReadPosts(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int{pc}, read)
}

func TestUnsubscribeRollsBackWhenPurgeFails(t *testing.T) {
	db := common.TestDB("file://../../migrations", t)
	reads := readservice.NewReadService(db)
	ok := NewSubscriptionService(db, reads)
	broken := NewSubscriptionService(db, failingPurger{})
	ctx := context.Background()

	a := common.TestUser(t, db, "alice")
	b := common.TestUser(t, db, "bob")
	blogA := common.TestBlog(t, db, a)
	p1 := common.TestPost(t, db, blogA, "P1")

	_, err := ok.ToggleSubscription(ctx, b, blogA)
	require.NoError(t, err)
	_, err = reads.ToggleRead(ctx, b, p1)
	require.NoError(t, err)

	_, err = broken.ToggleSubscription(ctx, b, blogA)
	assert.EqualError(t, err, "purge failed")

	assert.Equal(t, 1, countSubscriptions(t, db, b, blogA))
	read, err := reads.ListReadPosts(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, []int{p1}, read)
}

func TestToggleSubscriptionErrors(t *testing.T) {
	s, _, db := setupTestEnvironment(t)
	ctx := context.Background()

	b := common.TestUser(t, db, "bob")

	testCases := []struct {
		name        string
		userID      int
		blogID      int
		expectedErr error
	}{
		{name: "unknown blog", userID: b, blogID: 999, expectedErr: common.ErrRecordNotFound},
		{name: "invalid blog", userID: b, blogID: 0, expectedErr: common.ValidationError{Errors: map[string]string{"blog_id": "must be greater than zero"}}},
		{name: "invalid user", userID: -1, blogID: 1, expectedErr: common.ValidationError{Errors: map[string]string{"user_id": "must be greater than zero"}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			state, err := s.ToggleSubscription(ctx, tc.userID, tc.blogID)
			assert.Equal(t, tc.expectedErr, err)
			assert.Empty(t, state)
		})
	}
}

func TestToggleSubscriptionConcurrent(t *testing.T) {
	s, _, db := setupTestEnvironment(t)

	a := common.TestUser(t, db, "alice")
	b := common.TestUser(t, db, "bob")
	blogA := common.TestBlog(t, db, a)

	const workers = 8
	states := make([]SubscriptionState, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			states[i], errs[i] = s.ToggleSubscription(context.Background(), b, blogA)
		}(i)
	}
	wg.Wait()

	subscribed := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if states[i] == StateSubscribed {
			subscribed++
		}
	}

	// every unsubscribe removed an edge some subscribe created; a subscribe
	// that lost its insert race created nothing
	unsubscribed := workers - subscribed
	n := countSubscriptions(t, db, b, blogA)
	assert.LessOrEqual(t, n, 1)
	assert.LessOrEqual(t, unsubscribed, subscribed)
	assert.LessOrEqual(t, n, subscribed-unsubscribed)
}

func TestListBloggers(t *testing.T) {
	s, _, db := setupTestEnvironment(t)
	ctx := context.Background()

	viewer := common.TestUser(t, db, "viewer")
	common.TestBlog(t, db, viewer)
	alice := common.TestUser(t, db, "alice")
	blogA := common.TestBlog(t, db, alice)
	bob := common.TestUser(t, db, "bob")
	blogB := common.TestBlog(t, db, bob)
	// users without a blog are not listed
	common.TestUser(t, db, "lurker")

	_, err := s.ToggleSubscription(ctx, viewer, blogB)
	require.NoError(t, err)

	page, err := common.NewPage(1, 10)
	require.NoError(t, err)

	bloggers, md, err := s.ListBloggers(ctx, viewer, page)
	require.NoError(t, err)
	assert.False(t, md.HasNext)
	assert.Equal(t, []Blogger{
		{BlogID: blogA, UserID: alice, Username: "alice", Subscribed: false},
		{BlogID: blogB, UserID: bob, Username: "bob", Subscribed: true},
	}, bloggers)

	small, err := common.NewPage(1, 1)
	require.NoError(t, err)
	bloggers, md, err = s.ListBloggers(ctx, viewer, small)
	require.NoError(t, err)
	assert.Len(t, bloggers, 1)
	assert.True(t, md.HasNext)

	subscribed, err := s.IsSubscribed(ctx, viewer, blogB)
	require.NoError(t, err)
	assert.True(t, subscribed)
}
