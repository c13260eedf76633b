package feedservice

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/sushihentaime/blogfeed/internal/blogservice"
	"github.com/sushihentaime/blogfeed/internal/common"
)

type MockFollows struct {
	mock.Mock
}

func (m *MockFollows) ListFollowedBlogs(ctx context.Context, userID int) ([]int, error) {
	args := m.Called(ctx, userID)
	ids, _ := args.Get(0).([]int)
	return ids, args.Error(1)
}

type MockPosts struct {
	mock.Mock
}

func (m *MockPosts) GetOrCreateBlog(ctx context.Context, userID int) (*blogservice.Blog, error) {
	args := m.Called(ctx, userID)
	blog, _ := args.Get(0).(*blogservice.Blog)
	return blog, args.Error(1)
}

func (m *MockPosts) ListPostsForBlogs(ctx context.Context, blogIDs []int, page common.Page) ([]blogservice.Post, common.Metadata, error) {
	args := m.Called(ctx, blogIDs, page)
	posts, _ := args.Get(0).([]blogservice.Post)
	return posts, args.Get(1).(common.Metadata), args.Error(2)
}

func (m *MockPosts) ListPostsForBlog(ctx context.Context, blogID int, page common.Page) ([]blogservice.Post, common.Metadata, error) {
	args := m.Called(ctx, blogID, page)
	posts, _ := args.Get(0).([]blogservice.Post)
	return posts, args.Get(1).(common.Metadata), args.Error(2)
}

type MockReads struct {
	mock.Mock
}

func (m *MockReads) ListReadAmong(ctx context.Context, userID int, postIDs []int) (map[int]bool, error) {
	args := m.Called(ctx, userID, postIDs)
	read, _ := args.Get(0).(map[int]bool)
	return read, args.Error(1)
}
