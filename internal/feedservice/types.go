package feedservice

import (
	"context"

	"github.com/sushihentaime/blogfeed/internal/blogservice"
	"github.com/sushihentaime/blogfeed/internal/common"
)

type FollowedBlogLister interface {
	ListFollowedBlogs(ctx context.Context, userID int) ([]int, error)
}

type PostLister interface {
	GetOrCreateBlog(ctx context.Context, userID int) (*blogservice.Blog, error)
	ListPostsForBlogs(ctx context.Context, blogIDs []int, page common.Page) ([]blogservice.Post, common.Metadata, error)
	ListPostsForBlog(ctx context.Context, blogID int, page common.Page) ([]blogservice.Post, common.Metadata, error)
}

type ReadLister interface {
	ListReadAmong(ctx context.Context, userID int, postIDs []int) (map[int]bool, error)
}

// FeedItem is a post as seen by one reader.
type FeedItem struct {
	blogservice.Post
	IsRead bool `json:"is_read"`
}

// PersonalBlog is the author's own blog with one page of its posts.
type PersonalBlog struct {
	Blog  *blogservice.Blog  `json:"blog"`
	Posts []blogservice.Post `json:"posts"`
}

type FeedService struct {
	follows FollowedBlogLister
	posts   PostLister
	reads   ReadLister
}
