package feedservice

import (
	"context"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func NewFeedService(follows FollowedBlogLister, posts PostLister, reads ReadLister) *FeedService {
	return &FeedService{
		follows: follows,
		posts:   posts,
		reads:   reads,
	}
}

// BuildNewsFeed returns one page of posts from the blogs the user follows,
// newest first, each marked with whether the user has read it.
func (s *FeedService) BuildNewsFeed(ctx context.Context, userID int, page common.Page) ([]FeedItem, common.Metadata, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	blogIDs, err := s.follows.ListFollowedBlogs(ctx, userID)
	if err != nil {
		return nil, common.Metadata{}, err
	}

	posts, md, err := s.posts.ListPostsForBlogs(ctx, blogIDs, page)
	if err != nil {
		return nil, common.Metadata{}, err
	}

	items := make([]FeedItem, len(posts))
	if len(posts) == 0 {
		return items, md, nil
	}

	postIDs := make([]int, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	read, err := s.reads.ListReadAmong(ctx, userID, postIDs)
	if err != nil {
		return nil, common.Metadata{}, err
	}

	for i, p := range posts {
		items[i] = FeedItem{Post: p, IsRead: read[p.ID]}
	}

	return items, md, nil
}

// BuildPersonalBlog returns the user's own blog, created on first access, with
// one page of its posts.
func (s *FeedService) BuildPersonalBlog(ctx context.Context, userID int, page common.Page) (*PersonalBlog, common.Metadata, error) {
	blog, err := s.posts.GetOrCreateBlog(ctx, userID)
	if err != nil {
		return nil, common.Metadata{}, err
	}

	posts, md, err := s.posts.ListPostsForBlog(ctx, blog.ID, page)
	if err != nil {
		return nil, common.Metadata{}, err
	}

	return &PersonalBlog{Blog: blog, Posts: posts}, md, nil
}
