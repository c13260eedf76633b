package blogservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func NewBlogService(db *sql.DB, cache *common.Cache) *BlogService {
	return &BlogService{m: newBlogModel(db), c: cache}
}

// GetOrCreateBlog returns the user's blog, creating it on first access.
func (s *BlogService) GetOrCreateBlog(ctx context.Context, userID int) (*Blog, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if blog, ok := s.cachedBlog(userID); ok {
		return blog, nil
	}

	if err := s.m.insertBlogIfAbsent(ctx, userID); err != nil {
		if errors.Is(err, ErrUserForeignKey) {
			return nil, common.ErrRecordNotFound
		}
		return nil, err
	}

	// Read in a separate statement: when another request won the insert, its
	// row is only visible to a snapshot taken after the conflict resolved.
	blog, err := s.m.getBlogByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheBlog(blog)

	return blog, nil
}

// GetBlog returns the user's blog without creating one.
func (s *BlogService) GetBlog(ctx context.Context, userID int) (*Blog, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if blog, ok := s.cachedBlog(userID); ok {
		return blog, nil
	}

	blog, err := s.m.getBlogByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cacheBlog(blog)

	return blog, nil
}

// GetBlogByID returns a blog by its own id.
func (s *BlogService) GetBlogByID(ctx context.Context, id int) (*Blog, error) {
	v := common.NewValidator()
	v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getBlogByID(ctx, id)
}

type CreatePostRequest struct {
	BlogID int    `json:"blog_id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
}

// CreatePost stores a post together with its notification outbox entry. The
// notification itself is delivered later and never affects this call.
func (s *BlogService) CreatePost(ctx context.Context, req *CreatePostRequest) (*Post, error) {
	v := common.NewValidator()
	validateTitle(v, req.Title)
	validateText(v, req.Text)
	v.CheckID(req.BlogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	post := &Post{
		BlogID: req.BlogID,
		Title:  req.Title,
		Text:   req.Text,
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.StoreError(err)
	}

	err = s.m.insertPost(tx, ctx, post)
	if err != nil {
		if errors.Is(err, ErrBlogForeignKey) {
			err = common.ErrRecordNotFound
		}
		return nil, common.RollbackTx(tx, err)
	}

	err = s.m.insertOutbox(tx, ctx, post.ID)
	if err != nil {
		return nil, common.RollbackTx(tx, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.StoreError(err)
	}

	return post, nil
}

// GetPost returns a single post.
func (s *BlogService) GetPost(ctx context.Context, id int) (*Post, error) {
	v := common.NewValidator()
	v.CheckID(id, "id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.getPostByID(ctx, id)
}

// ListPostsForBlogs returns one page of posts from the given blogs, newest first.
func (s *BlogService) ListPostsForBlogs(ctx context.Context, blogIDs []int, page common.Page) ([]Post, common.Metadata, error) {
	v := common.NewValidator()
	v.CheckIDs(blogIDs, "blog_ids")
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	if len(blogIDs) == 0 {
		return []Post{}, common.Metadata{Page: page.Number, PageSize: page.Size}, nil
	}

	posts, err := s.m.listPosts(ctx, blogIDs, page.Limit()+1, page.Offset())
	if err != nil {
		return nil, common.Metadata{}, err
	}

	posts, md := common.Trim(page, posts)

	return posts, md, nil
}

// ListPostsForBlog is ListPostsForBlogs for a single blog.
func (s *BlogService) ListPostsForBlog(ctx context.Context, blogID int, page common.Page) ([]Post, common.Metadata, error) {
	return s.ListPostsForBlogs(ctx, []int{blogID}, page)
}

func (s *BlogService) cachedBlog(userID int) (*Blog, bool) {
	blog, ok := common.CacheGet[Blog](s.c, common.CacheKeyBlogByUserID(userID))
	if !ok {
		return nil, false
	}

	return &blog, true
}

func (s *BlogService) cacheBlog(blog *Blog) {
	if s.c != nil {
		s.c.Set(common.CacheKeyBlogByUserID(blog.UserID), *blog)
	}
}
