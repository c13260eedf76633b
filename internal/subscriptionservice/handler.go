package subscriptionservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func NewSubscriptionService(db *sql.DB, purger ReadMarkerPurger) *SubscriptionService {
	return &SubscriptionService{
		m:      newSubscriptionModel(db),
		purger: purger,
	}
}

// ListFollowedBlogs returns the ids of the blogs the user subscribes to, ascending.
func (s *SubscriptionService) ListFollowedBlogs(ctx context.Context, userID int) ([]int, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listFollowedBlogs(ctx, userID)
}

// ListSubscriberEmails returns the emails of the blog's subscribers in no particular order.
func (s *SubscriptionService) ListSubscriberEmails(ctx context.Context, blogID int) ([]string, error) {
	v := common.NewValidator()
	v.CheckID(blogID, "blog_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listSubscriberEmails(ctx, blogID)
}

// IsSubscribed reports whether the edge (userID, blogID) exists.
func (s *SubscriptionService) IsSubscribed(ctx context.Context, userID, blogID int) (bool, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	v.CheckID(blogID, "blog_id")
	if !v.Valid() {
		return false, v.ValidationError()
	}

	return s.m.exists(ctx, userID, blogID)
}

// ToggleSubscription removes the edge when it exists and creates it otherwise.
// Removing the edge also removes the user's read markers on the blog's posts,
// in the same transaction.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, userID, blogID int) (SubscriptionState, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	v.CheckID(blogID, "blog_id")
	if !v.Valid() {
		return "", v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", common.StoreError(err)
	}

	deleted, err := s.m.deleteSubscription(tx, ctx, userID, blogID)
	if err != nil {
		return "", common.RollbackTx(tx, err)
	}

	var state SubscriptionState
	if deleted {
		if _, err := s.purger.PurgeForBlog(ctx, tx, userID, blogID); err != nil {
			return "", common.RollbackTx(tx, err)
		}
		state = StateUnsubscribed
	} else {
		// Losing an insert race to a concurrent toggle still leaves the edge in
		// place, so the outcome is subscribed either way.
		if _, err := s.m.insertSubscription(tx, ctx, userID, blogID); err != nil {
			if errors.Is(err, ErrBlogForeignKey) {
				err = common.ErrRecordNotFound
			}
			return "", common.RollbackTx(tx, err)
		}
		state = StateSubscribed
	}

	if err := tx.Commit(); err != nil {
		return "", common.StoreError(err)
	}

	return state, nil
}

// ListBloggers lists the blogs the viewer could follow together with the current subscription flag.
func (s *SubscriptionService) ListBloggers(ctx context.Context, viewerID int, page common.Page) ([]Blogger, common.Metadata, error) {
	v := common.NewValidator()
	v.CheckID(viewerID, "user_id")
	if !v.Valid() {
		return nil, common.Metadata{}, v.ValidationError()
	}

	bloggers, err := s.m.listBloggers(ctx, viewerID, page.Limit()+1, page.Offset())
	if err != nil {
		return nil, common.Metadata{}, err
	}

	bloggers, md := common.Trim(page, bloggers)

	return bloggers, md, nil
}
