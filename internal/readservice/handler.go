package readservice

import (
	"context"
	"database/sql"
	"errors"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func NewReadService(db *sql.DB) *ReadService {
	return &ReadService{m: newReadModel(db)}
}

// ListReadPosts returns the ids of every post the user has marked read, ascending.
func (s *ReadService) ListReadPosts(ctx context.Context, userID int) ([]int, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	return s.m.listReadPosts(ctx, userID)
}

// ListReadAmong reports which of postIDs the user has marked read.
func (s *ReadService) ListReadAmong(ctx context.Context, userID int, postIDs []int) (map[int]bool, error) {
	read := make(map[int]bool, len(postIDs))
	if len(postIDs) == 0 {
		return read, nil
	}

	ids, err := s.m.listReadAmong(ctx, userID, postIDs)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		read[id] = true
	}

	return read, nil
}

// ToggleRead marks the post read when no marker exists and unread otherwise.
// Being subscribed to the post's blog is not required.
func (s *ReadService) ToggleRead(ctx context.Context, userID, postID int) (ReadState, error) {
	v := common.NewValidator()
	v.CheckID(userID, "user_id")
	v.CheckID(postID, "post_id")
	if !v.Valid() {
		return "", v.ValidationError()
	}

	tx, err := s.m.db.BeginTx(ctx, nil)
	if err != nil {
		return "", common.StoreError(err)
	}

	deleted, err := s.m.deleteMarker(tx, ctx, userID, postID)
	if err != nil {
		return "", common.RollbackTx(tx, err)
	}

	state := StateUnread
	if !deleted {
		// A conflicting concurrent insert leaves the marker in place, which is
		// the state this toggle asked for, so both outcomes report read.
		_, err = s.m.insertMarker(tx, ctx, userID, postID)
		if err != nil {
			if errors.Is(err, ErrPostForeignKey) {
				err = common.ErrRecordNotFound
			}
			return "", common.RollbackTx(tx, err)
		}
		state = StateRead
	}

	if err := tx.Commit(); err != nil {
		return "", common.StoreError(err)
	}

	return state, nil
}

// PurgeForBlog removes the user's markers on posts of blogID. It runs on the
// caller's transaction and is meant for the unsubscribe transition only.
func (s *ReadService) PurgeForBlog(ctx context.Context, tx *sql.Tx, userID, blogID int) (int64, error) {
	return s.m.purgeForBlog(tx, ctx, userID, blogID)
}
