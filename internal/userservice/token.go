package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"

	"github.com/sushihentaime/blogfeed/internal/common"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newAuthToken(userID int, ttl time.Duration) (*AuthToken, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &AuthToken{
		AccessToken: base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID:      userID,
		Expiry:      time.Now().Add(ttl),
	}
	token.Hash = hashToken(token.AccessToken)

	return token, nil
}

func (m *DBModel) insertToken(ctx context.Context, token *AuthToken) error {
	query := `
		INSERT INTO tokens (hash, user_id, expiry)
		VALUES ($1, $2, $3)`

	_, err := m.db.ExecContext(ctx, query, token.Hash, token.UserID, token.Expiry)
	return common.StoreError(err)
}

func (m *DBModel) getUserByToken(ctx context.Context, hash []byte) (*User, error) {
	query := `
		SELECT u.id, u.username, u.email, u.created_at
		FROM users u
		INNER JOIN tokens t ON u.id = t.user_id
		WHERE t.hash = $1 AND t.expiry > $2`

	var u User

	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&u.ID, &u.Username, &u.Email, &u.CreatedAt)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, common.ErrRecordNotFound
		default:
			return nil, common.StoreError(err)
		}
	}

	return &u, nil
}

// deleteTokens removes every token for the user and returns their hashes so cached lookups can be evicted.
func (m *DBModel) deleteTokens(ctx context.Context, userID int) ([][]byte, error) {
	query := `
		DELETE FROM tokens
		WHERE user_id = $1
		RETURNING hash`

	rows, err := m.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, common.StoreError(err)
	}
	defer rows.Close()

	var hashes [][]byte
	for rows.Next() {
		var h []byte
		if err := rows.Scan(&h); err != nil {
			return nil, err
		}
		hashes = append(hashes, h)
	}

	if err := rows.Err(); err != nil {
		return nil, common.StoreError(err)
	}

	return hashes, nil
}
