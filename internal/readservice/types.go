package readservice

import "database/sql"

// ReadState is the outcome of a toggle. It is derived from whether the marker row exists.
type ReadState string

const (
	StateRead   ReadState = "read"
	StateUnread ReadState = "unread"
)

type ReadModel struct {
	db *sql.DB
}

type ReadService struct {
	m *ReadModel
}
