package common

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRabbitMQ(t *testing.T) string {
	ctx := context.Background()

	container, err := rabbitmq.Run(ctx, "rabbitmq:3.12.11-management-alpine", rabbitmq.WithAdminUsername("guest"), rabbitmq.WithAdminPassword("guest"))
	if err != nil {
		t.Fatalf("could not start rabbitmq container: %v", err)
	}

	connURL, err := container.AmqpURL(ctx)
	if err != nil {
		t.Fatalf("could not get rabbitmq connection URL: %v", err)
	}

	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Fatalf("could not terminate container: %v", err)
		}
	})

	return connURL
}

// TestDB starts a throwaway postgres container and migrates it. source is
// relative to the caller, e.g. "file://../../migrations".
func TestDB(source string, t *testing.T) *sql.DB {
	ctx := context.Background()

	c, err := postgres.Run(ctx,
		"docker.io/postgres:14.11-bookworm",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(30*time.Second)))
	if err != nil {
		t.Fatalf("could not start postgres container: %v", err)
	}

	connURL, err := c.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %s", err)
	}

	m, err := MigrateUp(source, connURL)
	if err != nil {
		t.Fatalf("could not run migrations: %v", err)
	}

	db, err := sql.Open("postgres", connURL)
	if err != nil {
		t.Fatalf("could not open database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
		m.Drop()
		c.Terminate(ctx)
	})

	return db
}

// TestUser inserts a bare user row and returns its id.
func TestUser(t *testing.T, db *sql.DB, username string) int {
	t.Helper()

	var id int
	err := db.QueryRow("INSERT INTO users (username, email, password) VALUES ($1, $2, $3) RETURNING id",
		username, username+"@example.com", []byte("not-a-real-hash")).Scan(&id)
	if err != nil {
		t.Fatalf("could not insert test user: %v", err)
	}

	return id
}

// TestBlog inserts the blog of userID and returns its id.
func TestBlog(t *testing.T, db *sql.DB, userID int) int {
	t.Helper()

	var id int
	err := db.QueryRow("INSERT INTO blogs (user_id) VALUES ($1) RETURNING id", userID).Scan(&id)
	if err != nil {
		t.Fatalf("could not insert test blog: %v", err)
	}

	return id
}

// TestPost inserts a post into blogID and returns its id.
func TestPost(t *testing.T, db *sql.DB, blogID int, title string) int {
	t.Helper()

	var id int
	err := db.QueryRow("INSERT INTO posts (blog_id, title, text) VALUES ($1, $2, $3) RETURNING id", blogID, title, "text of "+title).Scan(&id)
	if err != nil {
		t.Fatalf("could not insert test post: %v", err)
	}

	return id
}
