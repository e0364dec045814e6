package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"portfolio-content-api/internal/database"
)

// SQLStore keeps sessions in the admin_sessions table of a postgres, sqlite or
// libsql database.
type SQLStore struct {
	db *database.DB
}

// OpenSQLStore connects, runs the embedded migrations and returns the store.
func OpenSQLStore(ctx context.Context, dialect, dsn string, logger *slog.Logger) (*SQLStore, error) {
	db, err := database.Open(ctx, dialect, dsn)
	if err != nil {
		return nil, err
	}
	if err := database.NewMigrator(db, logger).Run(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate session store: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Save(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(database.UpsertSessionQuery),
		sess.ID, sess.AdminAuthenticated, sess.LoginTime.Unix(), sess.ExpiresAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Session, error) {
	var (
		sess             Session
		login, expiresAt int64
	)
	err := s.db.QueryRowContext(ctx, s.db.Rebind(database.GetSessionQuery), id).
		Scan(&sess.ID, &sess.AdminAuthenticated, &login, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	sess.LoginTime = time.Unix(login, 0).UTC()
	sess.ExpiresAt = time.Unix(expiresAt, 0).UTC()
	return sess, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.db.Rebind(database.DeleteSessionQuery), id)
	return err
}

func (s *SQLStore) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	res, err := s.db.ExecContext(ctx, s.db.Rebind(database.PurgeExpiredSessionQuery), now.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to purge sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, nil
	}
	return int(n), nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
