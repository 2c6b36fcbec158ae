package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Skotchmaster/tossplace/pkg/errs"
)

//go:embed schema.sql
var schemaSQL string

// Store owns the single SQLite connection. Repositories get a handle
// through Conn and never keep it past one call.
type Store struct {
	mu   sync.RWMutex
	db   *gorm.DB
	path string
	log  *zap.SugaredLogger
}

func New(log *zap.SugaredLogger) *Store {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Store{log: log}
}

// One connection: SQLite allows a single writer, and the foreign_keys
// pragma is per connection.
func configurePool(sqlDB *sql.DB) {
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)
}

func (s *Store) Open(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	if path == "" {
		return fmt.Errorf("%w: database path is empty", errs.ErrConnection)
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return fmt.Errorf("%w: open %s: %v", errs.ErrConnection, path, err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return fmt.Errorf("%w: get sql.DB: %v", errs.ErrConnection, err)
	}
	configurePool(sqlDB)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: ping %s: %v", errs.ErrConnection, path, err)
	}

	if err := gdb.WithContext(ctx).Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: enable foreign keys: %v", errs.ErrConnection, err)
	}

	if err := checkWritable(ctx, gdb); err != nil {
		_ = sqlDB.Close()
		return fmt.Errorf("%w: %s is not writable: %v", errs.ErrConnection, path, err)
	}

	s.db = gdb
	s.path = path
	s.log.Infow("database opened", "path", path)
	return nil
}

// checkWritable rewrites user_version with its current value, which
// forces SQLite to take a write lock on the file.
func checkWritable(ctx context.Context, gdb *gorm.DB) error {
	var version int
	if err := gdb.WithContext(ctx).Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return err
	}
	return gdb.WithContext(ctx).Exec(fmt.Sprintf("PRAGMA user_version = %d", version)).Error
}

func (s *Store) ApplySchema(ctx context.Context) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}

	for i, stmt := range schemaStatements() {
		if err := conn.Exec(stmt).Error; err != nil {
			s.log.Errorw("schema_error", "statement", i+1, "error", err)
			return fmt.Errorf("%w: statement %d: %v", errs.ErrSchema, i+1, err)
		}
	}

	s.log.Infow("schema applied", "path", s.Path())
	return nil
}

func schemaStatements() []string {
	parts := strings.Split(schemaSQL, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (s *Store) IsConnected() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}

func (s *Store) Path() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.path
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	s.db = nil
	if err != nil {
		return err
	}
	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	s.log.Infow("database closed", "path", s.path)
	return nil
}

// Conn returns the gorm handle bound to ctx.
func (s *Store) Conn(ctx context.Context) (*gorm.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.db == nil {
		return nil, errs.ErrNotConnected
	}
	return s.db.WithContext(ctx), nil
}

func (s *Store) Exec(ctx context.Context, stmt string, args ...any) (int64, error) {
	conn, err := s.Conn(ctx)
	if err != nil {
		return 0, err
	}
	res := conn.Exec(stmt, args...)
	return res.RowsAffected, res.Error
}

func (s *Store) Query(ctx context.Context, dest any, stmt string, args ...any) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Raw(stmt, args...).Scan(dest).Error
}

// Transaction runs fn inside one transaction. fn must only use tx: the
// pool has a single connection and tx is holding it.
func (s *Store) Transaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	conn, err := s.Conn(ctx)
	if err != nil {
		return err
	}
	return conn.Transaction(fn)
}

func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated) || strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
