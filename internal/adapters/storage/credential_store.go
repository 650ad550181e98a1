package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"missionctl/internal/domain"
	"missionctl/internal/logging"
	"missionctl/internal/ports"
)

// MemoryTokenStore is the volatile tier: the access token lives in process
// memory only and disappears when the process exits, matching the
// tab-scoped store of the original system.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

var _ ports.AccessTokenStore = (*MemoryTokenStore)(nil)

// NewMemoryTokenStore creates an empty volatile token store
func NewMemoryTokenStore() *MemoryTokenStore {
	return &MemoryTokenStore{}
}

func (s *MemoryTokenStore) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryTokenStore) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryTokenStore) ClearAccessToken() {
	s.SetAccessToken("")
}

// SQLiteCredentialStore implements ports.CredentialStore using GORM
type SQLiteCredentialStore struct {
	db *gorm.DB
}

// Verify interface compliance at compile time
var _ ports.CredentialStore = (*SQLiteCredentialStore)(nil)

// gormLogger wraps the application logger for GORM
type gormLogger struct {
	level logger.LogLevel
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return &gormLogger{level: level}
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		logging.Logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		logging.Logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		logging.Logger.Error(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level < logger.Info {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logging.Logger.Error("gorm query error",
			"error", err, "duration", elapsed, "sql", sql, "rows", rows)
	} else {
		logging.Logger.Debug("gorm query",
			"duration", elapsed, "sql", sql, "rows", rows)
	}
}

func newGormLogger() logger.Interface {
	if os.Getenv("MISSIONCTL_DEBUG") == "1" {
		return (&gormLogger{}).LogMode(logger.Info)
	}
	return (&gormLogger{}).LogMode(logger.Silent)
}

// NewSQLiteCredentialStore opens (and migrates) the credential database
func NewSQLiteCredentialStore(dbPath string) (*SQLiteCredentialStore, error) {
	// Expand home directory if present
	if len(dbPath) > 0 && dbPath[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(homeDir, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		NowFunc: func() time.Time { return time.Now().UTC() },
		Logger:  newGormLogger(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent access (TUI + serve command sharing the db)
	if err := db.Exec("PRAGMA journal_mode=WAL").Error; err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if err := db.AutoMigrate(&CredentialModel{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &SQLiteCredentialStore{db: db}, nil
}

// Save stores the refresh token and identity, overwriting any previous row
func (s *SQLiteCredentialStore) Save(ctx context.Context, refreshToken string, user *domain.UserInfo) error {
	model := CredentialModel{
		ID:           credentialRowID,
		RefreshToken: refreshToken,
	}
	if user != nil {
		model.UserID = user.ID
		model.Login = user.Login
		model.Role = user.Role
		model.DirectionID = user.DirectionID
		model.DirectionNom = user.DirectionNom
	}
	if err := s.db.WithContext(ctx).Save(&model).Error; err != nil {
		if isBusy(err) {
			return fmt.Errorf("credential database is locked by another missionctl process: %w", err)
		}
		return fmt.Errorf("failed to save credentials: %w", err)
	}
	return nil
}

// isBusy reports whether the error is an SQLite lock contention error
func isBusy(err error) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	return sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked
}

// Load returns the stored refresh token and identity. An empty store
// returns empty values without error.
func (s *SQLiteCredentialStore) Load(ctx context.Context) (string, *domain.UserInfo, error) {
	var model CredentialModel
	err := s.db.WithContext(ctx).First(&model, credentialRowID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil, nil
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to load credentials: %w", err)
	}
	if model.RefreshToken == "" {
		return "", nil, nil
	}
	user := &domain.UserInfo{
		ID:           model.UserID,
		Login:        model.Login,
		Role:         model.Role,
		DirectionID:  model.DirectionID,
		DirectionNom: model.DirectionNom,
	}
	return model.RefreshToken, user, nil
}

// Clear removes the stored credentials. Clearing an empty store succeeds.
func (s *SQLiteCredentialStore) Clear(ctx context.Context) error {
	err := s.db.WithContext(ctx).Delete(&CredentialModel{}, credentialRowID).Error
	if err != nil {
		return fmt.Errorf("failed to clear credentials: %w", err)
	}
	return nil
}

// Close closes the underlying database connection
func (s *SQLiteCredentialStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
