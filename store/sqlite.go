// Package store は、データの永続化機能を提供します。
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stsysd/niwa/db"
	"github.com/stsysd/niwa/model"
)

// SnapshotStore はキーごとのJSONスナップショットの保存と取得を行うインターフェースです。
type SnapshotStore interface {
	// LoadSnapshot は保存されているすべてのキーを取得します。
	LoadSnapshot(ctx context.Context) (map[string][]byte, error)
	// LoadKey は指定されたキーの値を取得します。
	LoadKey(ctx context.Context, key string) ([]byte, error)
	// SaveSnapshot はすべてのキーを一つのトランザクションで書き込みます。値がnilのキーは削除されます。
	SaveSnapshot(ctx context.Context, snapshot map[string][]byte) error
	// DeleteSnapshot は保存されているすべてのキーを削除します。
	DeleteSnapshot(ctx context.Context) error
	// Close はストアの接続を閉じます。
	Close() error
}

// SQLiteStore はSQLiteを使用したSnapshotStoreの実装です。
type SQLiteStore struct {
	conn    *sql.DB
	queries *db.Queries
	now     func() time.Time
}

// NewSQLiteStore は新しいSQLiteStoreを作成します。
func NewSQLiteStore(dataDir string, migrate func(*sql.DB) error) (*SQLiteStore, error) {
	// データディレクトリの作成（存在しない場合）
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	conn, err := Open(dataDir)
	if err != nil {
		return nil, err
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &SQLiteStore{
		conn:    conn,
		queries: db.New(conn),
		now:     time.Now,
	}, nil
}

// DBFile はデータディレクトリ内のデータベースファイル名です。
const DBFile = "niwa.db"

// Open はデータディレクトリ内のSQLiteデータベースに接続します。
func Open(dataDir string) (*sql.DB, error) {
	dbPath := filepath.Join(dataDir, DBFile)
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to SQLite database: %w", err)
	}
	return conn, nil
}

// LoadSnapshot は保存されているすべてのキーを取得します。
// 何も保存されていない場合はmodel.ErrSnapshotNotFoundを返します。
func (s *SQLiteStore) LoadSnapshot(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.queries.ListSnapshots(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	if len(rows) == 0 {
		return nil, model.ErrSnapshotNotFound
	}
	snapshot := make(map[string][]byte, len(rows))
	for _, row := range rows {
		snapshot[row.Key] = row.Value
	}
	return snapshot, nil
}

// LoadKey は指定されたキーの値を取得します。
func (s *SQLiteStore) LoadKey(ctx context.Context, key string) ([]byte, error) {
	row, err := s.queries.GetSnapshot(ctx, key)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get snapshot %s: %w", key, err)
	}
	return row.Value, nil
}

// SaveSnapshot はすべてのキーを一つのトランザクションで書き込みます。
func (s *SQLiteStore) SaveSnapshot(ctx context.Context, snapshot map[string][]byte) error {
	// トランザクションの開始
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	// トランザクションをロールバックするための遅延関数
	defer func() {
		if tx != nil {
			tx.Rollback() // 成功した場合は既にnilになっているためエラーは無視
		}
	}()

	queriesWithTx := s.queries.WithTx(tx)
	updatedAt := s.now().UTC().Format(time.RFC3339)

	for key, value := range snapshot {
		if value == nil {
			if _, err := queriesWithTx.DeleteSnapshot(ctx, key); err != nil {
				return fmt.Errorf("failed to delete snapshot %s: %w", key, err)
			}
			continue
		}
		err = queriesWithTx.UpsertSnapshot(ctx, db.UpsertSnapshotParams{
			Key:       key,
			Value:     value,
			UpdatedAt: updatedAt,
		})
		if err != nil {
			return fmt.Errorf("failed to save snapshot %s: %w", key, err)
		}
	}

	// トランザクションのコミット
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	tx = nil // コミットが成功したのでnilにして遅延関数でのロールバックを防ぐ

	return nil
}

// DeleteSnapshot は保存されているすべてのキーを削除します。
func (s *SQLiteStore) DeleteSnapshot(ctx context.Context) error {
	result, err := s.queries.DeleteAllSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete snapshots: %w", err)
	}

	// 削除された行数を確認
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return model.ErrSnapshotNotFound
	}
	return nil
}

// Close はデータベース接続を閉じます。
func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

var _ SnapshotStore = (*SQLiteStore)(nil)
