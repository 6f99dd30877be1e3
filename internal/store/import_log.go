package store

import (
	"database/sql"
	"fmt"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// 导入状态
const (
	ImportProcessing = "processing"
	ImportSuccess    = "success"
	ImportFailed     = "failed"
)

// CreateImportLog 创建导入日志，返回 id
func (s *Store) CreateImportLog(filename, sourceKind string, fileSize int64, fileHash string) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, source_kind, file_size, file_hash, status)
		VALUES (?, ?, ?, ?, ?)
	`, filename, sourceKind, fileSize, fileHash, ImportProcessing)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog 导入成功
func (s *Store) CompleteImportLog(id int64, ds *model.Dataset) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			dataset_id = ?,
			file_hash = ?,
			row_count = ?,
			column_count = ?,
			status = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ds.ID, ds.Hash, ds.Table.Len(), len(ds.Table.Columns), ImportSuccess, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// FailImportLog 导入失败
func (s *Store) FailImportLog(id int64, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, ImportFailed, msg, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// ListImportLogs 最近的导入日志（按时间倒序）
func (s *Store) ListImportLogs(limit int) ([]model.ImportLog, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.Query(`
		SELECT id, dataset_id, filename, source_kind, file_size, file_hash,
		       row_count, column_count, status, error_message, created_at, completed_at
		FROM import_logs
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query import logs failed: %w", err)
	}
	defer rows.Close()

	out := make([]model.ImportLog, 0)
	for rows.Next() {
		var it model.ImportLog
		var completed sql.NullTime
		if err := rows.Scan(&it.ID, &it.DatasetID, &it.Filename, &it.SourceKind, &it.FileSize, &it.FileHash,
			&it.RowCount, &it.ColumnCount, &it.Status, &it.ErrorMessage, &it.CreatedAt, &completed); err != nil {
			return nil, fmt.Errorf("scan import log failed: %w", err)
		}
		if completed.Valid {
			t := completed.Time
			it.CompletedAt = &t
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate import logs failed: %w", err)
	}
	return out, nil
}
