package model

import "time"

// SourceKind 数据来源
type SourceKind string

const (
	SourceUpload  SourceKind = "upload"
	SourceDefault SourceKind = "file"
)

// Dataset 已加载的数据集
type Dataset struct {
	ID       string     `json:"id"`
	Identity string     `json:"-"`
	Name     string     `json:"name"`
	Kind     SourceKind `json:"kind"`
	Size     int64      `json:"size"`
	Hash     string     `json:"hash,omitempty"`
	LoadedAt time.Time  `json:"loadedAt"`
	Table    *Table     `json:"-"`
}

// ImportLog 导入日志
type ImportLog struct {
	ID           int64      `json:"id"`
	DatasetID    string     `json:"datasetId"`
	Filename     string     `json:"filename"`
	SourceKind   string     `json:"sourceKind"`
	FileSize     int64      `json:"fileSize"`
	FileHash     string     `json:"fileHash"`
	RowCount     int        `json:"rowCount"`
	ColumnCount  int        `json:"columnCount"`
	Status       string     `json:"status"`
	ErrorMessage string     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	CompletedAt  *time.Time `json:"completedAt,omitempty"`
}
