package excel

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// Source 数据来源：上传文件（内存）或本地文件路径
type Source struct {
	Name string
	Kind model.SourceKind

	// 本地文件
	Path    string
	Size    int64
	ModTime time.Time

	// 上传内容
	Data []byte

	hash string
}

// UploadSource 以上传内容构造数据源
func UploadSource(name string, data []byte) *Source {
	return &Source{
		Name: name,
		Kind: model.SourceUpload,
		Size: int64(len(data)),
		Data: data,
	}
}

// FileSource 以本地路径构造数据源，文件不存在时返回 os.ErrNotExist
func FileSource(path string) (*Source, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", abs)
	}
	return &Source{
		Name:    filepath.Base(abs),
		Kind:    model.SourceDefault,
		Path:    abs,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	}, nil
}

// Identity 缓存键：文件按路径+大小+修改时间，上传按内容摘要
func (s *Source) Identity() string {
	if s.Path != "" {
		return fmt.Sprintf("file:%s:%d:%d", s.Path, s.Size, s.ModTime.UnixNano())
	}
	return "upload:" + s.Hash()
}

// Hash 内容 sha256（本地文件在读取后才可用）
func (s *Source) Hash() string {
	if s.hash == "" && s.Data != nil {
		sum := sha256.Sum256(s.Data)
		s.hash = hex.EncodeToString(sum[:])
	}
	return s.hash
}

// bytes 读取内容
func (s *Source) bytes() ([]byte, error) {
	if s.Data != nil {
		return s.Data, nil
	}
	if s.Path == "" {
		return nil, fmt.Errorf("source %q has no content", s.Name)
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	s.Data = data
	return data, nil
}
