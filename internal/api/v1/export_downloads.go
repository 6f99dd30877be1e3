package v1

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// exportDownloadTTL 下载链接有效期
const exportDownloadTTL = 10 * time.Minute

type exportDownload struct {
	data        []byte
	fileName    string
	contentType string
	expiresAt   time.Time
}

// exportDownloadStore 流式导出完成后暂存文件，凭一次性 token 下载
type exportDownloadStore struct {
	mu    sync.Mutex
	items map[string]exportDownload
}

func newExportDownloadStore() *exportDownloadStore {
	return &exportDownloadStore{
		items: make(map[string]exportDownload),
	}
}

func (s *exportDownloadStore) put(item exportDownload, now time.Time) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(now)

	token := uuid.NewString()
	item.expiresAt = now.Add(exportDownloadTTL)
	s.items[token] = item
	return token
}

// take 取出并删除；过期或不存在返回 false
func (s *exportDownloadStore) take(token string, now time.Time) (exportDownload, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purgeExpiredLocked(now)

	v, ok := s.items[token]
	if !ok {
		return exportDownload{}, false
	}
	delete(s.items, token)
	return v, true
}

func (s *exportDownloadStore) purgeExpiredLocked(now time.Time) {
	for k, v := range s.items {
		if now.After(v.expiresAt) {
			delete(s.items, k)
		}
	}
}
