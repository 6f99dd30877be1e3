package store

import (
	"log"
	"sync"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// TableCache 已解析数据集的内存缓存，按数据源标识索引
// 同时记录当前生效的数据集
type TableCache struct {
	datasets map[string]*model.Dataset
	current  string
	mu       sync.RWMutex
}

// NewTableCache 创建缓存
func NewTableCache() *TableCache {
	return &TableCache{
		datasets: make(map[string]*model.Dataset),
	}
}

// Get 按标识获取数据集
func (c *TableCache) Get(identity string) (*model.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	ds, ok := c.datasets[identity]
	return ds, ok
}

// Put 写入数据集
func (c *TableCache) Put(ds *model.Dataset) {
	if ds == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[ds.Identity] = ds
}

// InvalidateUploads 删除所有上传来源的数据集（新上传到来时调用），keep 除外
func (c *TableCache) InvalidateUploads(keep string) int {
	removed := c.invalidateKind(model.SourceUpload, keep)
	if removed > 0 {
		log.Printf("[Cache] invalidated %d uploaded dataset(s)", removed)
	}
	return removed
}

// InvalidateDefaults 删除过期的默认文件数据集（文件内容变化后调用），keep 除外
func (c *TableCache) InvalidateDefaults(keep string) int {
	removed := c.invalidateKind(model.SourceDefault, keep)
	if removed > 0 {
		log.Printf("[Cache] evicted %d stale default dataset(s)", removed)
	}
	return removed
}

func (c *TableCache) invalidateKind(kind model.SourceKind, keep string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for id, ds := range c.datasets {
		if id == keep || ds.Kind != kind {
			continue
		}
		delete(c.datasets, id)
		if c.current == id {
			c.current = ""
		}
		removed++
	}
	return removed
}

// SetCurrent 设置当前数据集（同时写入缓存）
func (c *TableCache) SetCurrent(ds *model.Dataset) {
	if ds == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.datasets[ds.Identity] = ds
	c.current = ds.Identity
}

// Current 当前数据集，无数据时返回 false
func (c *TableCache) Current() (*model.Dataset, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.current == "" {
		return nil, false
	}
	ds, ok := c.datasets[c.current]
	return ds, ok
}

// Len 缓存的数据集数量
func (c *TableCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.datasets)
}
