package store

import (
	"fmt"
	"sync"
	"testing"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

func dataset(identity string, kind model.SourceKind) *model.Dataset {
	return &model.Dataset{ID: identity, Identity: identity, Kind: kind, Table: model.NewTable(nil, nil)}
}

// TestNewTableCache 测试创建缓存
func TestNewTableCache(t *testing.T) {
	cache := NewTableCache()
	if cache == nil {
		t.Fatal("NewTableCache() returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("New cache should be empty, got %d", cache.Len())
	}
	if _, ok := cache.Current(); ok {
		t.Errorf("New cache should have no current dataset")
	}
}

// TestPutGet 测试写入与读取
func TestPutGet(t *testing.T) {
	cache := NewTableCache()
	cache.Put(dataset("file:a", model.SourceDefault))
	cache.Put(nil)

	ds, ok := cache.Get("file:a")
	if !ok || ds.ID != "file:a" {
		t.Fatalf("Get(file:a) = %v %v", ds, ok)
	}
	if _, ok := cache.Get("file:b"); ok {
		t.Errorf("unexpected hit for file:b")
	}
	if cache.Len() != 1 {
		t.Errorf("Len = %d, want 1", cache.Len())
	}
}

// TestSetCurrent 测试当前数据集
func TestSetCurrent(t *testing.T) {
	cache := NewTableCache()
	cache.SetCurrent(dataset("upload:1", model.SourceUpload))

	cur, ok := cache.Current()
	if !ok || cur.Identity != "upload:1" {
		t.Fatalf("Current = %v %v", cur, ok)
	}
	if _, ok := cache.Get("upload:1"); !ok {
		t.Errorf("SetCurrent should also cache the dataset")
	}

	cache.InvalidateUploads("")
	if _, ok := cache.Current(); ok {
		t.Errorf("invalidating the current dataset should clear it")
	}
}

// TestInvalidateUploads 测试新上传使旧上传失效
func TestInvalidateUploads(t *testing.T) {
	cache := NewTableCache()
	cache.Put(dataset("file:default", model.SourceDefault))
	cache.Put(dataset("upload:old", model.SourceUpload))
	cache.SetCurrent(dataset("upload:new", model.SourceUpload))

	removed := cache.InvalidateUploads("upload:new")
	if removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := cache.Get("upload:old"); ok {
		t.Errorf("old upload should be gone")
	}
	if _, ok := cache.Get("file:default"); !ok {
		t.Errorf("default file must survive")
	}
	if cur, ok := cache.Current(); !ok || cur.Identity != "upload:new" {
		t.Errorf("kept upload should stay current")
	}

	if removed := cache.InvalidateUploads(""); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := cache.Current(); ok {
		t.Errorf("current should be cleared")
	}
}

// TestInvalidateDefaults 测试默认文件变化后旧版本被移除
func TestInvalidateDefaults(t *testing.T) {
	cache := NewTableCache()
	cache.Put(dataset("file:v1", model.SourceDefault))
	cache.Put(dataset("upload:1", model.SourceUpload))
	cache.SetCurrent(dataset("file:v2", model.SourceDefault))

	if removed := cache.InvalidateDefaults("file:v2"); removed != 1 {
		t.Errorf("removed = %d, want 1", removed)
	}
	if _, ok := cache.Get("file:v1"); ok {
		t.Errorf("stale default should be gone")
	}
	if _, ok := cache.Get("upload:1"); !ok {
		t.Errorf("uploads must survive")
	}
	if cur, ok := cache.Current(); !ok || cur.Identity != "file:v2" {
		t.Errorf("kept default should stay current")
	}
}

// TestConcurrentAccess 测试并发访问
func TestConcurrentAccess(t *testing.T) {
	cache := NewTableCache()
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			ds := dataset(fmt.Sprintf("upload:%d", id), model.SourceUpload)
			cache.Put(ds)
			cache.Get(ds.Identity)
			cache.Current()
		}(i)
	}
	wg.Wait()

	if cache.Len() != 100 {
		t.Errorf("Len = %d, want 100", cache.Len())
	}
}
