package excel

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

var (
	// ErrNoData 既无上传文件也无默认数据文件（不是故障，表示"暂无数据"）
	ErrNoData = errors.New("no data available")
	// ErrUnreadable 文件无法解析为表格
	ErrUnreadable = errors.New("unreadable spreadsheet")
)

// Cache 已解析数据集的缓存
type Cache interface {
	Get(identity string) (*model.Dataset, bool)
	Put(ds *model.Dataset)
}

// Loader 数据加载器
type Loader struct {
	defaultPath string
	cache       Cache
	group       singleflight.Group
}

// NewLoader 创建加载器；defaultPath 为空表示不使用默认数据文件
func NewLoader(defaultPath string, cache Cache) *Loader {
	return &Loader{
		defaultPath: defaultPath,
		cache:       cache,
	}
}

// DefaultPath 默认数据文件路径
func (l *Loader) DefaultPath() string {
	return l.defaultPath
}

// Resolve 选择数据源：优先上传文件，其次默认数据文件，都没有返回 ErrNoData
func (l *Loader) Resolve(upload *Source) (*Source, error) {
	if upload != nil {
		return upload, nil
	}
	if l.defaultPath == "" {
		return nil, ErrNoData
	}
	src, err := FileSource(l.defaultPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoData
		}
		return nil, fmt.Errorf("%w: %v", ErrNoData, err)
	}
	return src, nil
}

// Load 加载数据源，同一来源（见 Source.Identity）命中缓存时不重复解析
func (l *Loader) Load(src *Source) (*model.Dataset, error) {
	if src == nil {
		return nil, ErrNoData
	}

	identity := src.Identity()
	if l.cache != nil {
		if ds, ok := l.cache.Get(identity); ok {
			log.Printf("[Loader] cache hit: %s (%d rows)", ds.Name, ds.Table.Len())
			return ds, nil
		}
	}

	// 同一来源的并发加载只解析一次
	v, err, _ := l.group.Do(identity, func() (interface{}, error) {
		return l.parse(src, identity)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.Dataset), nil
}

func (l *Loader) parse(src *Source, identity string) (*model.Dataset, error) {
	start := time.Now()
	data, err := src.bytes()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	table, err := ReadTable(src.Name, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadable, src.Name, err)
	}

	ds := &model.Dataset{
		ID:       uuid.New().String(),
		Identity: identity,
		Name:     src.Name,
		Kind:     src.Kind,
		Size:     int64(len(data)),
		Hash:     src.Hash(),
		LoadedAt: time.Now(),
		Table:    table,
	}
	// 解析完成后释放本地文件内容
	if src.Path != "" {
		src.Data = nil
	}

	log.Printf("[Loader] parsed %s in %.2fms (%d columns, %d rows)",
		src.Name, float64(time.Since(start).Nanoseconds())/1e6, len(table.Columns), table.Len())

	if l.cache != nil {
		l.cache.Put(ds)
	}
	return ds, nil
}

// LoadDefault 加载默认数据文件
func (l *Loader) LoadDefault() (*model.Dataset, error) {
	src, err := l.Resolve(nil)
	if err != nil {
		return nil, err
	}
	return l.Load(src)
}
