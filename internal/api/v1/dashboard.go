package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/service/filter"
)

const (
	defaultPageSize = 50
	maxPageSize     = 1000
)

// loadOrRespond 取当前数据集；无数据时直接写出 available=false 响应
func (h *Handler) loadOrRespond(c *gin.Context) (*model.Dataset, bool) {
	ds, err := h.currentDataset()
	if err != nil {
		if isNoData(err) {
			c.JSON(http.StatusOK, newNoDataResponse(err))
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return nil, false
	}
	return ds, true
}

// GetFilters 侧边栏筛选项
// GET /api/filters
func (h *Handler) GetFilters(c *gin.Context) {
	ds, ok := h.loadOrRespond(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"available": true,
		"filters":   filter.Options(ds.Table),
	})
}

type dashboardResponse struct {
	*model.Dashboard
	Dataset *datasetResponse `json:"dataset"`
}

// GetDashboard 指标与图表数据
// GET /api/dashboard?businessUnit=&department=&location=
func (h *Handler) GetDashboard(c *gin.Context) {
	ds, ok := h.loadOrRespond(c)
	if !ok {
		return
	}

	sel := filter.SelectionFromQuery(c.Query)
	dash, _, err := h.pipeline.Run(c.Request.Context(), ds.Table, sel)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dashboardResponse{
		Dashboard: dash,
		Dataset:   toDatasetResponse(ds),
	})
}

type recordsResponse struct {
	Available bool            `json:"available"`
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Total     int             `json:"total"`
	Page      int             `json:"page"`
	PageSize  int             `json:"pageSize"`
}

// ListRecords 筛选后的明细数据（分页）
// GET /api/records?businessUnit=&department=&location=&page=&pageSize=
func (h *Handler) ListRecords(c *gin.Context) {
	ds, ok := h.loadOrRespond(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	filtered := filter.Apply(ds.Table, filter.SelectionFromQuery(c.Query))

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > filtered.Len() {
		start = filtered.Len()
	}
	if end > filtered.Len() {
		end = filtered.Len()
	}

	rows := make([][]interface{}, 0, end-start)
	for _, row := range filtered.Rows[start:end] {
		out := make([]interface{}, len(filtered.Columns))
		for i := range out {
			if i < len(row) {
				out[i] = jsonValue(row[i])
			}
		}
		rows = append(rows, out)
	}

	c.JSON(http.StatusOK, recordsResponse{
		Available: true,
		Columns:   filtered.Columns,
		Rows:      rows,
		Total:     filtered.Len(),
		Page:      page,
		PageSize:  pageSize,
	})
}

// jsonValue 单元格的 JSON 表示：缺失为 null，数值为 number，其他为文本
func jsonValue(c model.Cell) interface{} {
	switch c.Kind {
	case model.CellMissing:
		return nil
	case model.CellNumber:
		return c.Num
	default:
		return c.String()
	}
}
