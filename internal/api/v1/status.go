package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yatendra3192/recruitment-analytics-dashboard/internal/model"
)

// StatusResponse 数据状态
type StatusResponse struct {
	Available   bool             `json:"available"`
	Dataset     *datasetResponse `json:"dataset,omitempty"`
	CachedCount int              `json:"cachedCount"`
	DefaultFile string           `json:"defaultFile,omitempty"`
	Message     string           `json:"message,omitempty"`
	Reason      string           `json:"reason,omitempty"`
}

type datasetResponse struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Kind     model.SourceKind `json:"kind"`
	Size     int64            `json:"size"`
	Rows     int              `json:"rows"`
	Columns  []string         `json:"columns"`
	LoadedAt time.Time        `json:"loadedAt"`
}

func toDatasetResponse(ds *model.Dataset) *datasetResponse {
	return &datasetResponse{
		ID:       ds.ID,
		Name:     ds.Name,
		Kind:     ds.Kind,
		Size:     ds.Size,
		Rows:     ds.Table.Len(),
		Columns:  ds.Table.Columns,
		LoadedAt: ds.LoadedAt,
	}
}

// GetStatus 数据加载状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	resp := StatusResponse{DefaultFile: h.loader.DefaultPath()}

	ds, err := h.currentDataset()
	if err != nil {
		if !isNoData(err) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		nd := newNoDataResponse(err)
		resp.Message = nd.Message
		resp.Reason = nd.Reason
		resp.CachedCount = h.cache.Len()
		c.JSON(http.StatusOK, resp)
		return
	}

	resp.Available = true
	resp.Dataset = toDatasetResponse(ds)
	resp.CachedCount = h.cache.Len()
	c.JSON(http.StatusOK, resp)
}
