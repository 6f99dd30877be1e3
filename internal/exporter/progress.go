package exporter

// ProgressEvent 导出进度事件（用于 UI 展示）
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   string `json:"stage"`
}

// reportProgress 按已写行数换算百分比
func reportProgress(progress func(ProgressEvent), done, total int, stage string) {
	if progress == nil {
		return
	}
	percent := 100
	if total > 0 {
		percent = done * 100 / total
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	progress(ProgressEvent{
		Percent: percent,
		Stage:   stage,
	})
}
