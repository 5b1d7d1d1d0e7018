package entity

import "time"

// AnalysisResult ответ модели на загруженное изображение.
type AnalysisResult struct {
	ID          string      `json:"id"`           // идентификатор анализа
	Status      PanelStatus `json:"status"`       // итог
	HealthScore float64     `json:"health_score"` // уверенность модели, %
	Defects     []Defect    `json:"defects"`      // найденные дефекты
	AnalyzedAt  time.Time   `json:"analyzed_at"`
}

// HasDefects сообщает, найдены ли дефекты
func (r *AnalysisResult) HasDefects() bool {
	return len(r.Defects) > 0
}
