package entity

import "time"

// Stats сводные показатели за период
type Stats struct {
	Total             int     `json:"total"`
	Passed            int     `json:"passed"`
	Failed            int     `json:"failed"`
	ConformanceRate   float64 `json:"conformance_rate"`
	DefectRate        float64 `json:"defect_rate"`
	ThroughputPerHour float64 `json:"throughput_per_hour"`
}

// CriticalAlert последняя панель с критическим или серьёзным дефектом
type CriticalAlert struct {
	ID                int64     `json:"id"`
	SerialNumber      string    `json:"serial_number"`
	DefectDisplayName string    `json:"defect_display_name"`
	Timestamp         time.Time `json:"timestamp"`
}

// DefectRank число вхождений одного типа дефекта
type DefectRank struct {
	TypeKey     string   `json:"type_key"`
	DisplayName string   `json:"display_name"`
	Color       string   `json:"color"`
	Severity    Severity `json:"severity"`
	Count       int      `json:"count"`
}

// ParetoEntry строка диаграммы Парето
type ParetoEntry struct {
	DefectRank
	CumulativePercentage float64 `json:"cumulative_percentage"`
}

// Granularity шаг временного ряда
type Granularity string

const (
	GranularityHour  Granularity = "hour"
	GranularityDay   Granularity = "day"
	GranularityMonth Granularity = "month"
)

// ProductionBucket точка графика производства
type ProductionBucket struct {
	BucketLabel   string    `json:"bucket_label"`
	BucketInstant time.Time `json:"bucket_instant"`
	Inspected     int       `json:"inspected"`
	Defects       int       `json:"defects"`
}

// DashboardMetrics всё, что нужно дашборду для отрисовки
type DashboardMetrics struct {
	Range            DateRange          `json:"range"`
	Granularity      Granularity        `json:"granularity"`
	Stats            Stats              `json:"stats"`
	CriticalAlerts   []CriticalAlert    `json:"critical_alerts"`
	DefectRanking    []DefectRank       `json:"defect_ranking"`
	ParetoTop7       []ParetoEntry      `json:"pareto_top7"`
	ProductionSeries []ProductionBucket `json:"production_series"`
}
