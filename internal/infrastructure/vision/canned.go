package vision

import (
	"context"
	"time"

	"github.com/google/uuid"

	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

// Демонстрационный ответ модели для дефектной панели.
var defectiveResponse = []entity.Defect{
	crack(68.33, 39.5, 7, 10.5), crack(94, 30, 6, 10.5), crack(87.8, 58.5, 6, 10.5),
	crack(12, 12.33, 6, 10), crack(0.2, 60, 6, 8.5), crack(0.17, 22.5, 6, 10.2),
	crack(94.3, 68, 6, 10.2), crack(55.6, 58.5, 6, 10.2), crack(5.83, 22.6, 6, 10.1),
	crack(30, 40, 6, 10.2), crack(81.4, 49, 6.4, 10.5), crack(94.3, 49, 6, 10.5),
	crack(12, 13, 6, 10.2), crack(55.8, 30, 6.3, 10.5), crack(11.75, 22.2, 6.2, 10.1),
	crack(11.5, 50, 6, 10.2), crack(55.5, 69, 6.2, 10),
	corrosion(81.4, 49, 6.5, 10.5), corrosion(36.17, 68.3, 6.5, 10),
	corrosion(37, 20.7, 6, 10), corrosion(55.83, 13, 6.7, 8.5),
}

const (
	defectiveHealth = 91.5
	passedHealth    = 98.6
)

func crack(x, y, w, h float64) entity.Defect {
	return entity.Defect{TypeKey: "cell_crack", Severity: entity.SeverityCritical, Location: entity.BoundingBox{X: x, Y: y, Width: w, Height: h}}
}

func corrosion(x, y, w, h float64) entity.Defect {
	return entity.Defect{TypeKey: "connector_corrosion", Severity: entity.SeverityMedium, Location: entity.BoundingBox{X: x, Y: y, Width: w, Height: h}}
}

// CannedDetector заглушка модели: нечётная загрузка: дефектная панель,
// чётная: исправная. Содержимое изображения не анализируется.
type CannedDetector struct {
	Delay time.Duration // имитация времени инференса
	now   func() time.Time
}

// NewCannedDetector создаёт заглушку с заданной задержкой ответа
func NewCannedDetector(delay time.Duration) *CannedDetector {
	return &CannedDetector{Delay: delay, now: time.Now}
}

// Analyze возвращает один из двух заготовленных ответов
func (d *CannedDetector) Analyze(ctx context.Context, req port.AnalysisRequest) (*entity.AnalysisResult, error) {
	if d.Delay > 0 {
		timer := time.NewTimer(d.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	result := &entity.AnalysisResult{
		ID:          uuid.NewString(),
		Status:      entity.StatusPassed,
		HealthScore: passedHealth,
		AnalyzedAt:  d.now(),
	}
	if req.Sequence%2 != 0 {
		result.Status = entity.StatusFailed
		result.HealthScore = defectiveHealth
		result.Defects = append([]entity.Defect(nil), defectiveResponse...)
	}
	return result, nil
}

var _ port.DefectDetector = (*CannedDetector)(nil)
