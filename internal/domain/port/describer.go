package port

import (
	"context"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
)

// DefectDescriber интерфейс описателя дефектов
type DefectDescriber interface {
	// Describe генерирует текстовое описание результата анализа
	Describe(ctx context.Context, result *entity.AnalysisResult, locale catalog.Locale) (string, error)
}
