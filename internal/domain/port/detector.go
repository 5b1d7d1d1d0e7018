package port

import (
	"context"

	"misbar/internal/domain/entity"
)

// AnalysisRequest снимок, отправленный на проверку модели
type AnalysisRequest struct {
	Image    []byte // содержимое файла
	Sequence int    // порядковый номер загрузки пользователя, начиная с 1
}

// DefectDetector интерфейс модели поиска дефектов
type DefectDetector interface {
	// Analyze анализирует изображение и возвращает результат
	Analyze(ctx context.Context, req AnalysisRequest) (*entity.AnalysisResult, error)
}

// DefectHighlighter рисует рамки дефектов поверх снимка
type DefectHighlighter interface {
	// HighlightDefects создаёт изображение с подсветкой дефектов
	HighlightDefects(imageData []byte, defects []entity.Defect) ([]byte, error)
}
