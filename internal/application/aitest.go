package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

var (
	// ErrInvalidImage загруженный файл не является изображением
	ErrInvalidImage = errors.New("please select a valid image file")
	// ErrDetectorNotConfigured модель не подключена
	ErrDetectorNotConfigured = errors.New("detector is not configured")
)

// AITestService проверка модели на снимках, присланных оператором.
type AITestService struct {
	users       *UserService
	detector    port.DefectDetector
	highlighter port.DefectHighlighter
	describer   port.DefectDescriber
	uploads     map[int64]int
	mu          sync.Mutex
}

// AITestOutput содержит результат анализа, описание и картинку с подсветкой.
type AITestOutput struct {
	Sequence    int
	Result      *entity.AnalysisResult
	Description string
	Highlighted []byte
}

// NewAITestService создаёт сервис; highlighter и describer необязательны.
func NewAITestService(users *UserService, detector port.DefectDetector, highlighter port.DefectHighlighter, describer port.DefectDescriber) *AITestService {
	return &AITestService{
		users:       users,
		detector:    detector,
		highlighter: highlighter,
		describer:   describer,
		uploads:     make(map[int64]int),
	}
}

// BeginTest переводит пользователя в ожидание снимка.
func (s *AITestService) BeginTest(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.users.BeginTest(ctx, userID, chatID)
}

// Uploads сколько снимков пользователь уже отправил
func (s *AITestService) Uploads(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads[userID]
}

// IsImage проверяет сигнатуру файла, а не расширение.
func IsImage(data []byte) bool {
	return len(data) > 0 && strings.HasPrefix(http.DetectContentType(data), "image/")
}

// Submit принимает снимок, запускает модель и возвращает пользователя в главное меню.
// Счётчик загрузок растёт только для корректных изображений.
func (s *AITestService) Submit(ctx context.Context, userID, chatID int64, image []byte, locale catalog.Locale) (*AITestOutput, error) {
	if s.detector == nil {
		return nil, ErrDetectorNotConfigured
	}
	if !IsImage(image) {
		return nil, ErrInvalidImage
	}

	if _, err := s.users.SetState(ctx, userID, chatID, entity.StateProcessing); err != nil {
		return nil, err
	}
	defer func() {
		if _, err := s.users.SetState(context.WithoutCancel(ctx), userID, chatID, entity.StateMainMenu); err != nil {
			slog.Warn("reset user state", "user", userID, "err", err)
		}
	}()

	s.mu.Lock()
	s.uploads[userID]++
	seq := s.uploads[userID]
	s.mu.Unlock()

	result, err := s.detector.Analyze(ctx, port.AnalysisRequest{Image: image, Sequence: seq})
	if err != nil {
		return nil, fmt.Errorf("analyze upload %d: %w", seq, err)
	}

	out := &AITestOutput{Sequence: seq, Result: result}

	if result.HasDefects() && s.highlighter != nil {
		highlighted, err := s.highlighter.HighlightDefects(image, result.Defects)
		if err != nil {
			slog.Debug("highlight skipped", "analysis", result.ID, "err", err)
		} else {
			out.Highlighted = highlighted
		}
	}

	if s.describer != nil {
		text, err := s.describer.Describe(ctx, result, locale)
		if err != nil {
			return nil, fmt.Errorf("describe analysis %s: %w", result.ID, err)
		}
		out.Description = text
	}

	slog.Info("ai test analysed", "user", userID, "sequence", seq, "status", result.Status, "defects", len(result.Defects))
	return out, nil
}
