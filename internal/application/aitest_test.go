package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
	"misbar/internal/infrastructure/storage"
	"misbar/internal/infrastructure/vision"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type stubHighlighter struct {
	out []byte
	err error
}

func (h stubHighlighter) HighlightDefects([]byte, []entity.Defect) ([]byte, error) {
	return h.out, h.err
}

type brokenDetector struct{}

func (brokenDetector) Analyze(context.Context, port.AnalysisRequest) (*entity.AnalysisResult, error) {
	return nil, errors.New("model offline")
}

func newAITest(highlighter port.DefectHighlighter) (*AITestService, *UserService) {
	users := NewUserService(storage.NewMemoryUserRepository(), catalog.LocaleEN)
	svc := NewAITestService(users, vision.NewCannedDetector(0), highlighter, vision.NewCatalogDescriber(nil))
	return svc, users
}

func TestAITestService_AlternatesResults(t *testing.T) {
	svc, users := newAITest(stubHighlighter{out: []byte("jpeg")})
	ctx := context.Background()

	_, err := svc.BeginTest(ctx, 1, 10)
	require.NoError(t, err)

	first, err := svc.Submit(ctx, 1, 10, pngHeader, catalog.LocaleEN)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Sequence)
	assert.Equal(t, entity.StatusFailed, first.Result.Status)
	assert.Equal(t, 91.5, first.Result.HealthScore)
	assert.Len(t, first.Result.Defects, 21)
	assert.Equal(t, []byte("jpeg"), first.Highlighted)
	assert.Contains(t, first.Description, "Cell Crack × 17")
	assert.Contains(t, first.Description, "Connector Corrosion × 4")

	second, err := svc.Submit(ctx, 1, 10, pngHeader, catalog.LocaleEN)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Sequence)
	assert.Equal(t, entity.StatusPassed, second.Result.Status)
	assert.Equal(t, 98.6, second.Result.HealthScore)
	assert.Empty(t, second.Highlighted)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)
}

func TestAITestService_SequencePerUser(t *testing.T) {
	svc, _ := newAITest(nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, 10, pngHeader, catalog.LocaleEN)
	require.NoError(t, err)

	other, err := svc.Submit(ctx, 2, 20, pngHeader, catalog.LocaleEN)
	require.NoError(t, err)
	assert.Equal(t, 1, other.Sequence)
	assert.Equal(t, 1, svc.Uploads(1))
}

func TestAITestService_RejectsNonImage(t *testing.T) {
	svc, _ := newAITest(nil)

	_, err := svc.Submit(context.Background(), 1, 10, []byte("%PDF-1.4 not an image"), catalog.LocaleEN)
	require.ErrorIs(t, err, ErrInvalidImage)
	assert.Zero(t, svc.Uploads(1))

	_, err = svc.Submit(context.Background(), 1, 10, nil, catalog.LocaleEN)
	require.ErrorIs(t, err, ErrInvalidImage)
}

func TestAITestService_HighlightFailureIgnored(t *testing.T) {
	svc, _ := newAITest(vision.NewGoCVHighlighter(nil))

	out, err := svc.Submit(context.Background(), 1, 10, pngHeader, catalog.LocaleAR)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFailed, out.Result.Status)
	assert.NotEmpty(t, out.Description)
}

func TestAITestService_DetectorError(t *testing.T) {
	users := NewUserService(storage.NewMemoryUserRepository(), catalog.LocaleEN)
	svc := NewAITestService(users, brokenDetector{}, nil, nil)
	ctx := context.Background()

	_, err := svc.Submit(ctx, 1, 10, pngHeader, catalog.LocaleEN)
	require.Error(t, err)

	user, err := users.Get(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, entity.StateMainMenu, user.State)
}

func TestAITestService_NoDetector(t *testing.T) {
	users := NewUserService(storage.NewMemoryUserRepository(), catalog.LocaleEN)
	svc := NewAITestService(users, nil, nil, nil)

	_, err := svc.Submit(context.Background(), 1, 10, pngHeader, catalog.LocaleEN)
	require.ErrorIs(t, err, ErrDetectorNotConfigured)
}

func TestIsImage(t *testing.T) {
	assert.True(t, IsImage(pngHeader))
	assert.True(t, IsImage([]byte("\xff\xd8\xff\xe0\x00\x10JFIF")))
	assert.False(t, IsImage([]byte("hello")))
}
