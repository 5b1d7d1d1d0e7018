package vision

import (
	"context"
	"fmt"
	"strings"

	"misbar/internal/domain/catalog"
	"misbar/internal/domain/entity"
	"misbar/internal/domain/port"
)

var describerText = map[catalog.Locale]struct {
	passed, failed, health, found, none string
}{
	catalog.LocaleEN: {"✅ Passed", "❌ Failed", "Health score", "Detected defects:", "No defects were found."},
	catalog.LocaleAR: {"✅ سليم", "❌ معيب", "دقة التوقع", "العيوب المكتشفة:", "لم يتم العثور على أي عيوب."},
}

// CatalogDescriber описывает результат анализа по справочнику типов
type CatalogDescriber struct {
	catalog *catalog.Catalog
}

// NewCatalogDescriber создаёт описатель; nil означает встроенный справочник.
func NewCatalogDescriber(c *catalog.Catalog) *CatalogDescriber {
	if c == nil {
		c = catalog.Default()
	}
	return &CatalogDescriber{catalog: c}
}

// Describe группирует дефекты по типу в порядке первого появления
func (d *CatalogDescriber) Describe(ctx context.Context, result *entity.AnalysisResult, locale catalog.Locale) (string, error) {
	if result == nil {
		return "", fmt.Errorf("describe: nil result")
	}
	txt, ok := describerText[locale]
	if !ok {
		txt = describerText[catalog.LocaleEN]
	}

	var b strings.Builder
	if result.Status == entity.StatusPassed {
		b.WriteString(txt.passed)
	} else {
		b.WriteString(txt.failed)
	}
	fmt.Fprintf(&b, "\n%s: %.1f%%\n", txt.health, result.HealthScore)

	if !result.HasDefects() {
		b.WriteString(txt.none)
		return b.String(), nil
	}

	b.WriteString(txt.found)
	var order []string
	counts := make(map[string]int)
	for _, def := range result.Defects {
		if counts[def.TypeKey] == 0 {
			order = append(order, def.TypeKey)
		}
		counts[def.TypeKey]++
	}
	for _, key := range order {
		fmt.Fprintf(&b, "\n• %s × %d", d.catalog.DisplayName(key, locale), counts[key])
	}
	return b.String(), nil
}

var _ port.DefectDescriber = (*CatalogDescriber)(nil)
