// Package catalog содержит справочник типов дефектов линии.
//
// Справочник загружается один раз и после этого не меняется, поэтому
// его можно читать из любого числа горутин без блокировок.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"misbar/internal/domain/entity"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// UnknownColor цвет для типов, которых нет в справочнике.
const UnknownColor = "#FFFFFF"

// Locale язык отображения
type Locale string

const (
	LocaleAR Locale = "ar"
	LocaleEN Locale = "en"
)

// DefaultLocale язык дашборда по умолчанию
const DefaultLocale = LocaleAR

// ParseLocale нормализует код языка. Неизвестные значения дают DefaultLocale.
func ParseLocale(s string) Locale {
	switch Locale(strings.ToLower(strings.TrimSpace(s))) {
	case LocaleEN:
		return LocaleEN
	case LocaleAR:
		return LocaleAR
	}
	return DefaultLocale
}

// DefectType запись справочника
type DefectType struct {
	Key      string            `yaml:"key"`
	System   entity.SystemType `yaml:"system"`
	Color    string            `yaml:"color"`
	Severity entity.Severity   `yaml:"severity"`
	Names    map[Locale]string `yaml:"names"`
}

// Name возвращает имя на нужном языке, затем английское, затем ключ.
func (t DefectType) Name(locale Locale) string {
	if n := t.Names[locale]; n != "" {
		return n
	}
	if n := t.Names[LocaleEN]; n != "" {
		return n
	}
	return t.Key
}

// Catalog неизменяемый справочник типов дефектов
type Catalog struct {
	order []string
	types map[string]DefectType
}

type catalogFile struct {
	Types []DefectType `yaml:"types"`
}

// Parse разбирает YAML-описание справочника.
func Parse(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Types) == 0 {
		return nil, errors.New("parse catalog: no defect types")
	}

	c := &Catalog{types: make(map[string]DefectType, len(f.Types))}
	for i, t := range f.Types {
		if t.Key == "" {
			return nil, fmt.Errorf("parse catalog: type #%d has no key", i)
		}
		if _, dup := c.types[t.Key]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate key %q", t.Key)
		}
		if !t.Severity.Valid() {
			return nil, fmt.Errorf("parse catalog: %q has invalid severity %q", t.Key, t.Severity)
		}
		c.types[t.Key] = t
		c.order = append(c.order, t.Key)
	}
	return c, nil
}

var loadDefault = sync.OnceValue(func() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
})

// Default возвращает встроенный справочник. Разбирается при первом вызове.
func Default() *Catalog {
	return loadDefault()
}

// Lookup ищет тип по ключу
func (c *Catalog) Lookup(key string) (DefectType, bool) {
	t, ok := c.types[key]
	return t, ok
}

// Types возвращает типы в порядке объявления, опционально только для одной системы.
func (c *Catalog) Types(system entity.SystemType) []DefectType {
	out := make([]DefectType, 0, len(c.order))
	for _, k := range c.order {
		t := c.types[k]
		if system.Matches(t.System) {
			out = append(out, t)
		}
	}
	return out
}

// DisplayName имя типа для отображения; для неизвестных типов: сам ключ.
func (c *Catalog) DisplayName(key string, locale Locale) string {
	if t, ok := c.types[key]; ok {
		return t.Name(locale)
	}
	return key
}

// Color цвет типа; для неизвестных: UnknownColor.
func (c *Catalog) Color(key string) string {
	if t, ok := c.types[key]; ok && t.Color != "" {
		return t.Color
	}
	return UnknownColor
}

// Severity критичность дефекта. Справочник главнее записи: значение из
// дефекта используется только для типов, которых в справочнике нет.
func (c *Catalog) Severity(d entity.Defect) entity.Severity {
	if t, ok := c.types[d.TypeKey]; ok {
		return t.Severity
	}
	if d.Severity.Valid() {
		return d.Severity
	}
	return entity.SeverityLow
}
