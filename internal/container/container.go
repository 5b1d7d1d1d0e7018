package container

import (
	"time"

	app "misbar/internal/application"
	"misbar/internal/domain/catalog"
	"misbar/internal/domain/metrics"
	"misbar/internal/domain/port"
)

// Container собирает сервисы приложения вокруг выбранных адаптеров.
type Container struct {
	Catalog          *catalog.Catalog
	Location         *time.Location
	UserService      *app.UserService
	DashboardService *app.DashboardService
	GalleryService   *app.GalleryService
	LiveFeed         *app.LiveFeed
	AITestService    *app.AITestService
}

// Deps внешние зависимости. Highlighter и Describer могут быть nil.
type Deps struct {
	Panels        port.PanelSource
	Users         port.UserRepository
	Detector      port.DefectDetector
	Highlighter   port.DefectHighlighter
	Describer     port.DefectDescriber
	Catalog       *catalog.Catalog
	Location      *time.Location
	DefaultLocale catalog.Locale
}

func New(d Deps) *Container {
	if d.Catalog == nil {
		d.Catalog = catalog.Default()
	}
	if d.Location == nil {
		d.Location = time.UTC
	}

	userService := app.NewUserService(d.Users, d.DefaultLocale)
	aggregator := metrics.NewAggregator(d.Catalog, metrics.WithLocation(d.Location))

	return &Container{
		Catalog:          d.Catalog,
		Location:         d.Location,
		UserService:      userService,
		DashboardService: app.NewDashboardService(d.Panels, aggregator, d.Location),
		GalleryService:   app.NewGalleryService(d.Panels, d.Catalog, d.Location),
		LiveFeed:         app.NewLiveFeed(d.Panels, d.Catalog, catalog.ParseLocale(string(d.DefaultLocale))),
		AITestService:    app.NewAITestService(userService, d.Detector, d.Highlighter, d.Describer),
	}
}
