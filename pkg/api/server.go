package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/smartbus/routeplanner/pkg/api/routes"
	"github.com/smartbus/routeplanner/pkg/geocoding"
	"github.com/smartbus/routeplanner/pkg/mapview"
)

type ServerOptions struct {
	Region    *geocoding.Region
	Geocoder  routes.Geocoder
	Publisher routes.EventPublisher
	Tiles     mapview.TileLayer

	// Comma separated list of origins allowed by CORS
	AllowOrigins string
}

func NewApp(options ServerOptions) *fiber.App {
	if options.Region == nil {
		options.Region = geocoding.DefaultRegion()
	}
	if options.Geocoder == nil {
		options.Geocoder = geocoding.NewClient(options.Region)
	}
	if options.AllowOrigins == "" {
		options.AllowOrigins = "*"
	}

	webApp := fiber.New(fiber.Config{
		AppName: "smartbus",
	})
	webApp.Use(NewLogger())
	webApp.Use(cors.New(cors.Config{
		AllowOrigins: options.AllowOrigins,
		AllowMethods: "GET,HEAD,OPTIONS",
	}))

	webApp.Get("/", routes.Root)
	webApp.Get("/health", routes.Health)

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.GeocodeRouter(group.Group("/geocode"), options.Geocoder)
	routes.PlannerRouter(group.Group("/planner"), options.Publisher)
	routes.StopsRouter(group.Group("/stops"))
	routes.MapViewRouter(group.Group("/map"), options.Region.Center(), options.Tiles)

	return webApp
}

func SetupServer(listen string, options ServerOptions) error {
	return NewApp(options).Listen(listen)
}
