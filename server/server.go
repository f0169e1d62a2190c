package server

import (
	"strconv"
	"strings"
	"time"

	"feedmix/db"
	"feedmix/feeds"
	"feedmix/models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	log "github.com/sirupsen/logrus"
)

type ServerConfig struct {

	// The hostname to use for the server
	Hostname string

	// Composer assembles feed pages
	Composer *feeds.Composer

	// Reader backs the dashboard aggregation endpoint
	Reader *db.Reader
}

// Returns a fiber.App instance to be used as an HTTP server for the feed API
func Server(config *ServerConfig) *fiber.App {

	app := fiber.New()

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		// Diff
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Cache-Control",
	}))

	// Response cache for the dashboard only. Feed pages are personalized by
	// the seen set and must not be cached at this layer.
	app.Use(cache.New(cache.Config{
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != "GET" {
				return true
			}
			if strings.HasPrefix(c.Path(), "/dashboard") {
				return false
			}
			return true
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			// Include the query parameters in the cache key
			return c.Request().URI().String()
		},
	}))

	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("OK")
	})

	app.Get("/feed", func(c *fiber.Ctx) error {
		page, err := strconv.Atoi(c.Query("page", "0"))
		if err != nil || page < 0 {
			page = 0
		}

		pageSize, err := strconv.Atoi(c.Query("pageSize", "20"))
		if err != nil || pageSize < 1 || pageSize > 100 {
			pageSize = 20
		}

		var seen []string
		if raw := c.Query("seen", ""); raw != "" {
			seen = strings.Split(raw, ",")
		}

		log.WithFields(log.Fields{
			"page":     page,
			"pageSize": pageSize,
			"seen":     len(seen),
		}).Info("Compose feed page with parameters")

		result := config.Composer.ComposePage(c.Context(), models.PageRequest{
			Page:     page,
			PageSize: pageSize,
			Seen:     seen,
		})

		return c.JSON(result)
	})

	app.Get("/dashboard/engagement-per-time", func(c *fiber.Ctx) error {
		kind := c.Query("kind", "")
		timeAgg := c.Query("time", "hour")

		// check if time is hour, day or week
		if timeAgg != "hour" && timeAgg != "day" && timeAgg != "week" {
			return c.Status(400).SendString("Invalid time")
		}

		aggregates, err := config.Reader.GetEngagementPerTime(kind, timeAgg)
		if err != nil {
			log.WithFields(log.Fields{
				"error": err,
			}).Error("Error getting engagement per time")

			return c.Status(500).SendString("Error getting engagement per time")
		}

		log.WithFields(log.Fields{
			"kind":  kind,
			"count": len(aggregates),
		}).Info("Get engagement per time")

		return c.Status(200).JSON(aggregates)
	})

	return app
}
