package server

import (
	"net/http"

	"apexfit-relay/internal/planner"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func (s *Server) RegisterRoutes() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(LoggerMiddleware)
	e.Use(requestLogger())

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		// No AllowHeaders: preflights get back whatever headers they asked for.
		ExposeHeaders: []string{echo.HeaderXRequestID},
		MaxAge:        300,
	}))
	e.Use(middleware.BodyLimit(bodyLimit))

	e.GET("/", s.livenessHandler)
	e.GET("/health", s.healthHandler)

	e.POST("/generate_meal_plan", s.planHandler(planner.KindMeal))
	e.POST("/generate_workout_plan", s.planHandler(planner.KindWorkout))

	return e
}

func (s *Server) livenessHandler(c echo.Context) error {
	return c.String(http.StatusOK, s.cfg.ServiceName+" OK")
}

// LoggerMiddleware tags every request with an X-Request-ID and stores a
// child logger both in the echo context and in the request context, where
// zerolog.Ctx picks it up further down the call chain.
func LoggerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := c.Request().Header.Get(echo.HeaderXRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Response().Header().Set(echo.HeaderXRequestID, requestID)

		logger := log.With().Str("request_id", requestID).Logger()

		c.Set("logger", &logger)
		c.SetRequest(c.Request().WithContext(logger.WithContext(c.Request().Context())))

		return next(c)
	}
}

// requestLogger writes one access line per request through zerolog.
func requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger := zerolog.Ctx(c.Request().Context())
			event := logger.Info()
			if v.Error != nil || v.Status >= http.StatusInternalServerError {
				event = logger.Error().Err(v.Error)
			}
			event.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loggerFromContext returns the request-scoped logger set by LoggerMiddleware.
func loggerFromContext(c echo.Context) *zerolog.Logger {
	if logger, ok := c.Get("logger").(*zerolog.Logger); ok {
		return logger
	}
	return &log.Logger
}
