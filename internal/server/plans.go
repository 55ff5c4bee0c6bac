package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"apexfit-relay/internal/planner"
	"github.com/labstack/echo/v4"
)

// planHandler serves POST /generate_meal_plan and POST /generate_workout_plan.
// Flow: key check -> bind -> prompt -> Gemini -> recovery -> JSON array.
func (s *Server) planHandler(kind planner.Kind) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := loggerFromContext(c)

		// 1. Refuse before touching the upstream when the key is missing.
		if err := s.cfg.RequireAPIKey(); err != nil {
			logger.Error().Err(err).Str("kind", string(kind)).Msg("Plan request rejected: server not configured")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		// 2. Parse the body. A missing or non-JSON body is an empty request.
		var req planner.PlanRequest
		if err := bindPlanRequest(c, &req); err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) && he.Code == http.StatusRequestEntityTooLarge {
				return err
			}
			logger.Error().Err(err).Msg("Failed to bind request body")
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": bindErrorMessage(err)})
		}

		// 3. Prompt, call Gemini, recover the array.
		plan, err := s.plans.Generate(c.Request().Context(), kind, req)
		if err != nil {
			var fe *planner.FormatError
			if errors.As(err, &fe) {
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": fe.Error(),
					"raw":   fe.Raw,
				})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": err.Error()})
		}

		return c.JSON(http.StatusOK, plan)
	}
}

// bindPlanRequest only decodes JSON bodies; anything else leaves req empty.
// A JSON body with no content (chunked, so echo cannot see a zero length)
// is an empty request too.
func bindPlanRequest(c echo.Context, req *planner.PlanRequest) error {
	ctype := c.Request().Header.Get(echo.HeaderContentType)
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return nil
	}
	if err := c.Bind(req); err != nil {
		if errors.Is(err, io.EOF) {
			*req = planner.PlanRequest{}
			return nil
		}
		return err
	}
	return nil
}

func bindErrorMessage(err error) string {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return fmt.Sprint(he.Message)
	}
	return err.Error()
}
