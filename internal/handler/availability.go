package handler

import (
    "context"
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-reservation/internal/repository"
)

// RouteFinder is the read-side lookup used by the public availability
// endpoint.  *repository.RouteRepo satisfies it.
type RouteFinder interface {
    FindAvailable(ctx context.Context, sourceID, destinationID uint64) ([]repository.RouteDetail, error)
}

// AvailabilityHandler serves the public route search.
type AvailabilityHandler struct {
    Routes RouteFinder
}

func NewAvailabilityHandler(routes RouteFinder) *AvailabilityHandler {
    if routes == nil {
        panic("availability handler: nil route finder")
    }
    return &AvailabilityHandler{Routes: routes}
}

// Search handles GET /availability/?source=<id>&destination=<id> and
// returns routes between the two stations that still have seats, ordered
// by departure time.  Both query parameters are mandatory.
func (h *AvailabilityHandler) Search(c echo.Context) error {
    src := c.QueryParam("source")
    dst := c.QueryParam("destination")
    if src == "" || dst == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "Both source and destination are required"})
    }
    sourceID, err := strconv.ParseUint(src, 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "source must be a station id"})
    }
    destinationID, err := strconv.ParseUint(dst, 10, 64)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "destination must be a station id"})
    }

    routes, err := h.Routes.FindAvailable(c.Request().Context(), sourceID, destinationID)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, routes)
}
