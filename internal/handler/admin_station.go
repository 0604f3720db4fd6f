package handler // handler package contains admin reference-data handlers

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-reservation/internal/model"
    "github.com/iliyamo/railway-reservation/internal/repository"
)

// AdminHandler bundles the repositories admins use to manage reference
// data: stations, trains and scheduled routes.  JWT authentication, the
// ADMIN role check and the API key check have all run before any of
// these methods is invoked.
type AdminHandler struct {
    StationRepo *repository.StationRepo
    TrainRepo   *repository.TrainRepo
    RouteRepo   *repository.RouteRepo
}

// NewAdminHandler constructs an AdminHandler and panics if any dependency is nil.
func NewAdminHandler(stationRepo *repository.StationRepo, trainRepo *repository.TrainRepo, routeRepo *repository.RouteRepo) *AdminHandler {
    if stationRepo == nil || trainRepo == nil || routeRepo == nil {
        panic("nil repository passed to NewAdminHandler")
    }
    return &AdminHandler{StationRepo: stationRepo, TrainRepo: trainRepo, RouteRepo: routeRepo}
}

// CreateStation handles POST /admin/stations/ and registers a new station.
func (h *AdminHandler) CreateStation(c echo.Context) error {
    var body struct {
        Name string `json:"name"`
        Code string `json:"code"`
        City string `json:"city"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    fieldErrs := map[string]string{}
    if strings.TrimSpace(body.Name) == "" {
        fieldErrs["name"] = "required"
    }
    if strings.TrimSpace(body.Code) == "" {
        fieldErrs["code"] = "required"
    }
    if strings.TrimSpace(body.City) == "" {
        fieldErrs["city"] = "required"
    }
    if len(fieldErrs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
    }
    station := &model.Station{
        Name: strings.TrimSpace(body.Name),
        Code: strings.ToUpper(strings.TrimSpace(body.Code)),
        City: strings.TrimSpace(body.City),
    }
    if err := h.StationRepo.Create(c.Request().Context(), station); err != nil {
        if errors.Is(err, repository.ErrStationExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "station name or code already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create station"})
    }
    return c.JSON(http.StatusCreated, station)
}

// ListStations handles GET /admin/stations/ and returns every station.
func (h *AdminHandler) ListStations(c echo.Context) error {
    stations, err := h.StationRepo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, stations)
}
