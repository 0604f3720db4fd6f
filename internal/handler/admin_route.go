package handler

import (
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-reservation/internal/model"
    "github.com/iliyamo/railway-reservation/internal/repository"
)

// CreateRoute handles POST /admin/routes/ and schedules a train
// between two stations.  available_seats is never accepted from the
// client: it is always initialized from the train's total seats, and
// from then on only the booking system may change it.
func (h *AdminHandler) CreateRoute(c echo.Context) error {
    var body struct {
        Train         uint64    `json:"train"`
        Source        uint64    `json:"source"`
        Destination   uint64    `json:"destination"`
        DepartureTime time.Time `json:"departure_time"`
        ArrivalTime   time.Time `json:"arrival_time"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    fieldErrs := map[string]string{}
    if body.Train == 0 {
        fieldErrs["train"] = "required"
    }
    if body.Source == 0 {
        fieldErrs["source"] = "required"
    }
    if body.Destination == 0 {
        fieldErrs["destination"] = "required"
    }
    if body.DepartureTime.IsZero() {
        fieldErrs["departure_time"] = "required"
    }
    if body.ArrivalTime.IsZero() {
        fieldErrs["arrival_time"] = "required"
    }
    if len(fieldErrs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
    }

    ctx := c.Request().Context()
    train, err := h.TrainRepo.GetByID(ctx, body.Train)
    if err != nil {
        if errors.Is(err, repository.ErrTrainNotFound) {
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"train": "unknown train"}})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }

    route := &model.Route{
        TrainID:        body.Train,
        SourceID:       body.Source,
        DestinationID:  body.Destination,
        DepartureTime:  body.DepartureTime.UTC(),
        ArrivalTime:    body.ArrivalTime.UTC(),
        AvailableSeats: train.TotalSeats,
    }
    if err := h.RouteRepo.Create(ctx, route); err != nil {
        switch {
        case errors.Is(err, model.ErrBadSchedule):
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"arrival_time": err.Error()}})
        case errors.Is(err, model.ErrSameStation):
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"destination": err.Error()}})
        case errors.Is(err, repository.ErrUnknownReference):
            return c.JSON(http.StatusBadRequest, echo.Map{"errors": map[string]string{"source": "unknown station reference"}})
        case errors.Is(err, repository.ErrRouteExists):
            return c.JSON(http.StatusConflict, echo.Map{"error": "route already scheduled"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create route"})
    }
    return c.JSON(http.StatusCreated, route)
}

// ListRoutes handles GET /admin/routes/ and returns every route with
// joined train and station names.
func (h *AdminHandler) ListRoutes(c echo.Context) error {
    routes, err := h.RouteRepo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, routes)
}
