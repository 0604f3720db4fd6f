package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/railway-reservation/internal/model"
    "github.com/iliyamo/railway-reservation/internal/repository"
)

// CreateTrain handles POST /admin/trains/ and registers a new train.
// TotalSeats must be a positive integer; it becomes the seat-number
// ceiling for every route this train runs.
func (h *AdminHandler) CreateTrain(c echo.Context) error {
    var body struct {
        Name        string `json:"name"`
        TrainNumber string `json:"train_number"`
        TotalSeats  int64  `json:"total_seats"`
    }
    if err := c.Bind(&body); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
    }
    fieldErrs := map[string]string{}
    if strings.TrimSpace(body.Name) == "" {
        fieldErrs["name"] = "required"
    }
    if strings.TrimSpace(body.TrainNumber) == "" {
        fieldErrs["train_number"] = "required"
    }
    if body.TotalSeats <= 0 {
        fieldErrs["total_seats"] = "must be a positive integer"
    }
    if len(fieldErrs) > 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"errors": fieldErrs})
    }
    train := &model.Train{
        Name:        strings.TrimSpace(body.Name),
        TrainNumber: strings.TrimSpace(body.TrainNumber),
        TotalSeats:  uint32(body.TotalSeats),
    }
    if err := h.TrainRepo.Create(c.Request().Context(), train); err != nil {
        if errors.Is(err, repository.ErrTrainExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "train number already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create train"})
    }
    return c.JSON(http.StatusCreated, train)
}

// ListTrains handles GET /admin/trains/ and returns every train.
func (h *AdminHandler) ListTrains(c echo.Context) error {
    trains, err := h.TrainRepo.ListAll(c.Request().Context())
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
    }
    return c.JSON(http.StatusOK, trains)
}
