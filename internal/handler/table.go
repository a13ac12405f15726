package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/table-reservation/internal/model"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/service"
)

// TableHandler serves the manager table CRUD.  Every mutation is
// propagated into the daily table plans through the plan service so the
// booking engine always sees the current floor.
type TableHandler struct {
	Tables      *repository.TableRepo
	Restaurants *repository.RestaurantRepo
	Plans       *service.TablePlanService
}

func NewTableHandler(t *repository.TableRepo, r *repository.RestaurantRepo, p *service.TablePlanService) *TableHandler {
	return &TableHandler{Tables: t, Restaurants: r, Plans: p}
}

type tableReq struct {
	Number    string  `json:"number" validate:"required,max=50"`
	Capacity  uint32  `json:"capacity" validate:"required,oneof=2 4 6 8"`
	Shape     string  `json:"shape" validate:"omitempty,oneof=square circle rectangle"`
	PositionX float64 `json:"position_x"`
	PositionY float64 `json:"position_y"`
	Rotate    float64 `json:"rotate"`
	Status    string  `json:"status" validate:"omitempty,oneof=available unavailable"`
}

// Create handles POST /v1/restaurants/:id/tables.
func (h *TableHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	restaurantID, err := paramID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validator", "message": err.Error()})
	}

	ctx := c.Request().Context()
	if _, err := h.Restaurants.GetByIDAndOwner(ctx, restaurantID, userID); err != nil {
		if errors.Is(err, repository.ErrRestaurantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "restaurant not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}

	t := &model.Table{
		RestaurantID: restaurantID,
		Number:       req.Number,
		Capacity:     req.Capacity,
		Shape:        req.Shape,
		PositionX:    req.PositionX,
		PositionY:    req.PositionY,
		Rotate:       req.Rotate,
		Status:       req.Status,
	}
	if t.Shape == "" {
		t.Shape = "square"
	}
	if t.Status == "" {
		t.Status = model.TableAvailable
	}
	if err := h.Tables.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicateNumber) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "could not create table"})
	}
	if err := h.Plans.OnTableCreated(ctx, *t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "plan sync failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// Update handles PUT /v1/tables/:id.
func (h *TableHandler) Update(c echo.Context) error {
	t, errResp := h.ownedTable(c)
	if t == nil {
		return errResp
	}
	var req tableReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Number = strings.TrimSpace(req.Number)
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "validator", "message": err.Error()})
	}

	t.Number = req.Number
	t.Capacity = req.Capacity
	if req.Shape != "" {
		t.Shape = req.Shape
	}
	t.PositionX = req.PositionX
	t.PositionY = req.PositionY
	t.Rotate = req.Rotate
	if req.Status != "" {
		t.Status = req.Status
	}

	ctx := c.Request().Context()
	if err := h.Tables.Update(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicateNumber) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "duplicate"})
		}
		if errors.Is(err, repository.ErrTableNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	if err := h.Plans.OnTableUpdated(ctx, *t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "plan sync failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Archive handles POST /v1/tables/:id/archive.  Archival is a soft
// delete: the table vanishes from plans dated today or later and stops
// blocking its number, but history keeps it.
func (h *TableHandler) Archive(c echo.Context) error {
	t, errResp := h.ownedTable(c)
	if t == nil {
		return errResp
	}
	ctx := c.Request().Context()
	if err := h.Tables.SetStatus(ctx, t.ID, model.TableArchived); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "archive failed"})
	}
	t.Status = model.TableArchived
	if err := h.Plans.OnTableArchived(ctx, *t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "plan sync failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete handles DELETE /v1/tables/:id (hard delete).
func (h *TableHandler) Delete(c echo.Context) error {
	t, errResp := h.ownedTable(c)
	if t == nil {
		return errResp
	}
	if err := h.Plans.OnTableDeleted(c.Request().Context(), *t); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ownedTable loads the :id table and verifies the caller manages its
// restaurant.  On failure it returns nil and the response already sent.
func (h *TableHandler) ownedTable(c echo.Context) (*model.Table, error) {
	userID, err := getUserID(c)
	if err != nil {
		return nil, c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := paramID(c, "id")
	if err != nil {
		return nil, c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	t, err := h.Tables.GetByIDAndOwner(c.Request().Context(), id, userID)
	if err != nil {
		if errors.Is(err, repository.ErrTableNotFound) {
			return nil, c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
		}
		return nil, c.JSON(http.StatusInternalServerError, echo.Map{"error": "db error"})
	}
	return t, nil
}
