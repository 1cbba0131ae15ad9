package server

import (
	"encoding/json"
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gofiber/fiber/v3"

	"github.com/phanxgames/furnish"
)

// statusOf maps engine errors onto HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, furnish.ErrUnknownItem),
		errors.Is(err, furnish.ErrUnknownCatalog),
		errors.Is(err, furnish.ErrUnknownDialog):
		return fiber.StatusNotFound
	case errors.Is(err, furnish.ErrInvalidSize),
		errors.Is(err, furnish.ErrInvalidColor),
		errors.Is(err, furnish.ErrInvalidRoom):
		return fiber.StatusBadRequest
	case errors.Is(err, furnish.ErrDialogOpen),
		errors.Is(err, furnish.ErrDuplicateID):
		return fiber.StatusConflict
	}
	return fiber.StatusInternalServerError
}

func fail(c fiber.Ctx, err error) error {
	return c.Status(statusOf(err)).JSON(fiber.Map{"error": err.Error()})
}

func badBody(c fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body: " + err.Error()})
}

// decode reads the JSON request body into v.
func decode(c fiber.Ctx, v any) error {
	return json.Unmarshal(c.Body(), v)
}

// respond writes v, or the mapped error when err is set.
func respond(c fiber.Ctx, status int, v any, err error) error {
	if err != nil {
		return fail(c, err)
	}
	return c.Status(status).JSON(v)
}

// ============================================================
// Read access
// ============================================================

func (s *Server) health(c fiber.Ctx) error {
	var frame uint64
	s.Do(func(e *furnish.Engine) { frame = e.Frame() })
	return c.JSON(fiber.Map{"status": "ok", "frame": frame})
}

func (s *Server) getScene(c fiber.Ctx) error {
	var snap furnish.Snapshot
	s.Do(func(e *furnish.Engine) { snap = e.Snapshot() })
	return c.JSON(snap)
}

func (s *Server) getCatalog(c fiber.Ctx) error {
	var cat *furnish.Catalog
	s.Do(func(e *furnish.Engine) { cat = e.Catalog() })
	return c.JSON(fiber.Map{
		"catalog": cat,
		"colors":  furnish.ColorOptions,
		"sizes":   furnish.SizeOptions,
	})
}

func (s *Server) listFurniture(c fiber.Ctx) error {
	var items []furnish.FurnitureItem
	s.Do(func(e *furnish.Engine) { items = e.Furniture() })
	return c.JSON(items)
}

func (s *Server) getFurniture(c fiber.Ctx) error {
	id := c.Params("id")
	var (
		item furnish.FurnitureItem
		ok   bool
	)
	s.Do(func(e *furnish.Engine) { item, ok = e.Item(id) })
	if !ok {
		return fail(c, furnish.ErrUnknownItem)
	}
	return c.JSON(item)
}

func (s *Server) getRoom(c fiber.Ctx) error {
	var room furnish.RoomDimensions
	s.Do(func(e *furnish.Engine) { room = e.Room() })
	return c.JSON(room)
}

func (s *Server) getSelection(c fiber.Ctx) error {
	var sel furnish.SelectionState
	s.Do(func(e *furnish.Engine) { sel = e.Selection() })
	return c.JSON(sel)
}

func (s *Server) getPreferences(c fiber.Ctx) error {
	var p furnish.Preferences
	s.Do(func(e *furnish.Engine) { p = e.Preferences() })
	return c.JSON(p)
}

// ============================================================
// Furniture commands
// ============================================================

type addRequest struct {
	CatalogID string `json:"catalogId"`
	Color     string `json:"color"`
}

func (s *Server) addFurniture(c fiber.Ctx) error {
	var req addRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	var (
		item furnish.FurnitureItem
		err  error
	)
	s.Do(func(e *furnish.Engine) { item, err = e.AddFromCatalog(req.CatalogID, req.Color) })
	return respond(c, fiber.StatusCreated, item, err)
}

type proposedRequest struct {
	Names []string `json:"names"`
}

func (s *Server) addProposed(c fiber.Ctx) error {
	var req proposedRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	var (
		items []furnish.FurnitureItem
		err   error
	)
	s.Do(func(e *furnish.Engine) { items, err = e.AddProposed(req.Names) })
	return respond(c, fiber.StatusCreated, items, err)
}

func (s *Server) removeFurniture(c fiber.Ctx) error {
	id := c.Params("id")
	var err error
	s.Do(func(e *furnish.Engine) { err = e.Remove(id) })
	if err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// itemCommand runs a command returning the updated item.
func (s *Server) itemCommand(c fiber.Ctx, status int, fn func(e *furnish.Engine, id string) (furnish.FurnitureItem, error)) error {
	id := c.Params("id")
	var (
		item furnish.FurnitureItem
		err  error
	)
	s.Do(func(e *furnish.Engine) { item, err = fn(e, id) })
	return respond(c, status, item, err)
}

func (s *Server) duplicateFurniture(c fiber.Ctx) error {
	return s.itemCommand(c, fiber.StatusCreated, (*furnish.Engine).Duplicate)
}

func (s *Server) rotateFurniture(c fiber.Ctx) error {
	return s.itemCommand(c, fiber.StatusOK, (*furnish.Engine).Rotate)
}

type colorRequest struct {
	Color string `json:"color"`
}

func (s *Server) setColor(c fiber.Ctx) error {
	var req colorRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	return s.itemCommand(c, fiber.StatusOK, func(e *furnish.Engine, id string) (furnish.FurnitureItem, error) {
		return e.SetColor(id, req.Color)
	})
}

type sizeRequest struct {
	Size string `json:"size"`
}

func (s *Server) setSize(c fiber.Ctx) error {
	var req sizeRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	size, err := furnish.ParseSize(req.Size)
	if err != nil {
		return fail(c, err)
	}
	return s.itemCommand(c, fiber.StatusOK, func(e *furnish.Engine, id string) (furnish.FurnitureItem, error) {
		return e.SetSize(id, size)
	})
}

type positionRequest struct {
	X float64 `json:"x"`
	Z float64 `json:"z"`
}

func (s *Server) setPosition(c fiber.Ctx) error {
	var req positionRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	return s.itemCommand(c, fiber.StatusOK, func(e *furnish.Engine, id string) (furnish.FurnitureItem, error) {
		return e.SetPosition(id, mgl64.Vec3{req.X, 0, req.Z})
	})
}

// ============================================================
// Selection and dialogs
// ============================================================

// selectionCommand runs a selection transition and returns the new state.
func (s *Server) selectionCommand(c fiber.Ctx, fn func(e *furnish.Engine) error) error {
	var (
		sel furnish.SelectionState
		err error
	)
	s.Do(func(e *furnish.Engine) {
		err = fn(e)
		sel = e.Selection()
	})
	return respond(c, fiber.StatusOK, sel, err)
}

type visibleRequest struct {
	Visible bool `json:"visible"`
}

func (s *Server) setEditVisible(c fiber.Ctx) error {
	var req visibleRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	id := c.Params("id")
	return s.selectionCommand(c, func(e *furnish.Engine) error { return e.SetEditVisible(id, req.Visible) })
}

func (s *Server) openEditor(c fiber.Ctx) error {
	id := c.Params("id")
	return s.selectionCommand(c, func(e *furnish.Engine) error { return e.OpenEditor(id) })
}

func (s *Server) pressEditBadge(c fiber.Ctx) error {
	id := c.Params("id")
	return s.selectionCommand(c, func(e *furnish.Engine) error { return e.PressEditBadge(id) })
}

func (s *Server) toggleMenu(c fiber.Ctx) error {
	return s.selectionCommand(c, (*furnish.Engine).ToggleMenu)
}

type accordionRequest struct {
	ID string `json:"id"`
}

func (s *Server) setAccordion(c fiber.Ctx) error {
	var req accordionRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	return s.selectionCommand(c, func(e *furnish.Engine) error { return e.SetActiveAccordion(req.ID) })
}

func (s *Server) dismiss(c fiber.Ctx) error {
	return s.selectionCommand(c, func(e *furnish.Engine) error {
		e.Dismiss()
		return nil
	})
}

func (s *Server) openDialog(c fiber.Ctx) error {
	name := c.Params("name")
	d, ok := furnish.ParseDialog(name)
	if !ok {
		return fail(c, errors.Join(furnish.ErrUnknownDialog, errors.New(name)))
	}
	return s.selectionCommand(c, func(e *furnish.Engine) error { return e.OpenDialog(d) })
}

func (s *Server) closeDialog(c fiber.Ctx) error {
	return s.selectionCommand(c, func(e *furnish.Engine) error {
		e.CloseDialog()
		return nil
	})
}

// ============================================================
// Room and preferences
// ============================================================

func (s *Server) setRoom(c fiber.Ctx) error {
	var room furnish.RoomDimensions
	if err := decode(c, &room); err != nil {
		return badBody(c, err)
	}
	var err error
	s.Do(func(e *furnish.Engine) {
		err = e.SetRoomDimensions(room)
		room = e.Room()
	})
	return respond(c, fiber.StatusOK, room, err)
}

type preferencesRequest struct {
	ShowMeasurements *bool  `json:"showMeasurements"`
	Background       string `json:"background"`
}

func (s *Server) setPreferences(c fiber.Ctx) error {
	var req preferencesRequest
	if err := decode(c, &req); err != nil {
		return badBody(c, err)
	}
	var (
		p   furnish.Preferences
		err error
	)
	s.Do(func(e *furnish.Engine) {
		if req.Background != "" {
			if err = e.SetBackground(req.Background); err != nil {
				return
			}
		}
		if req.ShowMeasurements != nil {
			e.SetShowMeasurements(*req.ShowMeasurements)
		}
		p = e.Preferences()
	})
	return respond(c, fiber.StatusOK, p, err)
}
