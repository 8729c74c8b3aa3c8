// Package v1 provides the menu API routes.
package v1

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gdp-poc/gdp/application/service"
	"github.com/gdp-poc/gdp/infrastructure/api/middleware"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
)

// maxBodyBytes bounds a batch update body.
const maxBodyBytes = 1 << 20

// MenuRouter handles the menu API endpoints.
type MenuRouter struct {
	menus  *service.Menu
	logger *slog.Logger
}

// NewMenuRouter creates a new MenuRouter.
func NewMenuRouter(menus *service.Menu, logger *slog.Logger) *MenuRouter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MenuRouter{
		menus:  menus,
		logger: logger,
	}
}

// Routes returns the chi router for menu endpoints.
func (m *MenuRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/structure", m.Structure)
	router.Post("/structure/batch-update", m.BatchUpdate)
	router.Get("/list", m.List)
	router.Get("/pages/{pageID}/display", m.Display)

	return router
}

// Structure handles GET /api/menu/structure.
func (m *MenuRouter) Structure(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tree, err := m.menus.Structure(ctx, middleware.User(ctx))
	if err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.StructureResponse{MenuGroups: dto.FromTree(tree)})
}

// BatchUpdate handles POST /api/menu/structure/batch-update.
func (m *MenuRouter) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		middleware.WriteError(w, r, middleware.NewAPIError(http.StatusRequestEntityTooLarge, "request body too large", err), m.logger)
		return
	}

	problems, err := checkBatchUpdate(body)
	if err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}
	if len(problems) > 0 {
		msg := "invalid request body: " + strings.Join(problems, "; ")
		middleware.WriteError(w, r, middleware.NewAPIError(http.StatusBadRequest, msg, nil), m.logger)
		return
	}

	var req dto.BatchUpdateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		middleware.WriteError(w, r, middleware.NewAPIError(http.StatusBadRequest, "invalid request body", err), m.logger)
		return
	}

	if err := m.menus.Replace(ctx, dto.ToTree(req.MenuGroups)); err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.StatusResponse{
		Success: true,
		Message: "menu structure updated",
	})
}

// List handles GET /api/menu/list.
func (m *MenuRouter) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	groups, err := m.menus.Legacy(ctx, middleware.User(ctx))
	if err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.LegacyListResponse{Success: true, Data: groups})
}

// Display handles GET /api/menu/pages/{pageID}/display.
func (m *MenuRouter) Display(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	d, err := m.menus.Display(ctx, middleware.User(ctx), chi.URLParam(r, "pageID"))
	if err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, dto.DisplayResponse{
		PageID:      d.Page.ID(),
		PageName:    d.Page.Name(),
		MenuID:      d.GroupID,
		Mode:        d.Mode.String(),
		Navigable:   d.Page.Navigable(),
		DashboardID: d.DashboardID,
		GenieID:     d.GenieID,
		EmbedURL:    d.EmbedURL,
		URL:         d.URL,
		External:    d.External,
	})
}

// Redirect handles GET /page/{pageID}/go by redirecting to the page URL.
func (m *MenuRouter) Redirect(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := m.menus.RedirectURL(ctx, middleware.User(ctx), chi.URLParam(r, "pageID"))
	if err != nil {
		middleware.WriteError(w, r, err, m.logger)
		return
	}

	http.Redirect(w, r, target, http.StatusFound)
}
