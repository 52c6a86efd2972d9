package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/palate-sommelier/internal/config"
    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/model"
    q "github.com/iliyamo/palate-sommelier/internal/queue"
    queue_publisher "github.com/iliyamo/palate-sommelier/internal/service"
    "github.com/iliyamo/palate-sommelier/internal/session"
)

// MenuHandler drives the admin editing flow: the working tree lives in the
// session cache between requests, every edit goes through the mutation
// engine, and commit replaces the tenant's stored menu wholesale.
type MenuHandler struct {
    Cfg      config.Config
    Store    menu.Store
    Sessions *session.Cache
}

func NewMenuHandler(cfg config.Config, store menu.Store, s *session.Cache) *MenuHandler {
    if store == nil || s == nil {
        panic("nil dependency passed to NewMenuHandler")
    }
    return &MenuHandler{Cfg: cfg, Store: store, Sessions: s}
}

// ----- DTOs -----

type editItemReq struct {
    CategoryIndex int                `json:"categoryIndex"`
    ItemIndex     int                `json:"itemIndex"`
    Patch         menu.ItemPatch     `json:"patch"`
    Tier          string             `json:"tier,omitempty"`
    Pairing       *model.WinePairing `json:"pairing,omitempty"`
}

type addItemReq struct {
    CategoryIndex int `json:"categoryIndex"`
}

type removeItemReq struct {
    CategoryIndex int  `json:"categoryIndex"`
    ItemIndex     int  `json:"itemIndex"`
    Confirm       bool `json:"confirm"`
}

type treeResp struct {
    Menu []model.MenuCategory `json:"menu"`
}

// GetMenu returns the current working tree.
func (h *MenuHandler) GetMenu(c echo.Context) error {
    ctx, cancel := h.ctx(c)
    defer cancel()
    sess, err := h.Sessions.Load(ctx, tenantFromContext(c))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }
    return c.JSON(http.StatusOK, treeResp{Menu: sess.MenuData.Menu})
}

// SearchMenu returns the filtered derived view for the q query parameter.
// The view carries original indices back into the working tree; clients
// must address edits through those, never through positions in the view.
func (h *MenuHandler) SearchMenu(c echo.Context) error {
    ctx, cancel := h.ctx(c)
    defer cancel()
    sess, err := h.Sessions.Load(ctx, tenantFromContext(c))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }
    query := c.QueryParam("q")
    return c.JSON(http.StatusOK, echo.Map{
        "query":   query,
        "results": menu.Filter(sess.MenuData.Menu, query),
    })
}

// EditItem applies a field patch, or a single-tier pairing replacement when
// a pairing is supplied, to the addressed item.
func (h *MenuHandler) EditItem(c echo.Context) error {
    var req editItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    return h.edit(c, func(ed *menu.Editor) ([]model.MenuCategory, error) {
        if req.Pairing != nil {
            tier, err := menu.ParseTier(req.Tier)
            if err != nil {
                return nil, err
            }
            return ed.SetPairing(req.CategoryIndex, req.ItemIndex, tier, *req.Pairing)
        }
        return ed.SetItemField(req.CategoryIndex, req.ItemIndex, req.Patch)
    })
}

// AddItem appends an empty dish template to the addressed category.
func (h *MenuHandler) AddItem(c echo.Context) error {
    var req addItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    return h.edit(c, func(ed *menu.Editor) ([]model.MenuCategory, error) {
        return ed.AddItem(req.CategoryIndex)
    })
}

// RemoveItem deletes the addressed dish. The confirm flag is the wire form
// of the "are you sure" dialog; the engine itself never asks.
func (h *MenuHandler) RemoveItem(c echo.Context) error {
    var req removeItemReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if !req.Confirm {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "confirmation required"})
    }
    return h.edit(c, func(ed *menu.Editor) ([]model.MenuCategory, error) {
        return ed.RemoveItem(req.CategoryIndex, req.ItemIndex)
    })
}

// Commit validates the working tree and replaces the stored menu with it as
// one document. 422 carries the full violation list, 409 means another
// writer got there first, 502 is a storage failure with no detail exposed.
func (h *MenuHandler) Commit(c echo.Context) error {
    tenantID := tenantFromContext(c)
    ctx, cancel := h.ctx(c)
    defer cancel()

    sess, err := h.Sessions.Load(ctx, tenantID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }

    ed := menu.NewEditor(sess.MenuData.Menu)
    if err := ed.Commit(ctx, h.Store, tenantID, sess.MenuVersion); err != nil {
        var verr *menu.ValidationError
        switch {
        case errors.As(err, &verr):
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{
                "error":      "invalid menu",
                "violations": verr.Violations,
            })
        case errors.Is(err, menu.ErrVersionConflict):
            return c.JSON(http.StatusConflict, echo.Map{"error": "menu was changed elsewhere, reload and retry"})
        default:
            return c.JSON(http.StatusBadGateway, echo.Map{"error": "menu could not be saved"})
        }
    }

    sess.MenuVersion++
    if err := h.Sessions.Save(ctx, sess); err != nil && err != session.ErrUnavailable {
        c.Logger().Warnf("commit: refreshing session for tenant %s failed: %v", tenantID, err)
    }

    // Audit trail is best effort and must not delay the response.
    tree := sess.MenuData.Menu
    items := 0
    for _, cat := range tree {
        items += len(cat.Items)
    }
    name, _ := c.Get("tenant_name").(string)
    go func() {
        pctx, pcancel := context.WithTimeout(context.Background(), 5*time.Second)
        defer pcancel()
        _ = queue_publisher.PublishMenuUpdated(pctx, q.MenuUpdatedEvent{
            TenantID:    tenantID,
            TenantName:  name,
            MenuVersion: sess.MenuVersion,
            Categories:  len(tree),
            Items:       items,
            UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
        })
    }()

    return c.JSON(http.StatusOK, echo.Map{"status": "saved", "menuVersion": sess.MenuVersion})
}

// edit runs one mutation against the cached working tree and writes the new
// tree back to the session.
func (h *MenuHandler) edit(c echo.Context, op func(*menu.Editor) ([]model.MenuCategory, error)) error {
    tenantID := tenantFromContext(c)
    ctx, cancel := h.ctx(c)
    defer cancel()

    sess, err := h.Sessions.Load(ctx, tenantID)
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }

    ed := menu.NewEditor(sess.MenuData.Menu)
    tree, err := op(ed)
    if err != nil {
        if errors.Is(err, menu.ErrIndexOutOfRange) {
            return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": err.Error()})
        }
        if errors.Is(err, menu.ErrUnknownTier) {
            return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pairing tier"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "edit failed"})
    }

    sess.MenuData.Menu = tree
    if err := h.Sessions.Save(ctx, sess); err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save session failed"})
    }
    return c.JSON(http.StatusOK, treeResp{Menu: tree})
}

func (h *MenuHandler) ctx(c echo.Context) (context.Context, context.CancelFunc) {
    return context.WithTimeout(c.Request().Context(), 5*time.Second)
}
