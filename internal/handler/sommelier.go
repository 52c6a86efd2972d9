package handler

import (
    "net/http"
    "strconv"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/palate-sommelier/internal/menu"
    "github.com/iliyamo/palate-sommelier/internal/session"
)

// SommelierHandler serves the diner-facing read path: pick a dish, pick a
// tier, get the wine. It only ever reads the snapshot; nothing here can
// change a menu.
type SommelierHandler struct {
    Sessions *session.Cache
}

func NewSommelierHandler(s *session.Cache) *SommelierHandler {
    return &SommelierHandler{Sessions: s}
}

// GetPairing resolves one wine pairing for the addressed dish. category and
// item are indices into the unfiltered tree (the same original indices the
// search view hands out); tier defaults to byGlass when absent, matching a
// fresh dish selection in the UI.
func (h *SommelierHandler) GetPairing(c echo.Context) error {
    ctx := c.Request().Context()
    sess, err := h.Sessions.Load(ctx, tenantFromContext(c))
    if err != nil {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "no session"})
    }

    catIdx, err1 := strconv.Atoi(c.QueryParam("category"))
    itemIdx, err2 := strconv.Atoi(c.QueryParam("item"))
    if err1 != nil || err2 != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "category and item indices required"})
    }

    tree := sess.MenuData.Menu
    if catIdx < 0 || catIdx >= len(tree) || itemIdx < 0 || itemIdx >= len(tree[catIdx].Items) {
        return c.JSON(http.StatusUnprocessableEntity, echo.Map{"error": "no such dish"})
    }
    item := tree[catIdx].Items[itemIdx]

    tier, err := menu.ParseTier(c.QueryParam("tier"))
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown pairing tier"})
    }
    pairing, err := menu.PairingFor(item, tier)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "pairing unavailable"})
    }

    return c.JSON(http.StatusOK, echo.Map{
        "dish":    item.Dish,
        "tier":    tier,
        "pairing": pairing,
    })
}
