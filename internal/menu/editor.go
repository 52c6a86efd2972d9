package menu

import (
    "context"
    "log"

    "github.com/iliyamo/palate-sommelier/internal/model"
)

// Store is the slice of the tenant directory the editor needs: a single
// whole-document replace keyed by tenant id. version is the menu version the
// working tree was loaded at; implementations must fail with
// ErrVersionConflict when the stored version has moved on, so two admins
// cannot silently overwrite each other.
type Store interface {
    ReplaceMenu(ctx context.Context, tenantID string, version uint64, tree []model.MenuCategory) error
}

// ItemPatch describes a shallow merge into one MenuItem. Nil fields are
// left untouched.
type ItemPatch struct {
    Dish     *string         `json:"dish,omitempty"`
    Price    *string         `json:"price,omitempty"`
    Pairings *model.Pairings `json:"pairings,omitempty"`
}

// Editor maintains the in-memory working copy of one tenant's menu. Every
// edit operation builds a fresh tree and leaves the previous one untouched,
// so snapshots handed out earlier stay valid and cheap identity comparisons
// keep working. The editor itself is not safe for concurrent use; an edit
// session is single-admin.
type Editor struct {
    tree []model.MenuCategory
}

// NewEditor starts an edit session over a copy of the given tree. The
// caller's slice is never aliased.
func NewEditor(tree []model.MenuCategory) *Editor {
    return &Editor{tree: cloneTree(tree)}
}

// Tree returns the current working tree.
func (e *Editor) Tree() []model.MenuCategory { return e.tree }

// SetItemField replaces the addressed item with a shallow-merged copy and
// returns the new tree.
func (e *Editor) SetItemField(catIdx, itemIdx int, patch ItemPatch) ([]model.MenuCategory, error) {
    return e.replaceItem(catIdx, itemIdx, func(item model.MenuItem) model.MenuItem {
        if patch.Dish != nil {
            item.Dish = *patch.Dish
        }
        if patch.Price != nil {
            item.Price = *patch.Price
        }
        if patch.Pairings != nil {
            item.Pairings = *patch.Pairings
        }
        return item
    })
}

// SetPairing replaces a single tier of the addressed item.
func (e *Editor) SetPairing(catIdx, itemIdx int, tier model.Tier, w model.WinePairing) ([]model.MenuCategory, error) {
    var tierErr error
    tree, err := e.replaceItem(catIdx, itemIdx, func(item model.MenuItem) model.MenuItem {
        switch tier {
        case model.TierByGlass:
            item.Pairings.ByGlass = w
        case model.TierMidRange:
            item.Pairings.MidRange = w
        case model.TierExclusive:
            item.Pairings.Exclusive = w
        default:
            tierErr = ErrUnknownTier
        }
        return item
    })
    if err != nil {
        return nil, err
    }
    if tierErr != nil {
        return nil, tierErr
    }
    return tree, nil
}

// AddItem appends a fully-populated empty item template to the addressed
// category, so the three-tier invariant holds even for a dish nobody has
// filled in yet.
func (e *Editor) AddItem(catIdx int) ([]model.MenuCategory, error) {
    if catIdx < 0 || catIdx >= len(e.tree) {
        return nil, &IndexError{Category: catIdx, Item: -1}
    }
    next := cloneTree(e.tree)
    next[catIdx].Items = append(next[catIdx].Items, model.EmptyMenuItem())
    e.tree = next
    return next, nil
}

// RemoveItem deletes the addressed item, preserving the order of the
// remainder. Asking the user "are you sure" is the caller's job; by the
// time this runs the decision is final.
func (e *Editor) RemoveItem(catIdx, itemIdx int) ([]model.MenuCategory, error) {
    if err := e.checkIndex(catIdx, itemIdx); err != nil {
        return nil, err
    }
    next := cloneTree(e.tree)
    items := next[catIdx].Items
    next[catIdx].Items = append(items[:itemIdx:itemIdx], items[itemIdx+1:]...)
    e.tree = next
    return next, nil
}

// Commit validates the working tree and replaces the tenant's stored menu
// with it as one atomic document. On validation failure storage is never
// contacted and the full violation list comes back. Storage failures are
// logged with detail here and surfaced only as the generic ErrPersistence,
// except for version conflicts, which the caller must be able to tell apart.
func (e *Editor) Commit(ctx context.Context, store Store, tenantID string, version uint64) error {
    if violations := Check(e.tree); len(violations) > 0 {
        return &ValidationError{Violations: violations}
    }
    if err := store.ReplaceMenu(ctx, tenantID, version, e.tree); err != nil {
        if err == ErrVersionConflict {
            return err
        }
        log.Printf("menu: commit for tenant %s failed: %v", tenantID, err)
        return ErrPersistence
    }
    return nil
}

func (e *Editor) checkIndex(catIdx, itemIdx int) error {
    if catIdx < 0 || catIdx >= len(e.tree) || itemIdx < 0 || itemIdx >= len(e.tree[catIdx].Items) {
        return &IndexError{Category: catIdx, Item: itemIdx}
    }
    return nil
}

func (e *Editor) replaceItem(catIdx, itemIdx int, fn func(model.MenuItem) model.MenuItem) ([]model.MenuCategory, error) {
    if err := e.checkIndex(catIdx, itemIdx); err != nil {
        return nil, err
    }
    next := cloneTree(e.tree)
    next[catIdx].Items[itemIdx] = fn(next[catIdx].Items[itemIdx])
    e.tree = next
    return next, nil
}

// cloneTree copies the category spine and every items slice. MenuItem is a
// pure value type, so this is a full deep copy.
func cloneTree(tree []model.MenuCategory) []model.MenuCategory {
    out := make([]model.MenuCategory, len(tree))
    for i, cat := range tree {
        out[i] = cat
        out[i].Items = make([]model.MenuItem, len(cat.Items))
        copy(out[i].Items, cat.Items)
    }
    return out
}
