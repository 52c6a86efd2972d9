package menu

import (
    "strings"

    "github.com/iliyamo/palate-sommelier/internal/model"
)

// FilteredItem is an item in a derived search view, tagged with its index
// in the unfiltered category so edit commands can be routed back to the
// real tree.
type FilteredItem struct {
    model.MenuItem
    OriginalIndex int `json:"originalIndex"`
}

// FilteredCategory is a category in a derived search view. Only categories
// with at least one surviving item appear.
type FilteredCategory struct {
    Category      string         `json:"category"`
    OriginalIndex int            `json:"originalIndex"`
    Items         []FilteredItem `json:"items"`
}

// Filter derives a display-only view of the tree for a free-text query.
// The match is a case-insensitive substring test against the dish name, the
// price text, and the wine name, grape and vintage of all three tiers. An
// empty query matches everything. The input tree is never modified; the
// view is for rendering and for addressing edits via the original indices,
// never a source of truth in its own right.
func Filter(tree []model.MenuCategory, query string) []FilteredCategory {
    q := strings.ToLower(strings.TrimSpace(query))
    out := make([]FilteredCategory, 0, len(tree))
    for ci, cat := range tree {
        var kept []FilteredItem
        for ii, item := range cat.Items {
            if itemMatches(item, q) {
                kept = append(kept, FilteredItem{MenuItem: item, OriginalIndex: ii})
            }
        }
        if len(kept) > 0 {
            out = append(out, FilteredCategory{Category: cat.Category, OriginalIndex: ci, Items: kept})
        }
    }
    return out
}

func itemMatches(item model.MenuItem, q string) bool {
    if q == "" {
        return true
    }
    if contains(item.Dish, q) || contains(item.Price, q) {
        return true
    }
    for _, w := range []model.WinePairing{item.Pairings.ByGlass, item.Pairings.MidRange, item.Pairings.Exclusive} {
        if contains(w.Name, q) || contains(w.Grape, q) || contains(w.Vintage, q) {
            return true
        }
    }
    return false
}

// contains expects q to be lowercased already.
func contains(s, q string) bool {
    return strings.Contains(strings.ToLower(s), q)
}
