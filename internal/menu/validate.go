package menu

import (
    "encoding/json"
    "fmt"
    "strconv"
    "strings"

    "github.com/iliyamo/palate-sommelier/internal/model"
)

// wineFields lists the required keys of a WinePairing record in wire order.
var wineFields = []string{"name", "grape", "vintage", "price", "note"}

// ValidateJSON decodes raw JSON and validates it as a menu tree. Used where
// the payload arrives as bytes (database column, request body).
func ValidateJSON(raw []byte) ([]model.MenuCategory, error) {
    var candidate any
    if err := json.Unmarshal(raw, &candidate); err != nil {
        return nil, &ValidationError{Violations: []string{"menu: not valid JSON"}}
    }
    return Validate(candidate)
}

// Validate checks an arbitrary decoded value claiming to be a menu tree and
// returns the normalized typed tree, or a ValidationError listing every
// violated constraint. Nothing is coerced or default-filled: a missing tier
// or a missing pairing field is a violation, not a gap to be papered over.
// The typed tree is only built when no violations were found, so no partial
// result ever escapes.
func Validate(candidate any) ([]model.MenuCategory, error) {
    v := &visitor{}
    tree := v.menu(candidate)
    if len(v.violations) > 0 {
        return nil, &ValidationError{Violations: v.violations}
    }
    return tree, nil
}

// Check applies the value-level rules to an already-typed tree. Shape rules
// (tier cardinality, field presence) are carried by the types themselves at
// this point; what remains is everything a struct cannot enforce. Commit
// runs this before touching storage.
func Check(tree []model.MenuCategory) []string {
    var violations []string
    for ci, cat := range tree {
        if strings.TrimSpace(cat.Category) == "" {
            violations = append(violations, fmt.Sprintf("menu[%d].category: must be a non-empty string", ci))
        }
        for ii, item := range cat.Items {
            if strings.TrimSpace(item.Dish) == "" {
                violations = append(violations, fmt.Sprintf("menu[%d].items[%d].dish: must be a non-empty string", ci, ii))
            }
        }
    }
    return violations
}

// visitor walks a decoded JSON value, accumulating violations while building
// the typed tree in the same pass. Paths in violation messages mirror the
// wire shape (menu[i].items[j].pairings.<tier>.<field>).
type visitor struct {
    violations []string
}

func (v *visitor) addf(format string, args ...any) {
    v.violations = append(v.violations, fmt.Sprintf(format, args...))
}

func (v *visitor) menu(candidate any) []model.MenuCategory {
    list, ok := candidate.([]any)
    if !ok {
        v.addf("menu: expected a list of categories")
        return nil
    }
    tree := make([]model.MenuCategory, 0, len(list))
    for i, raw := range list {
        tree = append(tree, v.category(i, raw))
    }
    return tree
}

func (v *visitor) category(i int, raw any) model.MenuCategory {
    obj, ok := raw.(map[string]any)
    if !ok {
        v.addf("menu[%d]: expected a category object", i)
        return model.MenuCategory{}
    }
    var cat model.MenuCategory
    name, ok := obj["category"].(string)
    if !ok || strings.TrimSpace(name) == "" {
        v.addf("menu[%d].category: must be a non-empty string", i)
    }
    cat.Category = name

    itemsRaw, present := obj["items"]
    items, ok := itemsRaw.([]any)
    if !present || !ok {
        v.addf("menu[%d].items: expected a list of items", i)
        return cat
    }
    cat.Items = make([]model.MenuItem, 0, len(items))
    for j, itemRaw := range items {
        cat.Items = append(cat.Items, v.item(i, j, itemRaw))
    }
    return cat
}

func (v *visitor) item(i, j int, raw any) model.MenuItem {
    obj, ok := raw.(map[string]any)
    if !ok {
        v.addf("menu[%d].items[%d]: expected an item object", i, j)
        return model.MenuItem{}
    }
    var item model.MenuItem
    dish, ok := obj["dish"].(string)
    if !ok || strings.TrimSpace(dish) == "" {
        v.addf("menu[%d].items[%d].dish: must be a non-empty string", i, j)
    }
    item.Dish = dish

    // Price is display text. Legacy menus stored bare numbers; those are
    // representable as text and normalized here, anything else is not.
    switch p := obj["price"].(type) {
    case string:
        item.Price = p
    case float64:
        item.Price = strconv.FormatFloat(p, 'f', -1, 64)
    default:
        v.addf("menu[%d].items[%d].price: must be text", i, j)
    }

    item.Pairings = v.pairings(i, j, obj["pairings"])
    return item
}

func (v *visitor) pairings(i, j int, raw any) model.Pairings {
    path := fmt.Sprintf("menu[%d].items[%d].pairings", i, j)
    obj, ok := raw.(map[string]any)
    if !ok {
        v.addf("%s: expected an object with tiers %q, %q and %q",
            path, model.TierByGlass, model.TierMidRange, model.TierExclusive)
        return model.Pairings{}
    }
    for key := range obj {
        switch model.Tier(key) {
        case model.TierByGlass, model.TierMidRange, model.TierExclusive:
        default:
            v.addf("%s.%s: unexpected tier", path, key)
        }
    }
    var p model.Pairings
    p.ByGlass = v.tier(path, model.TierByGlass, obj)
    p.MidRange = v.tier(path, model.TierMidRange, obj)
    p.Exclusive = v.tier(path, model.TierExclusive, obj)
    return p
}

func (v *visitor) tier(path string, tier model.Tier, obj map[string]any) model.WinePairing {
    raw, present := obj[string(tier)]
    if !present {
        v.addf("%s: missing tier %q", path, tier)
        return model.WinePairing{}
    }
    wineObj, ok := raw.(map[string]any)
    if !ok {
        v.addf("%s.%s: expected a wine pairing object", path, tier)
        return model.WinePairing{}
    }
    var w model.WinePairing
    for _, field := range wineFields {
        fieldRaw, present := wineObj[field]
        if !present {
            v.addf("%s.%s.%s: missing field", path, tier, field)
            continue
        }
        s, ok := fieldRaw.(string)
        if !ok {
            v.addf("%s.%s.%s: must be a string", path, tier, field)
            continue
        }
        switch field {
        case "name":
            w.Name = s
        case "grape":
            w.Grape = s
        case "vintage":
            w.Vintage = s
        case "price":
            w.Price = s
        case "note":
            w.Note = s
        }
    }
    return w
}
