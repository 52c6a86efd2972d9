package menu

import (
    "encoding/json"
    "strings"
    "testing"
)

// rawWine builds a decoded-JSON wine pairing with all five fields present.
func rawWine(name string) map[string]any {
    return map[string]any{"name": name, "grape": "", "vintage": "", "price": "", "note": ""}
}

// rawItem builds a decoded-JSON item with a complete three-tier pairing set.
func rawItem(dish string, price any) map[string]any {
    return map[string]any{
        "dish":  dish,
        "price": price,
        "pairings": map[string]any{
            "byGlass":   rawWine("Chablis"),
            "midRange":  rawWine("Meursault"),
            "exclusive": rawWine("Montrachet"),
        },
    }
}

func rawCategory(name string, items ...any) map[string]any {
    if items == nil {
        items = []any{}
    }
    return map[string]any{"category": name, "items": items}
}

func TestValidateAcceptsCompleteMenu(t *testing.T) {
    candidate := []any{
        rawCategory("Starters", rawItem("Tartare", "185")),
        rawCategory("Mains"),
    }
    tree, err := Validate(candidate)
    if err != nil {
        t.Fatalf("Validate failed: %v", err)
    }
    if len(tree) != 2 {
        t.Fatalf("expected 2 categories, got %d", len(tree))
    }
    if tree[0].Items[0].Dish != "Tartare" || tree[0].Items[0].Price != "185" {
        t.Errorf("item not carried over: %+v", tree[0].Items[0])
    }
    if tree[0].Items[0].Pairings.MidRange.Name != "Meursault" {
        t.Errorf("midRange tier not carried over: %+v", tree[0].Items[0].Pairings)
    }
    if tree[1].Items == nil || len(tree[1].Items) != 0 {
        t.Errorf("empty items list should stay an empty list, got %#v", tree[1].Items)
    }
}

func TestValidateNormalizesNumericPrice(t *testing.T) {
    tree, err := Validate([]any{rawCategory("Starters", rawItem("Soup", float64(95)))})
    if err != nil {
        t.Fatalf("Validate failed: %v", err)
    }
    if got := tree[0].Items[0].Price; got != "95" {
        t.Errorf("price = %q, want %q", got, "95")
    }
}

// TestValidateReportsEveryViolation feeds one candidate carrying several
// independent defects and requires all of them in the violation list; the
// validator must never stop at the first problem.
func TestValidateReportsEveryViolation(t *testing.T) {
    item := rawItem("", true) // empty dish, non-text price
    pairings := item["pairings"].(map[string]any)
    delete(pairings, "midRange")                           // missing tier
    delete(pairings["byGlass"].(map[string]any), "grape")  // missing wine field
    pairings["exclusive"].(map[string]any)["vintage"] = 5. // mistyped wine field
    pairings["cellar"] = rawWine("Port")                   // tier that does not exist

    candidate := []any{
        rawCategory("Starters", item),
        map[string]any{"category": ""}, // empty name, missing items list
    }

    _, err := Validate(candidate)
    verr, ok := err.(*ValidationError)
    if !ok {
        t.Fatalf("expected *ValidationError, got %T (%v)", err, err)
    }

    want := []string{
        "menu[0].items[0].dish: must be a non-empty string",
        "menu[0].items[0].price: must be text",
        `menu[0].items[0].pairings: missing tier "midRange"`,
        "menu[0].items[0].pairings.byGlass.grape: missing field",
        "menu[0].items[0].pairings.exclusive.vintage: must be a string",
        "menu[0].items[0].pairings.cellar: unexpected tier",
        "menu[1].category: must be a non-empty string",
        "menu[1].items: expected a list of items",
    }
    joined := strings.Join(verr.Violations, "\n")
    for _, w := range want {
        if !strings.Contains(joined, w) {
            t.Errorf("violation list missing %q\ngot:\n%s", w, joined)
        }
    }
    if len(verr.Violations) != len(want) {
        t.Errorf("got %d violations, want %d:\n%s", len(verr.Violations), len(want), joined)
    }
}

func TestValidateRejectsNonList(t *testing.T) {
    for name, candidate := range map[string]any{
        "object": map[string]any{"menu": []any{}},
        "string": "menu",
        "nil":    nil,
    } {
        if _, err := Validate(candidate); err == nil {
            t.Errorf("%s: expected error for %#v", name, candidate)
        }
    }
}

func TestValidateJSONRoundTrip(t *testing.T) {
    tree, err := Validate([]any{rawCategory("Starters", rawItem("Tartare", "185"))})
    if err != nil {
        t.Fatalf("Validate failed: %v", err)
    }
    raw, err := json.Marshal(tree)
    if err != nil {
        t.Fatalf("marshal: %v", err)
    }
    again, err := ValidateJSON(raw)
    if err != nil {
        t.Fatalf("ValidateJSON rejected its own output: %v", err)
    }
    if len(again) != len(tree) || again[0].Items[0] != tree[0].Items[0] {
        t.Errorf("round trip changed the tree: %+v vs %+v", again, tree)
    }
}

func TestValidateJSONRejectsGarbage(t *testing.T) {
    if _, err := ValidateJSON([]byte("{not json")); err == nil {
        t.Fatal("expected error for malformed JSON")
    }
}

func TestCheckFlagsEmptyNames(t *testing.T) {
    tree, err := Validate([]any{rawCategory("Starters", rawItem("Tartare", "185"))})
    if err != nil {
        t.Fatalf("Validate failed: %v", err)
    }
    if vs := Check(tree); len(vs) != 0 {
        t.Fatalf("valid tree flagged: %v", vs)
    }
    tree[0].Items[0].Dish = "  "
    tree[0].Category = ""
    vs := Check(tree)
    if len(vs) != 2 {
        t.Fatalf("got %d violations, want 2: %v", len(vs), vs)
    }
}
