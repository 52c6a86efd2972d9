package model

// Tier identifies one of the three wine-pairing bands attached to every
// dish. The values double as the JSON keys of the Pairings object, so they
// must never be renamed without migrating stored menus.
type Tier string

const (
    TierByGlass   Tier = "byGlass"   // entry band, poured by the glass
    TierMidRange  Tier = "midRange"  // mid-range bottle
    TierExclusive Tier = "exclusive" // top-shelf bottle
)

// Tiers lists all pairing tiers in display order.
var Tiers = []Tier{TierByGlass, TierMidRange, TierExclusive}

// WinePairing is one wine recommendation. All fields are free-form text;
// an empty string means "not filled in yet" and is valid.
//
// Fields:
//  Name    – wine name as printed on the card.
//  Grape   – grape variety or blend.
//  Vintage – vintage year as text.
//  Price   – display price as text; no arithmetic is ever performed on it.
//  Note    – sommelier's tasting note.
type WinePairing struct {
    Name    string `json:"name"`
    Grape   string `json:"grape"`
    Vintage string `json:"vintage"`
    Price   string `json:"price"`
    Note    string `json:"note"`
}

// Pairings holds exactly one WinePairing per tier. The fixed struct shape
// carries the three-tier invariant through the type system; untrusted
// payloads must pass menu.Validate before being decoded into it, because
// encoding/json would silently zero-fill a missing tier.
type Pairings struct {
    ByGlass   WinePairing `json:"byGlass"`
    MidRange  WinePairing `json:"midRange"`
    Exclusive WinePairing `json:"exclusive"`
}

// MenuItem is a single dish with its three pairing recommendations.
// Price is display text, same looseness as WinePairing.Price.
type MenuItem struct {
    Dish     string   `json:"dish"`
    Price    string   `json:"price"`
    Pairings Pairings `json:"pairings"`
}

// MenuCategory is a named, ordered group of dishes. Order is display order
// and must be preserved by every edit operation.
type MenuCategory struct {
    Category string     `json:"category"`
    Items    []MenuItem `json:"items"`
}

// EmptyWinePairing returns a fully-populated pairing with every field set
// to the empty string.
func EmptyWinePairing() WinePairing { return WinePairing{} }

// EmptyMenuItem returns a new item template with all three tiers present
// and every field empty, so a freshly added dish already satisfies the
// tier-cardinality invariant.
func EmptyMenuItem() MenuItem {
    return MenuItem{
        Pairings: Pairings{
            ByGlass:   EmptyWinePairing(),
            MidRange:  EmptyWinePairing(),
            Exclusive: EmptyWinePairing(),
        },
    }
}
