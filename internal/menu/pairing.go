package menu

import "github.com/iliyamo/palate-sommelier/internal/model"

// DefaultTier is what a fresh dish selection starts on in the diner view.
const DefaultTier = model.TierByGlass

// ParseTier maps a wire tier id to a Tier. The empty string selects the
// default tier; anything else unknown is rejected.
func ParseTier(s string) (model.Tier, error) {
    switch model.Tier(s) {
    case "":
        return DefaultTier, nil
    case model.TierByGlass, model.TierMidRange, model.TierExclusive:
        return model.Tier(s), nil
    default:
        return "", ErrUnknownTier
    }
}

// PairingFor returns the wine pairing of the given tier for a dish. Over a
// validated tree this is total: every item carries all three tiers, so the
// only possible failure is an unrecognized tier id, which means validation
// was bypassed upstream.
func PairingFor(item model.MenuItem, tier model.Tier) (model.WinePairing, error) {
    switch tier {
    case model.TierByGlass:
        return item.Pairings.ByGlass, nil
    case model.TierMidRange:
        return item.Pairings.MidRange, nil
    case model.TierExclusive:
        return item.Pairings.Exclusive, nil
    default:
        return model.WinePairing{}, ErrUnknownTier
    }
}
