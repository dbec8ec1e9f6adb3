package scoring

import (
	"math"
	"sort"

	"github.com/dotcommander/magis/internal/types"
)

// ConditionFactor builds the condicionantes snapshot for a new event: k is
// the number of ids both active in the profile and compatible with the
// catalog item, and the factor is base^k.
func ConditionFactor(active, compatible []string, base float64) types.AppliedConditions {
	allowed := make(map[string]bool, len(compatible))
	for _, id := range compatible {
		allowed[id] = true
	}

	seen := make(map[string]bool)
	var ids []string
	for _, id := range active {
		if allowed[id] && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	return types.AppliedConditions{
		IDs:    ids,
		K:      len(ids),
		Factor: math.Pow(base, float64(len(ids))),
	}
}

// SinConditions snapshots the attenuating factor for a sin.
func (c *Calculator) SinConditions(sin types.Sin, active []string) types.AppliedConditions {
	return ConditionFactor(active, sin.CondicionanteIDs, c.weights.SinConditionBase)
}

// GoodWorkConditions snapshots the amplifying factor for a good work.
func (c *Calculator) GoodWorkConditions(obra types.BuenaObra, active []string) types.AppliedConditions {
	return ConditionFactor(active, obra.CondicionanteIDs, c.weights.GoodWorkConditionBase)
}
