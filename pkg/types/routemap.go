package types

import (
	"encoding/json"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

// RouteMap lists, for each input mint, the output mints it can be swapped to.
type RouteMap map[solana.PublicKey][]solana.PublicKey

type indexedRouteMapWire struct {
	MintKeys        []string      `json:"mintKeys"`
	IndexedRouteMap map[int][]int `json:"indexedRouteMap"`
}

// UnmarshalJSON expands the indexed form the endpoint returns.
func (m *RouteMap) UnmarshalJSON(data []byte) error {
	var w indexedRouteMapWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.MintKeys == nil {
		return invalid("mintKeys", "missing")
	}

	keys := make([]solana.PublicKey, len(w.MintKeys))
	for i, s := range w.MintKeys {
		key, err := solana.PublicKeyFromBase58(s)
		if err != nil {
			return invalid(fmt.Sprintf("mintKeys[%d]", i), "%v", err)
		}
		keys[i] = key
	}

	lookup := func(i int) (solana.PublicKey, error) {
		if i < 0 || i >= len(keys) {
			return solana.PublicKey{}, invalid("indexedRouteMap", "index %d out of range", i)
		}
		return keys[i], nil
	}

	out := make(RouteMap, len(w.IndexedRouteMap))
	for from, tos := range w.IndexedRouteMap {
		input, err := lookup(from)
		if err != nil {
			return err
		}
		outputs := make([]solana.PublicKey, 0, len(tos))
		for _, to := range tos {
			output, err := lookup(to)
			if err != nil {
				return err
			}
			outputs = append(outputs, output)
		}
		out[input] = outputs
	}

	*m = out
	return nil
}
