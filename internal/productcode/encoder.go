package productcode

import (
	"encoding/json"
	"log/slog"
	"sort"
	"strconv"
	"strings"
)

// NoMatch is the code produced when no item could be matched.
const NoMatch = "?"

// Item is one order line: free-text product name and quantity. The
// quantity is tallied as given; decoded JSON without one counts one unit.
type Item struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// UnmarshalJSON defaults an absent quantity to one.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	p := plain{Quantity: 1}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*it = Item(p)
	return nil
}

// Result is an encoding with the item names that matched nothing.
type Result struct {
	Code      string   `json:"code"`
	Unmatched []string `json:"unmatched,omitempty"`
}

type fragment struct {
	key string
	id  string
}

// Encoder matches item names against a mapping's identifiers. It is
// immutable after construction and safe for concurrent use.
type Encoder struct {
	mapping   Mapping
	fragments []fragment        // index order
	exact     map[string]string // fragment -> id
}

// NewEncoder indexes every contiguous word run of every identifier.
// Hyphens and spaces separate words. When two identifiers share a run,
// the one earlier in the mapping keeps it.
func NewEncoder(m Mapping) *Encoder {
	e := &Encoder{
		mapping: m,
		exact:   make(map[string]string),
	}
	for _, entry := range m.entries {
		words := splitWords(entry.ID)
		for i := range words {
			for j := i + 1; j <= len(words); j++ {
				key := strings.Join(words[i:j], " ")
				if _, taken := e.exact[key]; taken {
					continue
				}
				e.exact[key] = entry.ID
				e.fragments = append(e.fragments, fragment{key: key, id: entry.ID})
			}
		}
	}
	slog.Debug("product encoder indexed", "products", m.Len(), "fragments", len(e.fragments))
	return e
}

func splitWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t'
	})
}

// Mapping returns the mapping the encoder was built from.
func (e *Encoder) Mapping() Mapping {
	return e.mapping
}

// Match returns the product identifier for a free-text item name: the
// fragment equal to the lowercased name, else the longest fragment
// contained in it, earliest indexed first on ties.
func (e *Encoder) Match(name string) (string, bool) {
	lower := strings.ToLower(name)
	if id, ok := e.exact[lower]; ok {
		return id, true
	}

	best, bestLen := "", 0
	for _, f := range e.fragments {
		if len(f.key) > bestLen && strings.Contains(lower, f.key) {
			best, bestLen = f.id, len(f.key)
		}
	}
	return best, bestLen > 0
}

// Encode returns the label code for items. See EncodeDetailed.
func (e *Encoder) Encode(items []Item) string {
	return e.EncodeDetailed(items).Code
}

// EncodeDetailed tallies codes over all matched items and renders them
// sorted alphabetically as "{code}" or "{count}{code}", joined with "+".
// Items that match nothing are skipped and reported in Unmatched.
func (e *Encoder) EncodeDetailed(items []Item) Result {
	tally := make(map[string]int)
	var res Result

	for _, item := range items {
		id, ok := e.Match(item.Name)
		if !ok {
			slog.Warn("no product matches order item", "item", item.Name)
			res.Unmatched = append(res.Unmatched, item.Name)
			continue
		}
		codes, _ := e.mapping.Lookup(id)
		for _, c := range codes.List() {
			tally[c] += item.Quantity
		}
	}

	if len(tally) == 0 {
		res.Code = NoMatch
		return res
	}

	keys := make([]string, 0, len(tally))
	for k := range tally {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		if n := tally[k]; n > 1 {
			parts[i] = strconv.Itoa(n) + k
		} else {
			parts[i] = k
		}
	}
	res.Code = strings.Join(parts, "+")
	return res
}
