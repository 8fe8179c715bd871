package pricing

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/valentindosimont/ocmon/internal/session"
)

// DefaultContextWindow is assumed when a model has no pricing entry.
const DefaultContextWindow = 200_000

// ModelPricing is the static reference data for one model: USD per
// million tokens per category, plus context window and session quota.
type ModelPricing struct {
	Input         decimal.Decimal `json:"input"`
	Output        decimal.Decimal `json:"output"`
	CacheWrite    decimal.Decimal `json:"cacheWrite"`
	CacheRead     decimal.Decimal `json:"cacheRead"`
	ContextWindow int64           `json:"contextWindow"`
	SessionQuota  decimal.Decimal `json:"sessionQuota"`
}

// Table maps model identifiers to pricing entries. Loaded once and
// treated as immutable; reload means constructing a new Table.
type Table map[string]ModelPricing

// LoadTable reads a pricing table from a JSON file. A malformed file is a
// hard configuration error; a missing file yields an empty table.
func LoadTable(path string) (Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Table{}, nil
		}
		return nil, fmt.Errorf("read pricing file %s: %w", path, err)
	}

	var table Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("invalid pricing file %s: %w", path, err)
	}
	return table, nil
}

// Resolve maps a model identifier to its pricing entry. Matching order:
// exact key, normalized identifier, then a fuzzy prefix match restricted
// to same-family variants. Returns false when nothing matches.
func (t Table) Resolve(modelID string) (ModelPricing, bool) {
	if p, ok := t[modelID]; ok {
		return p, true
	}

	normalized := session.NormalizeModelID(modelID)
	if p, ok := t[normalized]; ok {
		return p, true
	}

	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if fuzzyMatch(normalized, key) {
			return t[key], true
		}
	}
	return ModelPricing{}, false
}

// fuzzyMatch accepts a pricing key for a normalized identifier when the
// two are mutual prefixes and stripping a literal "-extended" suffix from
// either side makes them equal. This admits long-context variants of the
// same family and rejects unrelated prefix collisions (gpt-4 vs gpt-40).
func fuzzyMatch(normalized, key string) bool {
	if !strings.HasPrefix(normalized, key) && !strings.HasPrefix(key, normalized) {
		return false
	}
	return strings.ReplaceAll(key, "-extended", "") == normalized ||
		strings.ReplaceAll(normalized, "-extended", "") == key
}

var million = decimal.NewFromInt(1_000_000)

// Cost computes the USD cost of a token usage against a model's pricing.
// An unresolvable model costs zero. Decimal arithmetic throughout, so
// summing millions of small records does not drift.
func (t Table) Cost(modelID string, usage session.TokenUsage) decimal.Decimal {
	p, ok := t.Resolve(modelID)
	if !ok {
		return decimal.Zero
	}

	cost := decimal.NewFromInt(usage.Input).Div(million).Mul(p.Input)
	cost = cost.Add(decimal.NewFromInt(usage.Output).Div(million).Mul(p.Output))
	cost = cost.Add(decimal.NewFromInt(usage.CacheWrite).Div(million).Mul(p.CacheWrite))
	cost = cost.Add(decimal.NewFromInt(usage.CacheRead).Div(million).Mul(p.CacheRead))
	return cost
}

// FileCost computes the cost of a single interaction record.
func (t Table) FileCost(f *session.InteractionFile) decimal.Decimal {
	return t.Cost(f.ModelID, f.Tokens)
}

// SessionCost computes the total cost of a session, record by record.
func (t Table) SessionCost(s *session.SessionData) decimal.Decimal {
	total := decimal.Zero
	for _, f := range s.Files {
		total = total.Add(t.FileCost(f))
	}
	return total
}
