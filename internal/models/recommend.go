package models

import (
	"encoding/json"
	"sort"
)

// ScoredItem is one recommendation candidate. Payload shapes vary between
// service versions, so the raw object is kept next to the decoded fields.
type ScoredItem struct {
	ItemID    string
	Name      string
	Category  string
	Score     float64
	Rationale []string
	Raw       map[string]any
}

// UnmarshalJSON decodes any object shape; fields are read through FieldRules.
func (s *ScoredItem) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = NewScoredItem(raw)
	return nil
}

// MarshalJSON writes the raw payload back unchanged.
func (s ScoredItem) MarshalJSON() ([]byte, error) {
	if s.Raw != nil {
		return json.Marshal(s.Raw)
	}
	return json.Marshal(map[string]any{
		"item_id":   s.ItemID,
		"nome":      s.Name,
		"categoria": s.Category,
		"score":     s.Score,
		"rationale": s.Rationale,
	})
}

// NewScoredItem builds a scored item from a decoded payload.
func NewScoredItem(raw map[string]any) ScoredItem {
	item := ScoredItem{
		ItemID:   ExtractID(raw),
		Name:     ExtractString(raw, FieldName),
		Category: ExtractString(raw, FieldCategory),
		Raw:      raw,
	}
	if score, ok := raw["score"].(float64); ok {
		item.Score = score
	}
	if list, ok := raw["rationale"].([]any); ok {
		for _, r := range list {
			if s, ok := r.(string); ok {
				item.Rationale = append(item.Rationale, s)
			}
		}
	}
	return item
}

// Completion is the response of the complete-look recommendation.
type Completion struct {
	Targets map[string][]ScoredItem `json:"targets"`
	Missing []string                `json:"missing"`
	Message string                  `json:"message,omitempty"`
}

// Categories returns the filled target categories in sorted order.
func (c *Completion) Categories() []string {
	keys := make([]string, 0, len(c.Targets))
	for k := range c.Targets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Best returns the top candidate for a category, if any.
func (c *Completion) Best(category string) (ScoredItem, bool) {
	items := c.Targets[category]
	if len(items) == 0 {
		return ScoredItem{}, false
	}
	return items[0], true
}

// ResultKind tags a ResultBlock.
type ResultKind int

const (
	// ResultSuggest holds complementary suggestions.
	ResultSuggest ResultKind = iota + 1
	// ResultComplete holds per-target completions.
	ResultComplete
)

func (k ResultKind) String() string {
	switch k {
	case ResultSuggest:
		return "suggest"
	case ResultComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ResultBlock is the most recent recommendation response.
// Exactly one of Suggestions or Completion is meaningful, per Kind.
type ResultBlock struct {
	Kind        ResultKind
	Suggestions []ScoredItem
	Completion  *Completion
}
