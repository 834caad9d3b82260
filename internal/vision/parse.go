package vision

import (
	"fmt"
	"strings"

	"github.com/vbonduro/vistoria/internal/domain"
)

// synonyms maps the words models tend to answer with onto stored conditions.
var synonyms = map[string]domain.Condition{
	"bom":       domain.ConditionGood,
	"otimo":     domain.ConditionGood,
	"excelente": domain.ConditionGood,
	"good":      domain.ConditionGood,
	"ruim":      domain.ConditionPoor,
	"regular":   domain.ConditionPoor,
	"poor":      domain.ConditionPoor,
	"fair":      domain.ConditionPoor,
	"pessimo":   domain.ConditionVeryPoor,
	"bad":       domain.ConditionVeryPoor,
	"terrible":  domain.ConditionVeryPoor,
}

// ParseAssessment reads a model reply in the form "condição | descrição".
// Preamble lines are skipped; the first line whose leading field names a
// condition wins. A missing description falls back to the stock text for the
// item.
func ParseAssessment(raw, itemName string) (*Assessment, error) {
	for _, line := range strings.Split(raw, "\n") {
		cond, desc, ok := ParseLine(line)
		if !ok {
			continue
		}
		if desc == "" {
			desc = domain.DefaultDescription(displayName(itemName), cond)
		}
		return &Assessment{Condition: cond, Description: desc, RawResponse: raw}, nil
	}
	return nil, fmt.Errorf("no condition in model response: %w", domain.ErrTransient)
}

// ParseLine extracts the condition and description of one reply line.
func ParseLine(line string) (domain.Condition, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return domain.ConditionUnset, "", false
	}

	head, desc, _ := strings.Cut(line, "|")
	key := domain.Fold(strings.Trim(strings.TrimSpace(head), "*_`\"'.:-"))
	cond, ok := synonyms[key]
	if !ok {
		return domain.ConditionUnset, "", false
	}
	return cond, strings.TrimSpace(desc), true
}

func displayName(itemName string) string {
	if name := strings.TrimSpace(itemName); name != "" {
		return name
	}
	return "Item"
}
