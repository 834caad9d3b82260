package domain

import (
	"fmt"
	"strings"
)

// Condition is the rating recorded for a checklist item. The stored values are
// the Portuguese labels used by the mobile client.
type Condition string

const (
	ConditionUnset    Condition = ""
	ConditionGood     Condition = "bom"
	ConditionPoor     Condition = "ruim"
	ConditionVeryPoor Condition = "pessimo"
)

// Conditions lists the rated values in report column order.
var Conditions = []Condition{ConditionGood, ConditionPoor, ConditionVeryPoor}

// ParseCondition accepts the three stored labels in any case, with or without
// accents, plus the empty string for an item that has not been rated yet.
func ParseCondition(s string) (Condition, error) {
	switch Fold(strings.TrimSpace(s)) {
	case "":
		return ConditionUnset, nil
	case "bom":
		return ConditionGood, nil
	case "ruim":
		return ConditionPoor, nil
	case "pessimo":
		return ConditionVeryPoor, nil
	default:
		return ConditionUnset, fmt.Errorf("unknown condition %q: %w", s, ErrValidation)
	}
}

// Valid reports whether c is one of the three rated values.
func (c Condition) Valid() bool {
	switch c {
	case ConditionGood, ConditionPoor, ConditionVeryPoor:
		return true
	default:
		return false
	}
}

// Label is the human readable form shown in the client and spreadsheets.
func (c Condition) Label() string {
	switch c {
	case ConditionGood:
		return "Bom"
	case ConditionPoor:
		return "Ruim"
	case ConditionVeryPoor:
		return "Péssimo"
	default:
		return "-"
	}
}

// Code is the upper-cased stored label printed in report condition cells.
func (c Condition) Code() string {
	switch c {
	case ConditionGood, ConditionPoor, ConditionVeryPoor:
		return strings.ToUpper(string(c))
	default:
		return "-"
	}
}

// DefaultDescription is the stock observation offered for an item once it has
// been rated. Unset and unknown conditions have none.
func DefaultDescription(itemName string, c Condition) string {
	switch c {
	case ConditionGood:
		return itemName + " em bom estado de conservação, sem danos aparentes."
	case ConditionPoor:
		return itemName + " apresenta sinais de desgaste e necessita de manutenção."
	case ConditionVeryPoor:
		return itemName + " com danos significativos, requer reparo ou substituição urgente."
	default:
		return ""
	}
}
