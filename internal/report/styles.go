package report

import (
	"fmt"

	"github.com/vbonduro/vistoria/internal/domain"
)

type rgb struct{ R, G, B int }

func (c rgb) hex() string {
	return fmt.Sprintf("%02X%02X%02X", c.R, c.G, c.B)
}

var (
	colorBand      = rgb{26, 26, 26}
	colorAccent    = rgb{255, 167, 38}
	colorWhite     = rgb{255, 255, 255}
	colorBlack     = rgb{0, 0, 0}
	colorPanelLine = rgb{200, 200, 200}
	colorPanelFill = rgb{250, 250, 250}
	colorStripe    = rgb{245, 245, 245}
	colorRoomHead  = rgb{200, 200, 200}
	colorGridLine  = rgb{220, 220, 220}
	colorFooter    = rgb{128, 128, 128}
)

type conditionStyle struct {
	Fill rgb
	Text rgb
}

// styleFor returns the cell colors of a condition. Anything that is not one
// of the three ratings gets the neutral style.
func styleFor(c domain.Condition) conditionStyle {
	switch c {
	case domain.ConditionGood:
		return conditionStyle{Fill: rgb{232, 245, 233}, Text: rgb{27, 94, 32}}
	case domain.ConditionPoor:
		return conditionStyle{Fill: rgb{255, 243, 224}, Text: rgb{230, 81, 0}}
	case domain.ConditionVeryPoor:
		return conditionStyle{Fill: rgb{255, 235, 238}, Text: rgb{198, 40, 40}}
	default:
		return conditionStyle{Fill: rgb{250, 250, 250}, Text: rgb{51, 51, 51}}
	}
}
