// Package vision asks an image model to rate the condition of an inspected
// item from a photo.
package vision

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/vbonduro/vistoria/internal/domain"
)

// promptTemplate is shared by all adapters. The reply format is parsed by
// ParseAssessment.
const promptTemplate = `Você é um vistoriador de imóveis. Avalie o estado de conservação de %s na foto.
Responda em uma única linha no formato: condição | descrição
A condição deve ser exatamente uma destas palavras: bom, ruim, pessimo.
A descrição é uma frase curta em português sobre o que se observa.`

// Prompt builds the instruction sent with a photo of itemName.
func Prompt(itemName string) string {
	subject := "o item mostrado"
	if name := strings.TrimSpace(itemName); name != "" {
		subject = fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf(promptTemplate, subject)
}

// ConditionAnalyzer suggests a condition for the item shown in a photo.
type ConditionAnalyzer interface {
	Analyze(ctx context.Context, r io.Reader, mimeType, itemName string) (*Assessment, error)
}

type Assessment struct {
	Condition   domain.Condition `json:"condition"`
	Description string           `json:"description"`
	RawResponse string           `json:"raw_response,omitempty"`
}
