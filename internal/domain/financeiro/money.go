package financeiro

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatBRL renders cents as Brazilian reais, e.g. "R$ 1.234,56".
func FormatBRL(cents int64) string {
	p := message.NewPrinter(language.BrazilianPortuguese)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return sign + p.Sprintf("R$ %.2f", float64(cents)/100)
}
