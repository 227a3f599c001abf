// internal/pricing/format.go
package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatPremium renders a premium as US currency text, e.g. "$1,720".
func FormatPremium(premium int) string {
	p := message.NewPrinter(language.AmericanEnglish)
	if premium < 0 {
		return p.Sprintf("-$%d", -premium)
	}
	return p.Sprintf("$%d", premium)
}
