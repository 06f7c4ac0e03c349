// Package money formatea montos decimales para mensajes al usuario.
package money

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Formatter formatea montos con dos decimales según el idioma configurado.
type Formatter struct {
	printer *message.Printer
	symbol  string
}

// NewFormatter construye un formateador. locale inválido cae a pt-BR.
func NewFormatter(locale, symbol string) *Formatter {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	return &Formatter{printer: message.NewPrinter(tag), symbol: symbol}
}

// Format devuelve el monto redondeado a 2 decimales con separadores locales, ej. "R$ 1.234,50".
func (f *Formatter) Format(amount decimal.Decimal) string {
	v := amount.Round(2).InexactFloat64()
	if f.symbol == "" {
		return f.printer.Sprintf("%.2f", v)
	}
	return f.symbol + " " + f.printer.Sprintf("%.2f", v)
}
