package service

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	displayDateLayout  = "02/01/2006, 15:04"
	filenameDateLayout = "02_01_2006_15_04"
)

// FormatBRL renders minor units the way pt-BR shows currency: "R$ 1.234,50".
func FormatBRL(minor int64) string {
	amount := decimal.New(minor, -2)
	sign := ""
	if amount.IsNegative() {
		sign = "-"
		amount = amount.Neg()
	}

	fixed := amount.StringFixed(2)
	whole, cents, _ := strings.Cut(fixed, ".")

	var grouped strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	return sign + "R$ " + grouped.String() + "," + cents
}

func formatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(displayDateLayout)
}

func filename(t time.Time, loc *time.Location) string {
	return "comprovante_" + t.In(loc).Format(filenameDateLayout) + ".pdf"
}
