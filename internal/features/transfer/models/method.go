package models

type Method string

const (
	MethodPIX  Method = "PIX"
	MethodPOS  Method = "POS"
	MethodLink Method = "LINK"
	MethodCard Method = "CARD"
	// MethodMPOS is known but not offered yet.
	MethodMPOS Method = "MPOS"
)

// Offered lists the methods shown as choices, with their display labels.
var Offered = []struct {
	Method Method
	Label  string
}{
	{MethodPIX, "PIX"},
	{MethodPOS, "POS"},
	{MethodLink, "Link"},
	{MethodCard, "Cartão"},
}
