package lms

// Conversion factors between the dataset units and the metric units of the reference tables.
const (
	PoundsPerKilogram  = 2.20462262185
	CentimetersPerInch = 2.54
)

// ToKilograms converts pounds to kilograms
func ToKilograms(pounds float64) float64 {
	return pounds / PoundsPerKilogram
}

// ToCentimeters converts inches to centimeters
func ToCentimeters(inches float64) float64 {
	return inches * CentimetersPerInch
}
