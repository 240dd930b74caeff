package lms

// DaysPerMonth is the Gregorian average month length (365.25 days / 12).
const DaysPerMonth = 365.25 / 12

// AgeInMonths converts an age in days to months
func AgeInMonths(days float64) float64 {
	return days / DaysPerMonth
}
