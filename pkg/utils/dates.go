package utils

import (
	"strconv"
	"strings"
	"time"
)

var persianDigits = strings.NewReplacer(
	"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴",
	"5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
)

// FormatPersianDate renders t as a Solar Hijri y/m/d date with Persian digits,
// the format subscription expiry dates have always been stored in.
func FormatPersianDate(t time.Time) string {
	y, m, d := ToJalali(t)
	return persianDigits.Replace(strconv.Itoa(y) + "/" + strconv.Itoa(m) + "/" + strconv.Itoa(d))
}

// ToJalali converts the calendar date of t to the Solar Hijri calendar.
func ToJalali(t time.Time) (year, month, day int) {
	cumulative := [12]int{0, 31, 59, 90, 120, 151, 181, 212, 243, 273, 304, 334}
	gy, gm, gd := t.Year(), int(t.Month()), t.Day()

	gy2 := gy
	if gm > 2 {
		gy2 = gy + 1
	}
	days := 355666 + 365*gy + (gy2+3)/4 - (gy2+99)/100 + (gy2+399)/400 + gd + cumulative[gm-1]

	year = -1595 + 33*(days/12053)
	days %= 12053
	year += 4 * (days / 1461)
	days %= 1461
	if days > 365 {
		year += (days - 1) / 365
		days = (days - 1) % 365
	}

	if days < 186 {
		return year, 1 + days/31, 1 + days%31
	}
	return year, 7 + (days-186)/30, 1 + (days-186)%30
}
