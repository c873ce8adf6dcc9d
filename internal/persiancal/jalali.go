// Package persiancal converts between the Jalali (Solar Hijri) calendar
// used throughout Tehran Stock Exchange provider payloads and Go's native
// Gregorian time.Time, and normalizes the Persian-Arabic digits those
// payloads often use.
//
// Kept as an independent module per the source system's own convention:
// Persian date handling does not belong inside any provider client or
// analytics function, since every provider speaks Jalali dates but every
// internal computation (bar ordering, freshness comparison) needs a
// comparable time.Time.
package persiancal

import (
	"fmt"
	"time"
)

// jalaliLeapYears is the set of years (mod 33) that carry an intercalary
// day, per the 33-year cycle approximation of the Jalali calendar — the
// same leap-year-table approach used by lightweight Jalali libraries.
var jalaliLeapYears = map[int]bool{
	1: true, 5: true, 9: true, 13: true, 17: true, 22: true, 26: true, 30: true,
}

// cycleDays is the number of days in one full 33-year cycle: 33 common
// years of 365 days, plus the 8 leap days the cycle contributes.
const cycleDays = 33*365 + 8

// jalaliEpoch is Farvardin 1, year 1 on the Jalali calendar (1 Farvardin AP 1).
var jalaliEpoch = time.Date(622, time.March, 22, 0, 0, 0, 0, time.UTC)

// IsLeapJalaliYear reports whether the given Jalali year has 366 days.
func IsLeapJalaliYear(year int) bool {
	r := ((year - 1) % 33) + 1
	if r <= 0 {
		r += 33
	}
	return jalaliLeapYears[r]
}

func yearLength(year int) int {
	if IsLeapJalaliYear(year) {
		return 366
	}
	return 365
}

// monthLengths returns the 12 month lengths for the given Jalali year.
func monthLengths(year int) [12]int {
	last := 29
	if IsLeapJalaliYear(year) {
		last = 30
	}
	return [12]int{31, 31, 31, 31, 31, 31, 30, 30, 30, 30, 30, last}
}

func daysBeforeYear(year int) int {
	days := 0
	if year >= 1 {
		for y := 1; y < year; y++ {
			days += yearLength(y)
		}
		return days
	}
	for y := year; y < 1; y++ {
		days -= yearLength(y)
	}
	return days
}

// ToGregorian converts a Jalali calendar date to a Gregorian time.Time at
// midnight UTC. month and day are 1-indexed.
func ToGregorian(year, month, day int) (time.Time, error) {
	if month < 1 || month > 12 {
		return time.Time{}, fmt.Errorf("persiancal: month %d out of range", month)
	}
	lengths := monthLengths(year)
	if day < 1 || day > lengths[month-1] {
		return time.Time{}, fmt.Errorf("persiancal: day %d out of range for %d/%d", day, year, month)
	}

	days := daysBeforeYear(year)
	for m := 1; m < month; m++ {
		days += lengths[m-1]
	}
	days += day - 1

	return jalaliEpoch.AddDate(0, 0, days), nil
}

// ToJalali converts a Gregorian time.Time to its Jalali calendar date.
func ToJalali(t time.Time) (year, month, day int) {
	t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	totalDays := int(t.Sub(jalaliEpoch).Hours() / 24)

	cycles := totalDays / cycleDays
	remainder := totalDays % cycleDays
	if remainder < 0 {
		cycles--
		remainder += cycleDays
	}
	year = 1 + cycles*33

	for {
		yl := yearLength(year)
		if remainder < yl {
			break
		}
		remainder -= yl
		year++
	}

	lengths := monthLengths(year)
	month = 1
	for _, ml := range lengths {
		if remainder < ml {
			break
		}
		remainder -= ml
		month++
	}
	day = remainder + 1
	return year, month, day
}

// Format renders a Jalali date as "YYYY/MM/DD".
func Format(t time.Time) string {
	y, m, d := ToJalali(t)
	return fmt.Sprintf("%04d/%02d/%02d", y, m, d)
}

// Parse reads a "YYYY/MM/DD" Jalali date string (after digit
// normalization) into a Gregorian time.Time.
func Parse(s string) (time.Time, error) {
	s = NormalizeDigits(s)
	var y, m, d int
	if _, err := fmt.Sscanf(s, "%d/%d/%d", &y, &m, &d); err != nil {
		return time.Time{}, fmt.Errorf("persiancal: invalid date %q: %w", s, err)
	}
	return ToGregorian(y, m, d)
}
