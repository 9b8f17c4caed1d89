package valuefmt

import (
	"fmt"
	"strings"
	"time"
)

// tokenRule pairs a QVD date/time format token with the function that
// renders it from a time.Time. Order matters: a token that is a prefix of
// another (MM/MMM/MMMM, YY/YYYY, f/ff/.../ffffff) must be listed longest
// first so substitution never clobbers part of a longer token.
type tokenRule struct {
	token string
	apply func(time.Time) string
}

var datetimeTokens = []tokenRule{
	{"YYYY", func(t time.Time) string { return fmt.Sprintf("%04d", t.Year()) }},
	{"YY", func(t time.Time) string { return fmt.Sprintf("%02d", t.Year()%100) }},
	{"MMMM", func(t time.Time) string { return t.Month().String() }},
	{"MMM", func(t time.Time) string { return t.Month().String()[:3] }},
	{"MM", func(t time.Time) string { return fmt.Sprintf("%02d", int(t.Month())) }},
	{"DD", func(t time.Time) string { return fmt.Sprintf("%02d", t.Day()) }},
	{"hh", func(t time.Time) string { return fmt.Sprintf("%02d", t.Hour()) }},
	{"HH", func(t time.Time) string { return fmt.Sprintf("%02d", hour12(t)) }},
	{"mm", func(t time.Time) string { return fmt.Sprintf("%02d", t.Minute()) }},
	{"ss", func(t time.Time) string { return fmt.Sprintf("%02d", t.Second()) }},
	{"ffffff", func(t time.Time) string { return fmt.Sprintf("%06d", t.Nanosecond()/1000) }},
	{"fffff", func(t time.Time) string { return fmt.Sprintf("%05d", t.Nanosecond()/1000/10) }},
	{"ffff", func(t time.Time) string { return fmt.Sprintf("%04d", t.Nanosecond()/1000/100) }},
	{"fff", func(t time.Time) string { return fmt.Sprintf("%03d", t.Nanosecond()/1000/1000) }},
	{"ff", func(t time.Time) string { return fmt.Sprintf("%02d", t.Nanosecond()/1000/10000) }},
	{"f", func(t time.Time) string { return fmt.Sprintf("%01d", t.Nanosecond()/1000/100000) }},
	{"tt", func(t time.Time) string { return ampm(t) }},
}

func hour12(t time.Time) int {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}

	return h
}

func ampm(t time.Time) string {
	if t.Hour() < 12 {
		return "AM"
	}

	return "PM"
}

// substituteDatetime renders pattern by replacing every recognized token
// with its value at t, longest-prefix-first so overlapping tokens never
// clobber each other.
func substituteDatetime(pattern string, t time.Time) string {
	result := pattern
	for _, rule := range datetimeTokens {
		result = strings.ReplaceAll(result, rule.token, rule.apply(t))
	}

	return result
}
