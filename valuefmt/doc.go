// Package valuefmt renders the display projection of Date/Time/Timestamp/
// Interval/Money values from a QVD NumberFormat pattern (C2). It mirrors
// original_source/pyqvd/io/format.py token-substitution logic, including
// Interval's cascading-unit rule.
package valuefmt
