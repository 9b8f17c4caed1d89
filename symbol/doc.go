// Package symbol implements the QVD symbol table codec (C4): translating
// between a column's raw on-disk byte region and an ordered slice of
// qvd.Value, one entry per distinct symbol in first-seen order.
package symbol
