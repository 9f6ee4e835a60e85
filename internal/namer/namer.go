// Package namer computes branch-derived session names. The first session on
// a branch takes the bare branch name; later ones take "branch (N)" with N
// counting up from 2.
package namer

import (
	"fmt"
	"strconv"
	"strings"
)

// Ordinal extracts the ordinal a session name occupies for branch.
// "branch" is ordinal 1; "branch (N)" with integer N >= 2 is ordinal N.
// Every other name, including an explicit "branch (1)", is foreign and
// returns ok=false.
func Ordinal(branch, name string) (int, bool) {
	if name == branch {
		return 1, true
	}
	rest, found := strings.CutPrefix(name, branch+" (")
	if !found {
		return 0, false
	}
	num, found := strings.CutSuffix(rest, ")")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(num)
	if err != nil || n < 2 || strconv.Itoa(n) != num {
		return 0, false
	}
	return n, true
}

// Next returns the next free name for branch given the names already in use.
// It always appends past the highest observed ordinal and never fills gaps,
// so a deleted session's ordinal is never handed out again. The result is
// independent of the order of existing.
func Next(branch string, existing []string) string {
	max := 0
	for _, name := range existing {
		if n, ok := Ordinal(branch, name); ok && n > max {
			max = n
		}
	}
	if max == 0 {
		return branch
	}
	return fmt.Sprintf("%s (%d)", branch, max+1)
}

// Sanitize strips control characters from a branch name before it is used
// as a display name.
func Sanitize(branch string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, branch)
}
