package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrInvalidDossierNumber is returned when an identifier does not match the
// <digits> or <digits>-<digits> scheme.
var ErrInvalidDossierNumber = fmt.Errorf("invalid dossier number")

// DossierNumberParts contains the parsed components of a dossier number.
// A bare parent number has Suffix 0.
type DossierNumberParts struct {
	Parent int
	Suffix int
}

// String rebuilds the canonical identifier from its components.
func (p DossierNumberParts) String() string {
	if p.Suffix == 0 {
		return strconv.Itoa(p.Parent)
	}
	return fmt.Sprintf("%d-%d", p.Parent, p.Suffix)
}

// ParseDossierNumber parses "<parent>" or "<parent>-<suffix>" into numeric
// components. Malformed input (non-numeric parent or suffix, multiple
// dashes) fails with ErrInvalidDossierNumber.
func ParseDossierNumber(number string) (DossierNumberParts, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return DossierNumberParts{}, fmt.Errorf("%w: empty", ErrInvalidDossierNumber)
	}

	parts := strings.Split(number, "-")
	if len(parts) > 2 {
		return DossierNumberParts{}, fmt.Errorf("%w: %q has multiple dashes", ErrInvalidDossierNumber, number)
	}

	parent, err := strconv.Atoi(parts[0])
	if err != nil || parent < 0 {
		return DossierNumberParts{}, fmt.Errorf("%w: %q has a non-numeric parent", ErrInvalidDossierNumber, number)
	}

	suffix := 0
	if len(parts) == 2 {
		suffix, err = strconv.Atoi(parts[1])
		if err != nil || suffix < 1 {
			return DossierNumberParts{}, fmt.Errorf("%w: %q has a non-numeric suffix", ErrInvalidDossierNumber, number)
		}
	}

	return DossierNumberParts{Parent: parent, Suffix: suffix}, nil
}

// NextParentNumber returns one greater than the maximum parent number across
// all existing identifiers, or the configured starting value when none
// parse. Unparsable identifiers are skipped.
func NextParentNumber(existing []string, start int) int {
	maxParent := 0
	found := false
	for _, id := range existing {
		parts, err := ParseDossierNumber(id)
		if err != nil {
			continue
		}
		if !found || parts.Parent > maxParent {
			maxParent = parts.Parent
			found = true
		}
	}
	if !found {
		return start
	}
	return maxParent + 1
}

// NextChildNumber returns "<parent>-<n>" where n is one greater than the
// highest suffix currently in use under parent. A bare parent identifier
// does not count as a suffix, so the first child is always "<parent>-1".
func NextChildNumber(existing []string, parent int) string {
	maxSuffix := 0
	for _, id := range existing {
		parts, err := ParseDossierNumber(id)
		if err != nil || parts.Parent != parent {
			continue
		}
		if parts.Suffix > maxSuffix {
			maxSuffix = parts.Suffix
		}
	}
	return fmt.Sprintf("%d-%d", parent, maxSuffix+1)
}

// CompareDossierNumbers orders two identifiers by numeric parent, then
// numeric suffix. Unparsable identifiers compare after all parsable ones
// and equal to each other, so a stable sort keeps their input order.
func CompareDossierNumbers(a, b string) int {
	pa, errA := ParseDossierNumber(a)
	pb, errB := ParseDossierNumber(b)
	if errA != nil || errB != nil {
		switch {
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		}
		return 0
	}
	if pa.Parent != pb.Parent {
		if pa.Parent < pb.Parent {
			return -1
		}
		return 1
	}
	switch {
	case pa.Suffix < pb.Suffix:
		return -1
	case pa.Suffix > pb.Suffix:
		return 1
	}
	return 0
}

// SortDossierNumbers orders identifiers by numeric parent, then numeric
// suffix, so "12937-10" sorts after "12937-9" and before "12938". A plain
// string sort is wrong here. Unparsable identifiers never abort the sort;
// they are placed after all parsable ones, keeping their relative input
// order.
func SortDossierNumbers(numbers []string) []string {
	sorted := make([]string, len(numbers))
	copy(sorted, numbers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return CompareDossierNumbers(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// SameFamily reports whether two identifiers share a parent component.
// Parsed equality, not string prefixes: "129" must not match "1293".
func SameFamily(a, b string) bool {
	pa, errA := ParseDossierNumber(a)
	pb, errB := ParseDossierNumber(b)
	if errA != nil || errB != nil {
		return false
	}
	return pa.Parent == pb.Parent
}
