package juniper

import (
	"strconv"
	"strings"
)

type l3Ref struct {
	family string
	unit   string
}

// parseL3 splits a vlan's l3-interface reference ("vlan.25",
// "irb.25", or any "<family>.<unit>") into family and unit. This
// mirrors xmlengine.ParseL3Interface but returns the small internal
// shape reads.go matches interfaces against.
func parseL3(raw string) (l3Ref, bool) {
	idx := strings.LastIndexByte(raw, '.')
	if idx < 0 {
		return l3Ref{}, false
	}
	return l3Ref{family: raw[:idx], unit: raw[idx+1:]}, true
}

// splitCIDR splits "a.b.c.d/n" into address and prefix length.
func splitCIDR(raw string) (string, int, bool) {
	idx := strings.LastIndexByte(raw, '/')
	if idx < 0 {
		return raw, 0, true
	}
	n, err := strconv.Atoi(raw[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return raw[:idx], n, true
}

// trimAE strips a leading "ae" from a bond interface name, leaving
// the bare bond number as a string (e.g. "ae6" -> "6").
func trimAE(name string) string {
	return strings.TrimPrefix(name, "ae")
}

func itoa(n int) string { return strconv.Itoa(n) }
