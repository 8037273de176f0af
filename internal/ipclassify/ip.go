// Package ipclassify partitions resolved addresses into public, internal
// and bogus buckets per spec.md §4.4.
package ipclassify

import (
	"strconv"
	"strings"

	"github.com/domainguard/domainguard/internal/model"
)

var bogus = map[string]struct{}{
	"127.0.0.1":       {},
	"0.0.0.0":         {},
	"255.255.255.255": {},
	"::1":             {},
	"localhost":       {},
}

// Classification is the result of classifying one candidate's resolved
// addresses.
type Classification struct {
	Public   []string
	Internal []string
	Flags    []model.IPFlag
}

// Classify partitions ips into public/internal sets and derives the flag
// set. public/internal are disjoint and their union equals ips (modulo
// order).
func Classify(ips []string) Classification {
	var c Classification
	flagSet := map[model.IPFlag]struct{}{}

	for _, ip := range ips {
		switch {
		case isBogus(ip):
			c.Internal = append(c.Internal, ip)
			addBogusFlags(ip, flagSet)
		case isPrivate(ip):
			c.Internal = append(c.Internal, ip)
			addPrivateFlags(ip, flagSet)
		default:
			c.Public = append(c.Public, ip)
		}
	}

	for f := range flagSet {
		c.Flags = append(c.Flags, f)
	}
	return c
}

func isBogus(ip string) bool {
	_, ok := bogus[ip]
	return ok
}

func addBogusFlags(ip string, flags map[model.IPFlag]struct{}) {
	switch ip {
	case "127.0.0.1", "localhost":
		flags[model.FlagLocalhost] = struct{}{}
	case "0.0.0.0":
		flags[model.FlagNullRoute] = struct{}{}
	}
}

func isPrivate(ip string) bool {
	if strings.HasPrefix(ip, "10.") || strings.HasPrefix(ip, "192.168.") {
		return true
	}
	if strings.HasPrefix(ip, "172.") {
		return isPrivate172(ip)
	}
	return false
}

func addPrivateFlags(ip string, flags map[model.IPFlag]struct{}) {
	switch {
	case strings.HasPrefix(ip, "10."):
		flags[model.FlagPrivate10] = struct{}{}
	case strings.HasPrefix(ip, "192.168."):
		flags[model.FlagPrivate192] = struct{}{}
	case strings.HasPrefix(ip, "172.") && isPrivate172(ip):
		flags[model.FlagPrivate172] = struct{}{}
	}
}

// isPrivate172 matches 172.16.0.0/12, i.e. the second octet in [16,31].
func isPrivate172(ip string) bool {
	parts := strings.Split(ip, ".")
	if len(parts) != 4 {
		return false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	return n >= 16 && n <= 31
}
