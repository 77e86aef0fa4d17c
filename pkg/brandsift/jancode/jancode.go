// Package jancode derives issuer (company) codes from JAN product barcodes.
//
// GS1 Japan assigns 7-digit company codes under the 49 and 450-455 prefixes
// and 9-digit company codes everywhere else. Ranking/transaction codes embed
// a JAN code behind a fixed marketplace literal; helpers here strip that
// literal and build the catalogue alias used by the product master.
package jancode

import "strings"

// RancodePrefix is the marketplace literal embedded in ranking codes.
const RancodePrefix = "1001000"

// AliasPrefix is prepended to a derived company code to form the
// catalogue alias key.
const AliasPrefix = "10"

// CompanyCode returns the issuer-code prefix of a JAN code: the first 7
// characters for codes starting with 49 or 450-455, the first 9 otherwise.
// Codes shorter than the prefix length are returned whole.
func CompanyCode(jan string) string {
	n := 9
	if isShortPrefix(jan) {
		n = 7
	}
	if len(jan) < n {
		return jan
	}
	return jan[:n]
}

// Alias returns the catalogue alias for a JAN code: the derived company
// code behind the fixed alias literal.
func Alias(jan string) string {
	return AliasPrefix + CompanyCode(jan)
}

// FromRancode recovers the JAN item code embedded in a ranking code by
// deleting the marketplace literal.
func FromRancode(rancode string) string {
	return strings.ReplaceAll(rancode, RancodePrefix, "")
}

func isShortPrefix(jan string) bool {
	if strings.HasPrefix(jan, "49") {
		return true
	}
	if len(jan) >= 3 && strings.HasPrefix(jan, "45") && jan[2] >= '0' && jan[2] <= '5' {
		return true
	}
	return false
}
