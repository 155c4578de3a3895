package tracker

import (
	"fmt"
	"strings"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/ibeacon"
)

// GroupID returns the address-independent identity "uuid_major_minor".
func GroupID(adv ibeacon.Advertisement) string {
	return fmt.Sprintf("%s_%d_%d", adv.UUID, adv.Major, adv.Minor)
}

// UniqueID returns the fixed-MAC identity "groupID_address".
func UniqueID(groupID, address string) string {
	return groupID + "_" + address
}

// AddressFromUniqueID returns the address part of a unique id.
func AddressFromUniqueID(uniqueID string) string {
	return uniqueID[strings.LastIndex(uniqueID, "_")+1:]
}

// ShortAddress returns the last two octets of address, uppercased and
// without delimiter ("AA:BB:CC:DD:EE:01" -> "EE01").
func ShortAddress(address string) string {
	parts := strings.Split(strings.ReplaceAll(address, "-", ":"), ":")
	short := strings.ToUpper(strings.Join(parts[max(len(parts)-2, 0):], ""))
	if len(short) > 4 {
		short = short[len(short)-4:]
	}
	return short
}

var delimiters = strings.NewReplacer("-", ":", "_", ":")

func sameAddress(a, b string) bool {
	return strings.EqualFold(delimiters.Replace(a), delimiters.Replace(b))
}

// DisplayName derives a device name. Beacons that advertise no name, or
// their own address as name, are named after their beacon fields. The name
// matches the address case-insensitively with colon, hyphen or underscore
// delimiters. When the identity is keyed by address the short address is
// appended so that beacons sharing one configuration get distinct names.
func DisplayName(address, name string, adv ibeacon.Advertisement, uniqueAddress bool) string {
	base := name
	if name == "" || sameAddress(name, address) {
		base = fmt.Sprintf("%s %d.%d", adv.UUID, adv.Major, adv.Minor)
	}
	if uniqueAddress {
		short := ShortAddress(address)
		if !strings.HasSuffix(base, short) {
			return base + " " + short
		}
	}
	return base
}
