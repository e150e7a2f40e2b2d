//go:build linux

package netman

import (
	"fmt"

	"github.com/vishvananda/netlink"
)

// netlinkAddrReader reads interface addresses through rtnetlink.
type netlinkAddrReader struct{}

// NewAddrReader returns an AddrReader backed by netlink.
func NewAddrReader() AddrReader {
	return &netlinkAddrReader{}
}

func (netlinkAddrReader) InterfaceIPv4(name string) (string, error) {
	link, err := netlink.LinkByName(name)
	if err != nil {
		// A missing link is indistinguishable from "no address yet"
		// while NetworkManager is reconfiguring the device.
		if _, ok := err.(netlink.LinkNotFoundError); ok {
			return "", nil
		}
		return "", fmt.Errorf("netman: link %s: %w", name, err)
	}

	addrs, err := netlink.AddrList(link, netlink.FAMILY_V4)
	if err != nil {
		return "", fmt.Errorf("netman: list addresses for %s: %w", name, err)
	}

	for _, addr := range addrs {
		if addr.IP == nil || addr.IP.IsLoopback() || addr.IP.IsLinkLocalUnicast() {
			continue
		}
		return addr.IP.String(), nil
	}
	return "", nil
}
