//go:build !linux

package netman

import "errors"

type unsupportedAddrReader struct{}

// NewAddrReader returns an AddrReader on platforms without rtnetlink support.
func NewAddrReader() AddrReader {
	return &unsupportedAddrReader{}
}

func (unsupportedAddrReader) InterfaceIPv4(string) (string, error) {
	return "", errors.New("netman: address lookup not supported on this platform")
}
