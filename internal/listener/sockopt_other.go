//go:build !linux && !darwin

package listener

import "syscall"

func reuseAddr(network, address string, c syscall.RawConn) error {
	return nil
}
