//go:build !linux

package main

import (
	"errors"
)

func openRadio() (radio, error) {
	return nil, errors.New("HCI scanning is only supported on Linux")
}
