//go:build linux

package main

import (
	"context"
	"errors"

	"github.com/currantlabs/ble/linux"

	"github.com/ibeacon-tracker/ibeacon-go/pkg/scan"
)

type hciRadio struct {
	dev *linux.Device
}

func openRadio() (radio, error) {
	dev, err := linux.NewDevice()
	if err != nil {
		return nil, err
	}
	return &hciRadio{dev: dev}, nil
}

// Scan reports duplicates so that every advertisement refreshes liveness.
func (r *hciRadio) Scan(ctx context.Context, sc *scan.Scanner) error {
	err := r.dev.Scan(ctx, true, sc.HandleFiltered)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *hciRadio) Close() error {
	return r.dev.Stop()
}
