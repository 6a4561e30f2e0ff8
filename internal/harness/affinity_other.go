//go:build !linux

package harness

import "errors"

func pinCPU(int) (func(), error) {
	return nil, errors.New("CPU pinning is only supported on linux")
}
