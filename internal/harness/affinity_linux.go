//go:build linux

package harness

import "golang.org/x/sys/unix"

// pinCPU restricts the calling thread to cpu and returns a function that
// restores the previous mask. The caller must hold runtime.LockOSThread.
func pinCPU(cpu int) (func(), error) {
	var prev unix.CPUSet
	if err := unix.SchedGetaffinity(0, &prev); err != nil {
		return nil, err
	}

	var set unix.CPUSet
	set.Zero()
	set.Set(cpu)
	if err := unix.SchedSetaffinity(0, &set); err != nil {
		return nil, err
	}

	return func() { _ = unix.SchedSetaffinity(0, &prev) }, nil
}
