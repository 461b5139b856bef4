// Package gpu builds and parses accelerator index lists.
//
// Training entry points take the devices to use as a comma-separated list of
// ascending indices ("0,1,2,3"); schedulers expose the same shape through
// CUDA_VISIBLE_DEVICES. This package is the single place that constructs and
// validates that format.
package gpu

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// CudaVisibleDevicesKey is the environment variable CUDA runtimes read to
// restrict device visibility.
// https://devblogs.nvidia.com/cuda-pro-tip-control-gpu-visibility-cuda_visible_devices/
const CudaVisibleDevicesKey = "CUDA_VISIBLE_DEVICES"

// ErrInvalidCount indicates a device count below 1.
var ErrInvalidCount = fmt.Errorf("device count must be at least 1")

// ErrInvalidIndexList indicates a malformed device index list.
var ErrInvalidIndexList = fmt.Errorf("invalid device index list")

// Indices returns the device indices 0..n-1.
// Returns ErrInvalidCount when n < 1.
func Indices(n int) ([]int, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCount, n)
	}
	ids := make([]int, n)
	for i := range ids {
		ids[i] = i
	}
	return ids, nil
}

// IndexList returns the comma-joined ascending index list for n devices:
// IndexList(1) = "0", IndexList(4) = "0,1,2,3".
// Returns ErrInvalidCount when n < 1.
func IndexList(n int) (string, error) {
	ids, err := Indices(n)
	if err != nil {
		return "", err
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ","), nil
}

// ParseIndexList parses a comma-separated device index list ("0,1,2") into
// its integer indices. Duplicates and negative indices are rejected.
func ParseIndexList(val string) ([]int, error) {
	if strings.TrimSpace(val) == "" {
		return nil, fmt.Errorf("%w: empty list", ErrInvalidIndexList)
	}
	parts := strings.Split(val, ",")
	seen := make(map[int]struct{}, len(parts))
	ids := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidIndexList, p)
		}
		if n < 0 {
			return nil, fmt.Errorf("%w: negative index %d", ErrInvalidIndexList, n)
		}
		if _, ok := seen[n]; ok {
			return nil, fmt.Errorf("%w: duplicate index %d", ErrInvalidIndexList, n)
		}
		seen[n] = struct{}{}
		ids = append(ids, n)
	}
	return ids, nil
}

// Count returns the number of devices in a comma-separated index list.
func Count(val string) (int, error) {
	ids, err := ParseIndexList(val)
	if err != nil {
		return 0, err
	}
	return len(ids), nil
}

// CountFromEnv reads CUDA_VISIBLE_DEVICES and returns the number of visible
// devices. Returns 0 (not an error) when the variable is unset or empty.
func CountFromEnv() int {
	val, ok := os.LookupEnv(CudaVisibleDevicesKey)
	if !ok || val == "" {
		return 0
	}
	ids, err := ParseIndexList(val)
	if err != nil {
		return 0
	}
	return len(ids)
}
