//go:build !linux

package device

// Memory size is not probed off Linux; Classify treats 0 as unknown.
func totalMemoryGB() float64 { return 0 }
