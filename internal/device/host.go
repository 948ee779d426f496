package device

import "runtime"

// HostSignals gathers Signals from the running process: logical CPU count,
// total physical memory where the platform exposes it, and mobile class
// from the target OS.
func HostSignals() Signals {
	return Signals{
		CPUCores: runtime.NumCPU(),
		MemoryGB: totalMemoryGB(),
		Mobile:   isMobileOS(runtime.GOOS),
	}
}

func isMobileOS(goos string) bool {
	return goos == "android" || goos == "ios"
}
