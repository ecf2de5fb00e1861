package engine

import "fmt"

// NumaStrategy is a hardware memory-affinity policy passed to the native
// engine at initialization. The set mirrors ggml_numa_strategy and may grow
// with upstream llama.cpp; callers switching on it must keep a default arm.
type NumaStrategy int32

// Distribute first so the zero value is the engine default. The native codes
// are mapped explicitly below and do not depend on this ordering.
const (
	NumaDistribute NumaStrategy = iota
	NumaDisable
	NumaIsolate
	NumaNumactl
	NumaMirror
	NumaCountStrategy
)

// DefaultNumaStrategy is used when no explicit strategy is requested.
const DefaultNumaStrategy = NumaDistribute

// Native codes of ggml_numa_strategy. Kept as an explicit table rather than
// relying on the Go constants sharing the native ordering.
const (
	nativeNumaDisabled   int32 = 0
	nativeNumaDistribute int32 = 1
	nativeNumaIsolate    int32 = 2
	nativeNumaNumactl    int32 = 3
	nativeNumaMirror     int32 = 4
	nativeNumaCount      int32 = 5
)

// Native returns the ggml_numa_strategy code for s. Unknown values fall back
// to the disabled code rather than handing the native layer garbage.
func (s NumaStrategy) Native() int32 {
	switch s {
	case NumaDisable:
		return nativeNumaDisabled
	case NumaDistribute:
		return nativeNumaDistribute
	case NumaIsolate:
		return nativeNumaIsolate
	case NumaNumactl:
		return nativeNumaNumactl
	case NumaMirror:
		return nativeNumaMirror
	case NumaCountStrategy:
		return nativeNumaCount
	default:
		return nativeNumaDisabled
	}
}

// NumaStrategyFromNative converts a ggml_numa_strategy code back to a
// NumaStrategy. The native enum is closed today but not guaranteed stable;
// codes outside the known set are reported as an error instead of being
// mapped to an arbitrary variant.
func NumaStrategyFromNative(code int32) (NumaStrategy, error) {
	switch code {
	case nativeNumaDisabled:
		return NumaDisable, nil
	case nativeNumaDistribute:
		return NumaDistribute, nil
	case nativeNumaIsolate:
		return NumaIsolate, nil
	case nativeNumaNumactl:
		return NumaNumactl, nil
	case nativeNumaMirror:
		return NumaMirror, nil
	case nativeNumaCount:
		return NumaCountStrategy, nil
	default:
		return NumaDisable, fmt.Errorf("unknown numa strategy code %d", code)
	}
}

// ParseNumaStrategy parses a config/flag value such as "distribute".
func ParseNumaStrategy(s string) (NumaStrategy, error) {
	switch s {
	case "", "distribute":
		return NumaDistribute, nil
	case "disable", "disabled":
		return NumaDisable, nil
	case "isolate":
		return NumaIsolate, nil
	case "numactl":
		return NumaNumactl, nil
	case "mirror":
		return NumaMirror, nil
	case "count":
		return NumaCountStrategy, nil
	default:
		return NumaDisable, fmt.Errorf("unknown numa strategy %q", s)
	}
}

func (s NumaStrategy) String() string {
	switch s {
	case NumaDisable:
		return "disable"
	case NumaDistribute:
		return "distribute"
	case NumaIsolate:
		return "isolate"
	case NumaNumactl:
		return "numactl"
	case NumaMirror:
		return "mirror"
	case NumaCountStrategy:
		return "count"
	default:
		return fmt.Sprintf("numa(%d)", int32(s))
	}
}
