package contracts

import "fmt"

type Prefix struct {
	Scale        uint64
	Abbreviation string
}

var (
	Byte     = Prefix{Scale: 1, Abbreviation: "B"}
	Kilobyte = Prefix{Scale: 1 << 10, Abbreviation: "KB"}
	Megabyte = Prefix{Scale: 1 << 20, Abbreviation: "MB"}
	Gigabyte = Prefix{Scale: 1 << 30, Abbreviation: "GB"}
	Terabyte = Prefix{Scale: 1 << 40, Abbreviation: "TB"}

	prefixes = [5]Prefix{Terabyte, Gigabyte, Megabyte, Kilobyte, Byte}
)

// MemoryUnit is a non-negative amount of bytes.
type MemoryUnit uint64

func Bytes(count uint64) MemoryUnit { return MemoryUnit(count) }

func Scaled(prefix Prefix, count uint64) MemoryUnit {
	return MemoryUnit(prefix.Scale * count)
}

// ParseMemoryUnit converts a signed byte count (as found on the wire or
// reported by the file system) and rejects negative values.
func ParseMemoryUnit(bytes int64) (MemoryUnit, error) {
	if bytes < 0 {
		return 0, fmt.Errorf("%w: negative memory size: %d bytes", ErrFormat, bytes)
	}
	return MemoryUnit(bytes), nil
}

func (this MemoryUnit) Plus(that MemoryUnit) MemoryUnit { return this + that }
func (this MemoryUnit) InBytes() uint64                 { return uint64(this) }

func (this MemoryUnit) In(prefix Prefix) float64 {
	return float64(this) / float64(prefix.Scale)
}

func (this MemoryUnit) BestFittingPrefix() Prefix {
	for _, prefix := range prefixes {
		if uint64(this)/prefix.Scale >= 1 {
			return prefix
		}
	}
	return Byte
}

func (this MemoryUnit) String() string {
	prefix := this.BestFittingPrefix()
	return fmt.Sprintf("%.2f%s", this.In(prefix), prefix.Abbreviation)
}
