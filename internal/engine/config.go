package engine

import "github.com/thirdlang/thirdvm/internal/memory"

// Config is the compile-time layout of base addresses for each memory
// region, plus interpreter-wide thresholds. Ported from
// original_source/src/evaluate/config.rs's ForthConfig — the same sentinel
// virtual addresses are kept so a dump of raw addresses across an
// evaluation session looks the way the original's did.
type Config struct {
	ReturnStackBase        int64
	DataStackBase          int64
	DataSpaceBase          int64
	PadBase                int64
	HeapBase               int64
	InternalStateBase      int64
	AnonymousMappingsBase  int64
	DefinitionCopyThreshold int64
}

// DefaultConfig returns the sentinel base addresses carried over from
// config.rs's Default impl.
func DefaultConfig() Config {
	return Config{
		ReturnStackBase:         0x56cadeace000,
		DataStackBase:           0x7aceddead000,
		DataSpaceBase:           0x7feaddead000,
		PadBase:                 0x76beaded5000,
		HeapBase:                0x44ea5c69c000,
		InternalStateBase:       0x5deadbeef000,
		AnonymousMappingsBase:   0x55bedead1000,
		DefinitionCopyThreshold: 0x20,
	}
}

func (c Config) returnStackBase() memory.Address   { return memory.AddressFromRaw(c.ReturnStackBase) }
func (c Config) dataStackBase() memory.Address     { return memory.AddressFromRaw(c.DataStackBase) }
func (c Config) dataSpaceBase() memory.Address     { return memory.AddressFromRaw(c.DataSpaceBase) }
func (c Config) heapBase() memory.Address          { return memory.AddressFromRaw(c.HeapBase) }
func (c Config) internalStateBase() memory.Address { return memory.AddressFromRaw(c.InternalStateBase) }
