// Package configstore persists the bridge configuration in raw non-volatile
// memory using a redundant, integrity-verified record scheme.
//
// # Overview
//
// The store owns up to three fixed regions of a flash device:
//
//   - DEFAULT: reserved factory defaults (written once during manufacturing)
//   - A and B: rotating regions written alternately (ping-pong)
//
// Every write stamps a record header carrying a magic constant, a format
// version, a monotonically increasing sequence number, the payload length, a
// content hash of the payload, and a CRC32 over the header itself. On boot
// the store reads both rotating regions, selects the valid record with the
// highest sequence number, and falls back to the DEFAULT region and then to
// hardcoded defaults when neither rotating region validates.
//
// # Crash safety
//
// Save always writes the region that is not currently active and flips the
// active pointer only after the write succeeded. A crash mid-write leaves
// the previous record untouched; the damaged region simply fails its
// integrity checks on the next boot and the survivor is selected.
//
// # Usage
//
//	dev, err := flash.OpenFile("station.img", 4096)
//	if err != nil { ... }
//	st, err := configstore.Open(dev)
//	if err != nil { ... }
//	if err := st.Init(); err != nil { ... }
//
//	cfg, _ := st.Load()
//	cfg.MIDIChannel = 2
//	if err := st.Save(cfg); err != nil { ... }
//
// All public operations are serialized by an internal mutex; the handle is
// safe for concurrent use.
package configstore
