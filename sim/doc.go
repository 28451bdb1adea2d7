// Package sim provides the core tick-driven virtual-memory simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - pte.go: page table entries and their status bits
//   - translator.go: address translation, page faults, swapping and frame occupancy
//   - process.go: process lifecycle (loading → running ⇄ waiting → done) and state machine
//   - scheduler.go: process arrivals, per-tick advancement and retirement
//   - simulator.go: the run loop and snapshots handed to observers
//
// # Architecture
//
// The sim package defines interfaces and bridge types; implementations live in
// sub-packages:
//   - sim/replacement/: page-replacement policies (random, nru, clock)
//   - sim/trace/: lifecycle and eviction trace recording
//   - sim/report/: results file, JSON and SQLite output
//
// Sub-packages register their implementations via init() functions that set
// package-level factory variables (NewReplacementPolicyFunc).
//
// # Key Interfaces
//
// The extension points are small interfaces:
//   - ReplacementPolicy: select a victim page over a borrowed page table and frame table
//   - MemoryCosts: disk, page-table walk and TLB draws charged by the translator
//   - Observer: receives a Snapshot after every scheduler tick
package sim
