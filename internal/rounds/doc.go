// Package rounds converts round-based schedule descriptions into the line
// form the scheduler loads. A round groups relays (by fingerprint), each with
// the host classes and bandwidth it should be measured with; every relay of
// round N waits for all relays of round N-1.
//
// Conversion is an offline step for operators to review. The scheduler never
// loads round files directly.
package rounds
