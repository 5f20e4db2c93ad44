// Package measurement defines the schedulable unit of work (Measurement), the
// remote host descriptors attached to it, and the line grammar used to
// declare measurements in a schedule file.
//
// A schedule line has seven whitespace-separated fields:
//
//	id  fingerprint  duration  class1[,class2]  bw1[,bw2]  conns1[,conns2]  dep1[,dep2]
//
// Blank lines and lines starting with '#' carry no record. Every parsed record
// is validated on its own here; checks that need the whole catalog (unique
// ids, resolvable dependencies) belong to the scheduler.
package measurement
