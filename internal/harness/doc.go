// Package harness times repeated calls of a verification closure under a
// chosen cache-priming discipline.
//
// # Trial Structure
//
// Every trial runs these steps strictly in order on the calling goroutine:
//
//  1. prime the environment for the [FlushMode];
//  2. read the monotonic clock;
//  3. call the closure exactly once, storing whatever it returns into a sink
//     without inspecting it;
//  4. read the clock again and record the elapsed time.
//
// Nothing inside the timed window branches on the closure's outcome, and no
// goroutines are started: overlapping trials would let one trial's cache
// state leak into the next.
//
// # Flush Modes
//
//   - [NoFlush]: nothing is done between trials.
//   - [OverwriteScan]: every byte of the harness's eviction buffer is read,
//     pushing earlier data out of the data caches. Instruction caches are
//     untouched. The buffer is built on first use and reused afterwards.
//   - [PrivilegedInvalidate]: the kernel's cache invalidation facility
//     (by default the /proc/wbinvd file of the wbinvd kernel module) is read.
//     If it is missing the measurement fails with
//     [ErrEnvironmentUnavailable]; there is no fallback to a weaker mode.
package harness
