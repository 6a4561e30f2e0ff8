// Package stats turns timing samples into means, population standard
// deviations and confidence intervals, and renders intervals as coarse
// text bars.
//
// Every function reports ErrNoData for an empty sample instead of a zero
// value. Nothing here makes pass/fail decisions.
package stats
