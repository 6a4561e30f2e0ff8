// Package byzbench measures how long Ed25519 signature verification takes
// on ordinary and on "byzantine" inputs, under controlled cache states.
//
// A Runner ties together the input generator, the byzantine searcher, the
// timing harness and the statistics engine:
//
//	runner, err := byzbench.New(byzbench.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Find ten inputs the oracle scores at 78 or above and save them.
//	path := filepath.Join(byzbench.DefaultFixtureDir, "byz.yaml")
//	if _, err := runner.SearchByzantine(ctx, nil, 78, 10, path); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Time verification of those inputs under every cache flush mode.
//	reports, err := runner.Sweep(ctx, path, 10)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, r := range reports {
//	    fmt.Println(r.Mode, r.Summary)
//	}
//
// Trials always run one at a time on the calling goroutine. The
// PrivilegedInvalidate mode needs a kernel module exposing /proc/wbinvd
// and fails with ErrEnvironmentUnavailable without it.
package byzbench
