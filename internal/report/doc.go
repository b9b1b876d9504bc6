// Package report derives read-only views from the persisted poster index
// and print history.
//
// The missing-files report lists what each poster still needs: archive
// posters are checked for print output and the expected background variants
// per size, studio posters for master, web, and per-size files. The report
// never touches the filesystem; it trusts the index alone, so stale results
// are fixed by reindexing, not by rescanning here.
//
// The summary side aggregates the same index together with the paper ledger
// and the print log into the numbers the status command renders: catalog
// completeness, remaining roll footage, and windowed print counts.
package report
