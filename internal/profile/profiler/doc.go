// Package profiler turns a loaded Dataset into the automatic profiling report
// (per-variable statistics, Pearson correlations, missing values, samples and
// alerts) and the numeric describe table shown next to the data.
//
// Moments and correlations come from gonum's stat package. Quantiles use
// linear interpolation between closest ranks so the figures line up with
// what spreadsheet users and pandas report.
package profiler
