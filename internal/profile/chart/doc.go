// Package chart renders the fixed sequence of statistical figures for a
// dataset: correlation heatmap, one histogram per numeric column, one count
// plot per text column, a pair plot, and one box plot per numeric column.
//
// Figures are drawn with gonum.org/v1/plot and encoded as PNG. Rendering runs
// concurrently but the returned slice always follows the sequence above.
package chart
