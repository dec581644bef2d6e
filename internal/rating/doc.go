// Package rating turns raw feedback counters into the proportions a rating block renders:
// three bar heights relative to the largest counter and one satisfaction percentage for the
// circular gauge.
//
// Nothing here guards against zero denominators or unparsable counters. Such inputs yield
// NaN outputs, and deciding how to display them is left to the caller.
package rating
