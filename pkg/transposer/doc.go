// Package transposer moves new rows from a source sheet to a destination
// sheet in column-major layout.
//
// A run has three stages. Selector picks the body rows whose checked cell is
// not set and marks them in the source sheet. Transpose drops the checked
// column and swaps rows and columns. Appender writes the block at row 1 of
// the first free column of the destination sheet. Job chains the stages in
// a pipeline and stops at the first failure. Nothing marked is ever
// unmarked, so a failure after selection loses those rows for later runs.
package transposer
