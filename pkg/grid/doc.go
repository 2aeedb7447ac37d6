// Package grid describes the tabular data the transposer reads and writes.
//
// A grid is a named sheet of rows and columns addressed with 1-based
// coordinates, the way spreadsheet applications address cells. The Store
// interface is the only way components touch a grid, which lets the same
// job run against an Excel workbook in production and an in-memory store in
// tests.
package grid
