// Package model holds the types shared by the pipeline engine and its
// options: step descriptions, the typed step handle and the option contract.
package model
