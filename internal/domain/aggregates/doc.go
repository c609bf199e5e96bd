// Package aggregates defines the write boundaries of the study store and the
// typed error every store, aggregate and service operation returns.
//
// Each aggregate write is one transaction: either every row lands or none does.
package aggregates
