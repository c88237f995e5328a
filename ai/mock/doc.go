// Package mock provides test doubles for the ai package interfaces.
//
// Each mock exposes function fields for behavior injection and a CallCount
// method for assertions. Constructors return concrete types so tests can
// reach those hooks directly.
package mock
