// Package testutil carries shared test fixtures: dictionary exports,
// run profiles and stored puzzle documents.
package testutil
