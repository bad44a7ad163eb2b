// Package hclconf loads generation profiles written in HCL. It parses
// a single profile file into tagged schema structs, overlays the values
// on the config defaults, and returns the validated model. Custom theme
// buckets are declared as repeated words blocks whose attributes are
// difficulty tiers holding lists of strings.
package hclconf
