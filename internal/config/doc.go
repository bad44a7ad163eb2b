// Package config holds the profile model a generation run is built
// from. A Model describes one run without committing to an on-disk
// syntax; parsing lives behind the Loader interface in format packages
// such as hclconf, while defaults and validation live here so every
// loader hands the app the same guarantees.
package config
