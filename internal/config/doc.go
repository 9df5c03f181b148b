// Package config provides configuration loading, merging, and validation
// for pimsync and pimbridge.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for the fields they set):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON config file
//  4. Defaults
//
// The entry point is [GetStructuredConfig].
package config
