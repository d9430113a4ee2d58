// Package version holds the ATLAS service version shared by all binaries.
package version

// Version is reported in snapshots and by the API ping endpoint.
const Version = "2.1.0"

// Service is the service name reported by the API.
const Service = "ATLAS"
