// Package config loads sweep files: YAML documents that list the health
// service hosts to query together with shared defaults.
//
// A minimal sweep file:
//
//	concurrency: 4
//	defaults:
//	  headers:
//	    statuskey: "${STATUS_KEY}"
//	hosts:
//	  - hostname: db1.internal
//	  - hostname: db2.internal
//	    port: 8443
//
// Load applies defaults and validates the file. Requests merges each host
// over the defaults and returns one HostQuery per host.
package config
