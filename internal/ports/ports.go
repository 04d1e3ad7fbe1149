// Package ports keeps the default port assignments in one place.
package ports

const (
	// HTTPSDefaultPort is the default listen port of the REST API.
	HTTPSDefaultPort = 8443
)
