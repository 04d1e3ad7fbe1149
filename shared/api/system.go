package api

// ServerEnvironment holds the read-only environment details of the daemon.
//
// swagger:model
type ServerEnvironment struct {
	// Version of the daemon
	// Example: 1.0.0
	ServerVersion string `json:"server_version" yaml:"server_version"`

	// Name of the hypervisor backend in use
	// Example: incus
	Backend string `json:"backend" yaml:"backend"`
}

// ServerUntrusted holds the daemon details visible without authentication.
//
// swagger:model
type ServerUntrusted struct {
	// Support API version
	// Example: 1.0
	APIVersion string `json:"api_version" yaml:"api_version"`

	// Whether the caller is trusted or not
	// Example: untrusted
	Auth string `json:"auth" yaml:"auth"`
}

// SystemStatus holds the daemon details visible to trusted callers.
//
// swagger:model
type SystemStatus struct {
	ServerUntrusted

	Environment ServerEnvironment `json:"environment" yaml:"environment"`
}

// ConfigNetwork holds the listener configuration of the daemon.
//
// swagger:model
type ConfigNetwork struct {
	// Address to bind the https listener to, empty disables it
	// Example: 10.10.10.5
	Address string `json:"address" yaml:"address"`

	// Port for the https listener
	// Example: 8443
	Port int `json:"port" yaml:"port"`
}

// SystemSecurity holds the client trust configuration of the daemon.
//
// swagger:model
type SystemSecurity struct {
	// TLS certificate fingerprints of trusted clients
	TrustedTLSClientCertFingerprints []string `json:"trusted_tls_client_cert_fingerprints" yaml:"trusted_tls_client_cert_fingerprints"`

	// TLS certificate fingerprints of clients with administrative access
	AdminTLSClientCertFingerprints []string `json:"admin_tls_client_cert_fingerprints" yaml:"admin_tls_client_cert_fingerprints"`
}

// SystemBackend holds the hypervisor connection configuration of the daemon.
//
// swagger:model
type SystemBackend struct {
	// URL of the hypervisor API, empty runs the daemon without a backend
	// Example: https://incus.local:8443
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// PEM encoded client certificate presented to the hypervisor
	TLSClientCert string `json:"tls_client_cert" yaml:"tls_client_cert"`

	// PEM encoded client key presented to the hypervisor
	TLSClientKey string `json:"tls_client_key" yaml:"tls_client_key"`

	// PEM encoded hypervisor server certificate to pin, empty uses system CAs
	TLSServerCert string `json:"tls_server_cert" yaml:"tls_server_cert"`
}

// SystemConfig holds the full daemon configuration.
//
// swagger:model
type SystemConfig struct {
	Network  ConfigNetwork  `json:"network" yaml:"network"`
	Security SystemSecurity `json:"security" yaml:"security"`
	Backend  SystemBackend  `json:"backend" yaml:"backend"`
}
