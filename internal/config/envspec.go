package config

type EnvVar struct {
	Name        string // short name under the CHIAVE_ prefix (e.g., "DATADIR")
	FullName    string // e.g., "CHIAVE_DATADIR"
	Type        string // human-readable type
	Default     string // default value as a string ("" if none)
	Description string // one-liner for docs
}

func EnvSpecs() []EnvVar {
	const P = "CHIAVE_"

	return []EnvVar{
		{
			Name:        "DATADIR",
			FullName:    P + "DATADIR",
			Type:        "string (path)",
			Default:     "",
			Description: "Data directory for the swap store; empty = in-memory",
		},
		{
			Name:        "DB_TYPE",
			FullName:    P + "DB_TYPE",
			Type:        "string",
			Default:     "badger",
			Description: "Database backend: badger",
		},
		{
			Name:        "HTTP_PORT",
			FullName:    P + "HTTP_PORT",
			Type:        "uint32 (port)",
			Default:     "7100",
			Description: "HTTP server port",
		},
		{
			Name:        "LOG_LEVEL",
			FullName:    P + "LOG_LEVEL",
			Type:        "uint32 (0-6)",
			Default:     "4",
			Description: "Log verbosity (higher = more verbose)",
		},
		{
			Name:        "LEDGER_URL",
			FullName:    P + "LEDGER_URL",
			Type:        "string (url)",
			Default:     "http://localhost:9100",
			Description: "Ledger transfer service endpoint",
		},
		{
			Name:        "LEDGER_TIMEOUT",
			FullName:    P + "LEDGER_TIMEOUT",
			Type:        "uint32 (seconds)",
			Default:     "30",
			Description: "Ledger transfer timeout in seconds",
		},
		{
			Name:        "SWEEP_INTERVAL",
			FullName:    P + "SWEEP_INTERVAL",
			Type:        "uint32 (seconds)",
			Default:     "60",
			Description: "Expiry sweep interval in seconds (0 disables)",
		},
		{
			Name:        "CALLER_HEADER",
			FullName:    P + "CALLER_HEADER",
			Type:        "string",
			Default:     "X-Chiave-Caller",
			Description: "Header carrying the authenticated caller identity",
		},
	}
}
