package kerbal

// Config is read from the environment.
type Config struct {
	Host       string `env:"KRPC_HOST" envDefault:"127.0.0.1"`
	RPCPort    string `env:"KRPC_RPC_PORT" envDefault:"50000"`
	StreamPort string `env:"KRPC_STREAM_PORT" envDefault:"50001"`
	ClientName string `env:"KRPC_CLIENT_NAME" envDefault:"ksp-telemetry"`
}
