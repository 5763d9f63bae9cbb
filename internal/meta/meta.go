package meta

const (
	// CLIName is the binary name and the prefix of config paths and env vars.
	CLIName = "kinctl"
)
