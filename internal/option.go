package internal

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	serve  bool
	watch  bool
	mcp    bool
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithServe enables the HTTP API and SSE server after the initial analysis.
func WithServe(enabled bool) Option {
	return func(a *application) {
		a.serve = enabled
	}
}

// WithWatch enables re-analysis on graph file changes.
func WithWatch(enabled bool) Option {
	return func(a *application) {
		a.watch = enabled
	}
}

// WithMCP serves analysis tools over MCP stdio instead of running the other
// modes.
func WithMCP(enabled bool) Option {
	return func(a *application) {
		a.mcp = enabled
	}
}
