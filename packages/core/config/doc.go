// Package config handles configuration loading for the notrace CLI.
//
// Configuration is optional: a JSON file searched in the working directory,
// with flag values taking precedence and built-in defaults filling the rest.
// The core parse/rewrite/dispatch packages never read configuration
// themselves.
package config
