// Package config defines configuration for the pagefetch CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (PAGEFETCH_ prefix)
//   - YAML configuration file
//
// Later sources override earlier ones: defaults, then file, then
// environment, then flags.
//
// # Structure
//
//	type Config struct {
//	    URLFile       string
//	    Output        string
//	    LogFile       string
//	    Workers       int
//	    Progress      bool
//	    UserAgent     string
//	    RequestRate   float64
//	    Retry         RetryConfig
//	    Transfer      TransferConfig
//	}
package config
