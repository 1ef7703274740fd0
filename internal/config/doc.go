// Package config defines configuration structures for the urlcat CLI.
//
// Configuration can be provided via:
//   - Command-line flags
//   - Environment variables (URLCAT_ prefix)
//   - YAML configuration file
//
// # YAML
//
//	urls:
//	  - https://example.com/part-0
//	  - https://example.com/part-1
//	range:
//	  start: 10MB
//	  end: 1MB
//	log_error: true
//	output: joined.bin
//	headers:
//	  Authorization: Bearer xyz
//	retry:
//	  attempts: 3
//	  backoff: 500ms
//	  max_backoff: 10s
package config
