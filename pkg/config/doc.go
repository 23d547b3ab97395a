// Package config provides configuration for the txt2metadata connector.
//
// A Config has one section per concern:
//
//   - Connector: service base URL, timing log level and default match count
//   - HTTP: transport timeouts, keep-alive, HTTP/2, rate limiting and circuit breaking
//   - Retry: retry budget, delay and the outcomes that are retried
//   - Logging and Tracing: zap and OpenTelemetry settings
//
// # Loading
//
// Configuration starts from Default and is overlaid by a YAML file, by
// environment variables, or both:
//
//	cfg, err := config.Load("txt2metadata.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// YAML files may reference environment variables with ${VAR_NAME}:
//
//	connector:
//	  base_url: ${TXT2METADATA_URL}
//	  timing_log_level: DEBUG
//	retry:
//	  max_retries: 6
//	  delay: 10s
//	  retry_on_status: [404, 502]
//	  retry_on_transport_error: true
//
// # Environment
//
// FromEnv and ApplyEnv read the following variables:
//
//	TXT2METADATA_URL               service base URL (required)
//	TXT2METADATA_TIMING_LOG_LEVEL  TRACE, DEBUG, INFO (default), WARN or ERROR
//	TXT2METADATA_MATCHES           default suggestion count
//	TXT2METADATA_RETRY_MAX         retries after the first attempt
//	TXT2METADATA_RETRY_DELAY       delay between attempts, e.g. 10s
//	TXT2METADATA_REQUEST_TIMEOUT   per-attempt timeout, e.g. 30s
//	TXT2METADATA_LOG_LEVEL         zap log level
//	TXT2METADATA_LOG_ENCODING      json or console
//	TXT2METADATA_TRACING_ENABLED   export spans to stderr
package config
