// Package txt2metadata is the client side of the txt2metadata service, which
// suggests library metadata (DK5 classification codes and subject headings)
// for articles and free text.
//
// # Layout
//
//   - pkg/txt2metadata: the connector and its factory
//   - pkg/clients: HTTP transport, request builder, retry policy, rate
//     limiter and circuit breaker
//   - pkg/config: YAML and TXT2METADATA_* environment configuration
//   - pkg/logger, pkg/metrics, pkg/observability: zap logging, Prometheus
//     metrics and OpenTelemetry tracing
//   - pkg/errors: typed errors shared by all packages
//   - internal/mockserver: a fixture driven stand-in for the service
//   - cmd/txt2metadata: command line client
//
// # Quick Start
//
//	import "github.com/ajitpratap0/txt2metadata/pkg/txt2metadata"
//
//	connector, err := txt2metadata.Create("http://txt2metadata:8080")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer connector.Close()
//
//	suggestions, err := connector.GetMetadataForText(ctx, text)
//
// From the command line:
//
//	txt2metadata mock --addr :8080 &
//	txt2metadata article e70a69a1 --url http://localhost:8080 -o table
//	echo "some text" | txt2metadata text --url http://localhost:8080
//
// # Configuration
//
// The connector reads TXT2METADATA_URL and TXT2METADATA_TIMING_LOG_LEVEL
// when built with NewFromEnv. A YAML file loaded with config.Load covers
// the remaining settings:
//
//	connector:
//	  base_url: http://txt2metadata:8080
//	  timing_log_level: INFO
//	  default_matches: 10
//	retry:
//	  max_retries: 6
//	  delay: 10s
//	  retry_on_status: [404, 502]
package txt2metadata
