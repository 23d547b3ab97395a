// Package txt2metadata is a client for the txt2metadata service, which
// suggests metadata (DK5 classification codes, subjects) for articles and
// free text.
//
// # Basic Usage
//
//	connector, err := txt2metadata.Create("http://txt2metadata:8080")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer connector.Close()
//
//	suggestions, err := connector.GetMetadataForArticle(ctx, "e70a69a1")
//
// Each lookup exists in a default form requesting ten suggestions and a
// WithMatches form taking an explicit count:
//
//	GET  /api/documents/similar/{articleId}?matches=N   GetMetadataForArticle
//	POST /api/documents/similar/articleids?matches=N    GetMetadataForArticles
//	POST /api/documents/similar?matches=N               GetMetadataForText
//
// # Retries
//
// Attempts that fail at transport level or answer 404 or 502 are retried
// up to six times, ten seconds apart. Cancelling the context stops both
// the request in flight and the wait before the next attempt. A custom
// policy can be supplied with NewWithRetryPolicy or through config.Config.
//
// # Errors
//
// Errors are *errors.Error values from pkg/errors. Check them with
// errors.IsType:
//
//	config              empty base URL, article id or text; nothing was sent
//	unexpected_status   final status was not 200, see errors.StatusCode
//	malformed_response  the body was null or not a list of suggestions
//	connection, timeout the service could not be reached within the retry budget
//	closed              the connector was closed
//
// # Logging
//
// Every call logs its method and path at INFO before dispatch, the received
// status code at INFO, and its elapsed time at the timing level chosen with
// WithTimingLevel (INFO by default).
package txt2metadata
