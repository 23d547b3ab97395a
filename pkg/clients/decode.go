package clients

import (
	"io"
	"net/http"
	"strings"

	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/gzip"
)

// decodeBody replaces a gzip or deflate encoded response body with a
// decompressing reader. The transport leaves bodies encoded whenever the
// client sets Accept-Encoding itself.
//
// The decompressor is created on the first Read, so a response whose body is
// empty or corrupt still reaches the caller with its status code. Decoding
// errors surface from Read.
func decodeBody(resp *http.Response) {
	encoding := strings.ToLower(strings.TrimSpace(resp.Header.Get("Content-Encoding")))
	if encoding != "gzip" && encoding != "deflate" {
		return
	}

	resp.Body = &decodedBody{encoding: encoding, raw: resp.Body}
	resp.Header.Del("Content-Encoding")
	resp.Header.Del("Content-Length")
	resp.ContentLength = -1
	resp.Uncompressed = true
}

// decodedBody decompresses raw lazily and closes both readers
type decodedBody struct {
	encoding string
	raw      io.ReadCloser
	decoder  io.ReadCloser
	err      error
}

func (d *decodedBody) Read(p []byte) (int, error) {
	if d.decoder == nil && d.err == nil {
		switch d.encoding {
		case "gzip":
			zr, err := gzip.NewReader(d.raw)
			if err != nil {
				d.err = err
			} else {
				d.decoder = zr
			}
		default:
			d.decoder = flate.NewReader(d.raw)
		}
	}
	if d.err != nil {
		return 0, d.err
	}
	return d.decoder.Read(p)
}

func (d *decodedBody) Close() error {
	var derr error
	if d.decoder != nil {
		derr = d.decoder.Close()
	}
	if err := d.raw.Close(); err != nil {
		return err
	}
	return derr
}
