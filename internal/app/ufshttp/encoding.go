package ufshttp

import (
	"io"
	"regexp"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
)

const (
	encodingDeflate  = "deflate"
	encodingGzip     = "gzip"
	encodingIdentity = ""
)

var (
	deflateRe = regexp.MustCompile(`\bdeflate\b`)
	gzipRe    = regexp.MustCompile(`\bgzip\b`)
)

// negotiateEncoding выбирает кодирование по Accept-Encoding: deflate важнее gzip.
// Веса q не учитываются.
func negotiateEncoding(accept string) string {
	accept = strings.ToLower(accept)
	switch {
	case deflateRe.MatchString(accept):
		return encodingDeflate
	case gzipRe.MatchString(accept):
		return encodingGzip
	default:
		return encodingIdentity
	}
}

// newEncoder оборачивает w компрессором. Для identity возвращает nil.
// HTTP deflate означает zlib-поток (RFC 1950), а не «голый» deflate.
func newEncoder(w io.Writer, encoding string) io.WriteCloser {
	switch encoding {
	case encodingDeflate:
		return zlib.NewWriter(w)
	case encodingGzip:
		return gzip.NewWriter(w)
	default:
		return nil
	}
}
