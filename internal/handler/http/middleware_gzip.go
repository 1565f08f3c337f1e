package http

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

// Sync payloads are JSON arrays of documents and compress well, so both
// directions are handled: gzipped request bodies are transparently
// inflated, and responses are deflated for clients that accept it.

var gzipWriters = sync.Pool{
	New: func() any { return gzip.NewWriter(io.Discard) },
}

var gzipReaders = sync.Pool{
	New: func() any { return new(gzip.Reader) },
}

func withGZip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") && r.Body != nil {
			reader := gzipReaders.Get().(*gzip.Reader)
			if err := reader.Reset(r.Body); err != nil {
				gzipReaders.Put(reader)
				http.Error(w, "malformed gzip body", http.StatusBadRequest)
				return
			}
			r.Body = &pooledBody{reader: reader}
			r.Header.Del("Content-Encoding")
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		writer := gzipWriters.Get().(*gzip.Writer)
		writer.Reset(w)
		defer func() {
			writer.Close()
			gzipWriters.Put(writer)
		}()

		w.Header().Set("Content-Encoding", "gzip")
		next.ServeHTTP(&gzipBody{ResponseWriter: w, writer: writer}, r)
	})
}

// pooledBody returns its gzip reader to the pool on Close.
type pooledBody struct {
	reader *gzip.Reader
}

func (b *pooledBody) Read(p []byte) (int, error) {
	return b.reader.Read(p)
}

func (b *pooledBody) Close() error {
	err := b.reader.Close()
	gzipReaders.Put(b.reader)
	return err
}

// gzipBody routes response bytes through the compressor. Headers and
// status pass straight through; Content-Encoding is already set by the
// time the downstream handler runs.
type gzipBody struct {
	http.ResponseWriter
	writer *gzip.Writer
}

func (b *gzipBody) Write(p []byte) (int, error) {
	return b.writer.Write(p)
}
