// Package netx holds HTTP helpers shared by the remote API client.
package netx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"sort"
)

// FilePart is a file to be attached to a multipart body. Data, when set, is
// sent instead of reading Path.
type FilePart struct {
	Field       string
	Path        string
	Name        string
	Data        []byte
	ContentType string
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s; body: %s", e.Code, http.StatusText(e.Code), e.Body)
}

// BuildMultipart encodes fields and files into a multipart/form-data body
// and returns it with its Content-Type. Fields are written in key order.
func BuildMultipart(fields url.Values, files []FilePart) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", fmt.Errorf("write field %s: %w", k, err)
			}
		}
	}

	for _, f := range files {
		if err := writeFile(w, f); err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return body, w.FormDataContentType(), nil
}

func writeFile(w *multipart.Writer, f FilePart) error {
	var src io.Reader
	if f.Data != nil {
		src = bytes.NewReader(f.Data)
	} else {
		file, err := os.Open(f.Path)
		if err != nil {
			return fmt.Errorf("open %s: %w", f.Field, err)
		}
		defer file.Close()
		src = file
	}

	name := f.Name
	if name == "" {
		name = filepath.Base(f.Path)
	}
	ct := f.ContentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, name))
	h.Set("Content-Type", ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return fmt.Errorf("create part %s: %w", f.Field, err)
	}
	if _, err := io.Copy(part, src); err != nil {
		return fmt.Errorf("copy %s: %w", f.Field, err)
	}
	return nil
}

// ReadBody reads at most limit bytes of resp.Body and returns a
// *StatusError for non-2xx responses.
func ReadBody(resp *http.Response, limit int64) ([]byte, error) {
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := b
		if len(snippet) > 256 {
			snippet = snippet[:256]
		}
		return b, &StatusError{Code: resp.StatusCode, Body: string(snippet)}
	}
	return b, nil
}

// IsTimeout reports whether err is a deadline or network timeout.
func IsTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
