package networking

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/milan604/netservice/pkg/utils"
)

// Header names set by the request service.
const (
	HeaderAuthorization = "authorization"
	HeaderFormToken     = "token"
	HeaderContentType   = "Content-Type"
	HeaderRequestID     = "X-Request-ID"
	HeaderUserAgent     = "User-Agent"
)

// RequestConfig describes one outgoing call. Retried is set once the request
// has been resubmitted after a token refresh; a retried request never
// triggers another refresh.
type RequestConfig struct {
	Method  string
	BaseURL string
	URL     string
	Timeout time.Duration
	Header  http.Header
	Query   url.Values
	Body    any
	Retried bool
}

// Clone returns a copy whose header and query can be changed independently.
func (c *RequestConfig) Clone() *RequestConfig {
	if c == nil {
		return &RequestConfig{}
	}
	out := *c
	out.Header = c.Header.Clone()
	if c.Query != nil {
		out.Query = make(url.Values, len(c.Query))
		for k, v := range c.Query {
			out.Query[k] = slices.Clone(v)
		}
	}
	return &out
}

// SetHeader sets a header value, allocating the header map if needed.
func (c *RequestConfig) SetHeader(key, value string) {
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Header.Set(key, value)
}

// MergeConfig combines the service defaults with per-call settings. Non-zero
// per-call scalars win; headers and query parameters merge key by key with the
// per-call value winning. Neither input is modified.
func MergeConfig(defaults, perCall *RequestConfig) *RequestConfig {
	out := defaults.Clone()
	if perCall == nil {
		return out
	}
	out.Method = cmp.Or(perCall.Method, out.Method)
	out.BaseURL = cmp.Or(perCall.BaseURL, out.BaseURL)
	out.URL = cmp.Or(perCall.URL, out.URL)
	out.Timeout = cmp.Or(perCall.Timeout, out.Timeout)
	if perCall.Body != nil {
		out.Body = perCall.Body
	}
	out.Retried = out.Retried || perCall.Retried

	if len(perCall.Header) > 0 {
		if out.Header == nil {
			out.Header = http.Header{}
		}
		for k, v := range perCall.Header {
			out.Header[http.CanonicalHeaderKey(k)] = slices.Clone(v)
		}
	}
	if len(perCall.Query) > 0 {
		if out.Query == nil {
			out.Query = url.Values{}
		}
		for k, v := range perCall.Query {
			out.Query[k] = slices.Clone(v)
		}
	}
	return out
}

// FormFile is one file part of a multipart body. Content is held in memory so
// the body can be rebuilt when the request is resubmitted.
type FormFile struct {
	Field       string
	Name        string
	ContentType string
	Content     []byte
}

// FormData is a multipart/form-data body.
type FormData struct {
	Fields map[string]string
	Files  []FormFile
}

func (f *FormData) encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range f.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		part, err := createFilePart(w, file)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("failed to write form file %q: %w", file.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

func createFilePart(w *multipart.Writer, file FormFile) (io.Writer, error) {
	if file.ContentType == "" {
		return w.CreateFormFile(file.Field, file.Name)
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Name))
	h.Set("Content-Type", file.ContentType)
	return w.CreatePart(h)
}

// encodeBody serializes body and reports the content type it implies ("" to
// keep whatever the config carries).
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "", nil
	case url.Values:
		return []byte(b.Encode()), "application/x-www-form-urlencoded", nil
	case *FormData:
		return b.encode()
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return data, "application/json", nil
	}
}

// target resolves the absolute request URL including the query string.
func (c *RequestConfig) target() (string, error) {
	u, err := utils.JoinURL(c.BaseURL, c.URL)
	if err != nil {
		return "", err
	}
	if len(c.Query) == 0 {
		return u, nil
	}
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + c.Query.Encode(), nil
}
