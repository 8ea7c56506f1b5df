package s3

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const fakeEndpoint = "https://fake-s3.local"

// NewFake returns a Store whose HTTP transport is an in-process bucket, for
// tests that need S3 semantics without a network.
func NewFake() *Store {
	rt := &fakeBucket{objects: make(map[string]fakeObject)}
	awsCfg := aws.Config{
		Region:      defaultRegion,
		Credentials: credentials.NewStaticCredentialsProvider("AKIDFAKE", "fake-secret", ""),
	}
	return newStore(awsCfg, Config{Bucket: "artifacts", Endpoint: fakeEndpoint, PathStyle: true}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: rt}
		o.RequestChecksumCalculation = aws.RequestChecksumCalculationWhenRequired
		o.ResponseChecksumValidation = aws.ResponseChecksumValidationWhenRequired
	})
}

type fakeObject struct {
	body        []byte
	contentType string
	meta        map[string]string
	modified    time.Time
}

type fakeBucket struct {
	mu      sync.Mutex
	objects map[string]fakeObject
}

func (b *fakeBucket) RoundTrip(req *http.Request) (*http.Response, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// path style: /{bucket}/{key}
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	key := ""
	if len(parts) == 2 {
		key = parts[1]
	}
	switch {
	case req.Method == http.MethodGet && req.URL.Query().Get("list-type") == "2":
		return b.list(req, req.URL.Query().Get("prefix")), nil
	case req.Method == http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		meta := make(map[string]string)
		for h, v := range req.Header {
			if name, ok := strings.CutPrefix(strings.ToLower(h), "x-amz-meta-"); ok {
				meta[name] = v[0]
			}
		}
		b.objects[key] = fakeObject{body: body, contentType: req.Header.Get("Content-Type"), meta: meta, modified: time.Now().UTC()}
		return respond(req, http.StatusOK, nil, ""), nil
	case req.Method == http.MethodDelete:
		delete(b.objects, key)
		return respond(req, http.StatusNoContent, nil, ""), nil
	case req.Method == http.MethodHead || req.Method == http.MethodGet:
		obj, ok := b.objects[key]
		if !ok {
			if req.Method == http.MethodHead {
				return respond(req, http.StatusNotFound, nil, ""), nil
			}
			return respond(req, http.StatusNotFound, nil,
				"<Error><Code>NoSuchKey</Code><Message>missing</Message></Error>"), nil
		}
		h := http.Header{}
		h.Set("Content-Type", obj.contentType)
		h.Set("Content-Length", fmt.Sprint(len(obj.body)))
		h.Set("Last-Modified", obj.modified.Format(http.TimeFormat))
		for k, v := range obj.meta {
			h.Set("x-amz-meta-"+k, v)
		}
		resp := respond(req, http.StatusOK, h, "")
		resp.ContentLength = int64(len(obj.body))
		if req.Method == http.MethodGet {
			resp.Body = io.NopCloser(bytes.NewReader(obj.body))
		}
		return resp, nil
	}
	return respond(req, http.StatusNotImplemented, nil, ""), nil
}

func (b *fakeBucket) list(req *http.Request, prefix string) *http.Response {
	keys := make([]string, 0, len(b.objects))
	for k := range b.objects {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?><ListBucketResult><IsTruncated>false</IsTruncated>`)
	for _, k := range keys {
		obj := b.objects[k]
		fmt.Fprintf(&sb, "<Contents><Key>%s</Key><Size>%d</Size><LastModified>%s</LastModified></Contents>",
			k, len(obj.body), obj.modified.Format(time.RFC3339))
	}
	sb.WriteString("</ListBucketResult>")
	h := http.Header{}
	h.Set("Content-Type", "application/xml")
	return respond(req, http.StatusOK, h, sb.String())
}

func respond(req *http.Request, status int, h http.Header, body string) *http.Response {
	if h == nil {
		h = http.Header{}
	}
	return &http.Response{
		StatusCode:    status,
		Status:        fmt.Sprintf("%d %s", status, http.StatusText(status)),
		Header:        h,
		Body:          io.NopCloser(strings.NewReader(body)),
		ContentLength: int64(len(body)),
		Request:       req,
	}
}
