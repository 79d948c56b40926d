package blob

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/require"
)

// mockS3Transport answers the handful of object calls the store makes,
// keyed by the path style URL /bucket/key.
type mockS3Transport struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newMockS3(t *testing.T) Store {
	t.Helper()
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("AKIA", "SECRET", "")),
	)
	require.NoError(t, err)

	transport := &mockS3Transport{objects: map[string][]byte{}}
	return newS3WithConfig(awsCfg, S3Config{
		Bucket:    "attachments",
		Endpoint:  "https://mock.s3.local",
		PathStyle: true,
	}, func(o *s3.Options) {
		o.HTTPClient = &http.Client{Transport: transport}
		o.RetryMaxAttempts = 1
	})
}

func response(status int, body string, header http.Header) *http.Response {
	if header == nil {
		header = http.Header{}
	}
	return &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

const noSuchKeyXML = `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`

func (m *mockS3Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	parts := strings.SplitN(strings.TrimPrefix(req.URL.Path, "/"), "/", 2)
	if len(parts) != 2 {
		return response(http.StatusBadRequest, "", nil), nil
	}
	key := parts[1]

	m.mu.Lock()
	defer m.mu.Unlock()

	switch req.Method {
	case http.MethodHead:
		data, ok := m.objects[key]
		if !ok {
			return response(http.StatusNotFound, "", nil), nil
		}
		return response(http.StatusOK, "", http.Header{"Content-Length": {strconv.Itoa(len(data))}}), nil
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if decoded, ok := decodeSingleChunk(body); ok {
			body = decoded
		}
		m.objects[key] = body
		return response(http.StatusOK, "", http.Header{"ETag": {`"etag"`}}), nil
	case http.MethodGet:
		data, ok := m.objects[key]
		if !ok {
			return response(http.StatusNotFound, noSuchKeyXML, http.Header{"Content-Type": {"application/xml"}}), nil
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Length": {strconv.Itoa(len(data))}},
			Body:       io.NopCloser(bytes.NewReader(data)),
		}, nil
	case http.MethodDelete:
		delete(m.objects, key)
		return response(http.StatusNoContent, "", nil), nil
	}

	return response(http.StatusNotImplemented, "", nil), nil
}

// decodeSingleChunk unwraps an aws-chunked body of one data chunk.
func decodeSingleChunk(b []byte) ([]byte, bool) {
	parts := strings.Split(string(b), "\r\n")
	if len(parts) < 3 {
		return nil, false
	}
	size, err := strconv.ParseInt(strings.SplitN(parts[0], ";", 2)[0], 16, 64)
	if err != nil || int64(len(parts[1])) != size {
		return nil, false
	}
	if !strings.HasPrefix(parts[2], "0") {
		return nil, false
	}
	return []byte(parts[1]), true
}
