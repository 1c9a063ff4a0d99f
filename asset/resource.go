package asset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// The client used for fetching remote scene files.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// A Resource wraps a scene file or a material library that is read either
// from the local filesystem or streamed over http/https.
type Resource struct {
	io.ReadCloser
	url *url.URL
}

// Returns the path to this resource.
func (r *Resource) Path() string {
	return r.url.String()
}

// Returns true if the Resource is streamed over http/https.
func (r *Resource) IsRemote() bool {
	return r.url.Scheme != ""
}

// Create a new Resource data stream. If relTo is specified and pathToResource
// does not define a scheme, then the path to the new Resource is resolved
// relative to the directory (or URL path) of relTo. This allows obj files to
// reference their material libraries with relative paths.
//
// The caller must close the returned Resource.
func NewResource(pathToResource string, relTo *Resource) (*Resource, error) {
	resURL, err := resolve(pathToResource, relTo)
	if err != nil {
		return nil, err
	}

	var reader io.ReadCloser
	switch resURL.Scheme {
	case "":
		reader, err = os.Open(filepath.Clean(resURL.Path))
		if err != nil {
			return nil, err
		}
	case "http", "https":
		resp, err := httpClient.Get(resURL.String())
		if err != nil {
			return nil, fmt.Errorf("resource: could not fetch '%s': %s", resURL.String(), err)
		}
		if resp.StatusCode >= 400 {
			resp.Body.Close()
			return nil, fmt.Errorf("resource: could not fetch '%s': status %d", resURL.String(), resp.StatusCode)
		}
		reader = resp.Body
	default:
		return nil, fmt.Errorf("resource: unsupported scheme '%s'", resURL.Scheme)
	}

	return &Resource{
		ReadCloser: reader,
		url:        resURL,
	}, nil
}

// Create a resource from a reader.
func NewResourceFromStream(name string, source io.Reader) *Resource {
	resURL, err := url.Parse(name)
	if err != nil {
		resURL = &url.URL{Path: name}
	}
	return &Resource{
		ReadCloser: io.NopCloser(source),
		url:        resURL,
	}
}

func resolve(pathToResource string, relTo *Resource) (*url.URL, error) {
	// Windows-style separators are treated as forward slashes
	resURL, err := url.Parse(strings.Replace(pathToResource, `\`, `/`, -1))
	if err != nil {
		return nil, err
	}

	if resURL.Scheme != "" || relTo == nil {
		return resURL, nil
	}

	// Relative to a remote resource
	if relTo.IsRemote() {
		return relTo.url.ResolveReference(resURL), nil
	}

	// Relative to a local file
	if filepath.IsAbs(resURL.Path) {
		return resURL, nil
	}
	prefix, err := filepath.Abs(relTo.url.Path)
	if err != nil {
		return nil, fmt.Errorf("resource: could not detect abs path for %s; %s", relTo.url.String(), err.Error())
	}
	return &url.URL{Path: filepath.Join(filepath.Dir(prefix), resURL.Path)}, nil
}
