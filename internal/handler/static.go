package handler

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/imposter-project/imposter-gateway/internal/action"
	"github.com/imposter-project/imposter-gateway/internal/config"
	"github.com/imposter-project/imposter-gateway/internal/exchange"
	"github.com/imposter-project/imposter-gateway/internal/resource"
	"github.com/imposter-project/imposter-gateway/pkg/logger"
	"github.com/imposter-project/imposter-gateway/pkg/utils"
)

// NewStaticHandler returns an action serving content resolved under cfg.Root.
// Only GET and HEAD are supported.
func NewStaticHandler(resolver *resource.Resolver, cfg config.StaticConfig) action.Action {
	indexFile := cfg.IndexFile
	if indexFile == "" {
		indexFile = config.DefaultIndexFile
	}
	root := cfg.Root
	if root == "" {
		root = config.DefaultStaticRoot
	}

	return func(c *exchange.Context) *action.Promise {
		if c.Method != http.MethodGet && c.Method != http.MethodHead {
			rsp := exchange.NewResponse(http.StatusMethodNotAllowed, nil)
			rsp.Header().Set("Allow", "GET, HEAD")
			return action.Resolve(rsp)
		}

		reqPath := c.Path
		if reqPath == "" || strings.HasSuffix(reqPath, "/") {
			reqPath += indexFile
		}
		file, err := utils.ValidatePath(reqPath, root)
		if err != nil || !resolver.IsReadable(file) {
			logger.Debugf("no static content for %s %s", c.Method, c.Path)
			return action.Resolve(notFoundResponse(c.Method, c.Path))
		}

		lastModified := resolver.LastModified(file).UTC().Truncate(time.Second)
		if notModified(c.Meta.Headers.Get("If-Modified-Since"), lastModified) {
			rsp := exchange.NewResponse(http.StatusNotModified, nil)
			rsp.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))
			return action.Resolve(rsp)
		}

		return action.Go(func() (*exchange.Response, error) {
			rsp := exchange.NewResponse(http.StatusOK, nil)
			setContentTypeHeader(rsp.Header(), file)
			rsp.Header().Set("Last-Modified", lastModified.Format(http.TimeFormat))

			if c.Method == http.MethodHead {
				if size := resolver.Size(file); size >= 0 {
					rsp.Header().Set("Content-Length", strconv.FormatInt(size, 10))
				}
				return rsp, nil
			}
			rsp.Body = resolver.ReadAll(file)
			rsp.Header().Set("Content-Length", strconv.Itoa(len(rsp.Body)))
			return rsp, nil
		})
	}
}

func notModified(ifModifiedSince string, lastModified time.Time) bool {
	if ifModifiedSince == "" {
		return false
	}
	since, err := http.ParseTime(ifModifiedSince)
	if err != nil {
		return false
	}
	return !lastModified.After(since)
}
