package client

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// getJSON performs a GET against requestURL and returns the status code with a copy of the body.
// The context deadline wins over the default timeout when present.
func getJSON(ctx context.Context, hc *fasthttp.Client, logger *zap.Logger, requestURL string, query, headers map[string]string, timeout time.Duration) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	args := req.URI().QueryArgs()
	for k, v := range query {
		args.Set(k, v)
	}

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	logger.Debug("Sending request", zap.String("url", req.URI().String()))

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = hc.DoDeadline(req, resp, deadline)
	} else {
		err = hc.DoTimeout(req, resp, timeout)
	}
	if err != nil {
		logger.Error("Failed to execute request", zap.String("url", requestURL), zap.Error(err))
		return 0, nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}

func truncateBody(body []byte) string {
	const max = 512
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
