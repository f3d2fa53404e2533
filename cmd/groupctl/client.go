package main

import (
	"context"
	"io"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/groupsync/pkg/api"
)

type client struct {
	auth    *api.AuthServiceClient
	groups  *api.GroupServiceClient
	timeout time.Duration
	stdin   io.Reader
	stdout  io.Writer
}

func newClient(httpClient connect.HTTPClient, server, token string, timeout time.Duration) *client {
	opts := []connect.ClientOption{}
	if token != "" {
		opts = append(opts, connect.WithInterceptors(bearerToken(token)))
	}
	return &client{
		auth:    api.NewAuthServiceClient(httpClient, server),
		groups:  api.NewGroupServiceClient(httpClient, server, opts...),
		timeout: timeout,
	}
}

func bearerToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("Authorization", "Bearer "+token)
			return next(ctx, req)
		}
	}
}
