/*
Copyright 2025 Sitefix Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package redis_db

import (
	"crypto/tls"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Redis wraps the universal client so callers do not depend on the
// go-redis API surface directly.
type Redis struct {
	address string
	client  redis.UniversalClient
}

// ParseRedisURL parses a Redis DSN into client options. It accepts both
// docker-style host:port addresses and full redis:// URLs with
// credentials.
func ParseRedisURL(rawURL string) (*redis.Options, error) {
	// Docker-style addresses (e.g. redis:6379) are not valid URLs.
	if strings.Count(rawURL, ":") == 1 && !strings.Contains(rawURL, "@") && !strings.Contains(rawURL, "//") {
		return &redis.Options{Addr: rawURL}, nil
	}

	opts, err := redis.ParseURL(rawURL)
	if err != nil {
		// Fall back to manual parsing for bare hosts with inline
		// credentials.
		host := rawURL
		var password string
		if strings.Contains(rawURL, "@") {
			parts := strings.Split(rawURL, "@")
			if len(parts) == 2 {
				password = strings.TrimPrefix(parts[0], "redis://")
				host = parts[1]
			}
		}

		opts = &redis.Options{
			Addr:     host,
			Password: password,
		}

		// Managed Redis offerings terminate TLS on non-standard hosts.
		if strings.Contains(host, "redis.cache.windows.net") {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}

	return opts, nil
}

// NewRedisClient connects to the Redis instance at the given DSN.
func NewRedisClient(dns string) (*Redis, error) {
	opts, err := ParseRedisURL(dns)
	if err != nil {
		return nil, err
	}
	return &Redis{address: opts.Addr, client: redis.NewClient(opts)}, nil
}

// Client returns the underlying universal client.
func (r *Redis) Client() redis.UniversalClient {
	return r.client
}
