// Package redisconn handles the Redis connection lifecycle: URL-based
// configuration, connect-with-retry, and a readiness probe for health
// endpoints.
package redisconn
