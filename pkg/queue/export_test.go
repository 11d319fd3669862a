package queue

import "time"

// SetGatewayNow overrides the gateway clock in tests.
func SetGatewayNow(g *Gateway, now func() time.Time) {
	g.now = now
}
