// Package delivery defines the contract every transport front end satisfies.
package delivery

import "context"

// Delivery is a serving surface (HTTP today) started by main and stopped
// through its fx lifecycle hook.
type Delivery interface {
	Serve(ctx context.Context) error
}
