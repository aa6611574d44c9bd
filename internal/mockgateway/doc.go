// Package mockgateway provides an in-process fake of the payment gateway endpoints
// used by the load harness: user registration, merchant registration and payment
// processing. It is used by the `mock` command and by integration tests.
package mockgateway
