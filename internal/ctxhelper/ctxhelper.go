// Package ctxhelper provides helper functions for working with the context
package ctxhelper

import (
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

var (
	// KeyClient is the context key for storing the ID of the browser client the current call comes from
	KeyClient = ctxKey("client")
	// KeyNewClient is the context key marking that the client ID has been generated during the current call and still
	// needs to be sent to the browser
	KeyNewClient = ctxKey("newClient")
	// KeyLogger is the context key for storing the logger in the context
	KeyLogger = ctxKey("logger")
)

// internal context key
type ctxKey string

// ClientID returns the ID of the browser client of the current call - or an empty string if there is none
func ClientID(ctx context.Context) string {
	if id, ok := ctx.Value(KeyClient).(string); ok {
		return id
	}
	return ""
}

// IsNewClient checks if the client ID has been created during the current call
func IsNewClient(ctx context.Context) bool {
	isNew, _ := ctx.Value(KeyNewClient).(bool)
	return isNew
}

// Logger returns the logger from the current context. If no logger is available, it panics
func Logger(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(KeyLogger).(*logrus.Entry)
	if ok {
		return logger
	}
	panic("No logger in context")
}
