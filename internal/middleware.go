package internal

import (
	"time"

	"github.com/go-kit/kit/endpoint"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"

	"github.com/derWhity/fyyur/internal/ctxhelper"
	"github.com/derWhity/fyyur/internal/log"
)

// LogCall is a middleware that logs every call of the endpoint together with its duration and outcome
func LogCall(name string) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			logger := ctxhelper.Logger(ctx).WithField(log.FldEndpoint, name)
			started := time.Now()
			defer func() {
				entry := logger.WithField("took", time.Since(started))
				if err != nil {
					entry.WithFields(logrus.Fields{
						"kind": ErrorKind(err),
					}).WithError(err).Info("Endpoint call failed")
					return
				}
				entry.Debug("Endpoint called")
			}()
			return next(ctx, request)
		}
	}
}
