package host

import "github.com/viant/jsonrpc/transport/server/stdio"

// Option is a function that configures the service.
type Option func(s *Service) error

// WithNotifications routes bridge events to each new transport as JSON-RPC notifications.
func WithNotifications() Option {
	return func(s *Service) error {
		s.notifications = true
		return nil
	}
}

// WithStdioOptions sets stdio server options.
func WithStdioOptions(options ...stdio.Option) Option {
	return func(s *Service) error {
		s.stdioOptions = append(s.stdioOptions, options...)
		return nil
	}
}
