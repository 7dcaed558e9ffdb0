// Package proxy runs a local SOCKS5 proxy that browser traffic can be routed
// through.
package proxy

import (
	"io"
	"log"
	"net"

	"github.com/armon/go-socks5"
	"github.com/sirupsen/logrus"
)

// Server is a running SOCKS5 proxy.
type Server struct {
	ln   net.Listener
	logw io.Closer
	done chan struct{}
}

type levelWriter interface {
	WriterLevel(logrus.Level) *io.PipeWriter
}

// Start listens on addr and serves SOCKS5 CONNECT requests until Close. Only
// CONNECT is permitted. Proxy errors are logged to logger at debug level.
func Start(addr string, logger logrus.FieldLogger) (*Server, error) {
	conf := &socks5.Config{
		Rules: &socks5.PermitCommand{EnableConnect: true},
	}
	var logw *io.PipeWriter
	if lw, ok := logger.(levelWriter); ok {
		logw = lw.WriterLevel(logrus.DebugLevel)
		conf.Logger = log.New(logw, "", 0)
	}
	srv, err := socks5.New(conf)
	if err != nil {
		return nil, err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		if logw != nil {
			logw.Close()
		}
		return nil, err
	}
	s := &Server{ln: ln, done: make(chan struct{})}
	if logw != nil {
		s.logw = logw
	}
	logger.WithField("addr", ln.Addr().String()).Info("SOCKS5 proxy listening")
	go func() {
		defer close(s.done)
		srv.Serve(ln)
	}()
	return s, nil
}

// Addr returns the host:port the proxy listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Close stops accepting connections. Connections already proxied are left
// to finish.
func (s *Server) Close() error {
	err := s.ln.Close()
	<-s.done
	if s.logw != nil {
		s.logw.Close()
	}
	return err
}
