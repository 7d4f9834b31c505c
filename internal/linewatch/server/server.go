// Copyright 2025 Esteban Alvarez. All Rights Reserved.
//
// Created: October 2025
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server accepts TCP (optionally TLS) connections and hands each one
// to a dispatcher on its own goroutine. It never blocks on request
// processing; the shape is the same one-goroutine-per-connection pattern the
// teacher pack's HTTP server delegates to net/http, but here there is no mux
// — the dispatcher is the whole handler (spec.md §4.G).
package server

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
)

// Handler processes exactly one connection end to end and closes it.
type Handler interface {
	Handle(conn net.Conn)
}

// Config controls how the acceptor binds its listener.
type Config struct {
	Addr        string
	UseSSL      bool
	SSLCertFile string
	SSLKeyFile  string
}

// Acceptor owns the listening socket and the set of in-flight connection
// goroutines.
type Acceptor struct {
	listener net.Listener
	handler  Handler
	log      zerolog.Logger

	wg sync.WaitGroup
}

// Listen binds cfg.Addr, wrapping it in TLS if cfg.UseSSL is set. It does
// not yet accept connections; call Serve for that.
func Listen(cfg Config, handler Handler, log zerolog.Logger) (*Acceptor, error) {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, fmt.Errorf("server: listen %s: %w", cfg.Addr, err)
	}

	if cfg.UseSSL {
		cert, err := tls.LoadX509KeyPair(cfg.SSLCertFile, cfg.SSLKeyFile)
		if err != nil {
			_ = ln.Close()
			return nil, fmt.Errorf("server: load TLS keypair: %w", err)
		}
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}
		ln = tls.NewListener(ln, tlsConfig)
	}

	return &Acceptor{listener: ln, handler: handler, log: log}, nil
}

// Serve blocks accepting connections until the listener is closed by
// Shutdown, at which point it returns nil. Fatal socket errors (anything
// other than the listener having been closed) are returned to the caller,
// per spec.md §4.G's "fatal socket errors terminate the process".
func (a *Acceptor) Serve() error {
	for {
		conn, err := a.listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				a.wg.Wait()
				return nil
			}
			return fmt.Errorf("server: accept: %w", err)
		}
		a.log.Debug().Str("remote_addr", conn.RemoteAddr().String()).Msg("accepted connection")

		a.wg.Add(1)
		go func() {
			defer a.wg.Done()
			a.handler.Handle(conn)
		}()
	}
}

// Shutdown stops accepting new connections. In-flight connections are
// allowed to finish on their own (spec.md §5: no user-facing timeouts, a
// worker's lifetime is bounded by one request so this is always brief).
func (a *Acceptor) Shutdown() error {
	return a.listener.Close()
}

// Addr reports the bound local address, useful when Config.Addr used a
// ":0" ephemeral port (tests).
func (a *Acceptor) Addr() net.Addr {
	return a.listener.Addr()
}
