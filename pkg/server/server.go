package server

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bastiangx/redrawd/pkg/gui"
	"github.com/bastiangx/redrawd/pkg/value"
	"github.com/charmbracelet/log"
	"github.com/vmihailenco/msgpack/v5"
)

// ErrMalformedMessage indicates a message that is not a msgpack-rpc array.
var ErrMalformedMessage = errors.New("server: malformed message")

// Server reads msgpack-rpc messages from a stream and hands them to a
// Handler.
type Server struct {
	handler Handler
	reader  io.Reader
	writer  *bufio.Writer
	logger  *log.Logger

	// requestTimeout bounds each request; zero means no limit.
	requestTimeout time.Duration

	messages int
}

// Option configures a Server.
type Option func(*Server)

// WithIO replaces stdin and stdout.
func WithIO(r io.Reader, w io.Writer) Option {
	return func(s *Server) {
		s.reader = r
		s.writer = bufio.NewWriter(w)
	}
}

func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithRequestTimeout cancels a request's context after d.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

// NewServer creates a server on stdin/stdout.
func NewServer(handler Handler, opts ...Option) *Server {
	s := &Server{
		handler: handler,
		reader:  bufio.NewReader(os.Stdin),
		writer:  bufio.NewWriter(os.Stdout),
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve processes messages until the stream ends or ctx is cancelled.
// A clean end of stream returns nil.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Debug("serving msgpack-rpc")
	dec := msgpack.NewDecoder(s.reader)
	enc := msgpack.NewEncoder(s.writer)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		msg, err := value.Decode(dec)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.logger.Debug("stream closed", "messages", s.messages)
				return nil
			}
			return fmt.Errorf("server: read message: %w", err)
		}
		s.messages++

		if err := s.handle(ctx, enc, msg); err != nil {
			if errors.Is(err, ErrMalformedMessage) {
				s.logger.Error("skipping message", "err", err)
				continue
			}
			return err
		}
	}
}

// Messages returns how many messages have been read.
func (s *Server) Messages() int { return s.messages }

func (s *Server) handle(ctx context.Context, enc *msgpack.Encoder, msg value.Value) error {
	items, ok := msg.AsArray()
	if !ok || len(items) == 0 {
		return fmt.Errorf("%w: %s", ErrMalformedMessage, msg)
	}
	typ, ok := items[0].AsUint64()
	if !ok {
		return fmt.Errorf("%w: type %s", ErrMalformedMessage, items[0])
	}

	switch typ {
	case typeNotification:
		if len(items) != 3 {
			return fmt.Errorf("%w: notification has %d elements", ErrMalformedMessage, len(items))
		}
		method, params, err := call(items[1], items[2])
		if err != nil {
			return err
		}
		s.handler.HandleNotification(method, params)
		return nil

	case typeRequest:
		if len(items) != 4 {
			return fmt.Errorf("%w: request has %d elements", ErrMalformedMessage, len(items))
		}
		id, ok := items[1].AsUint64()
		if !ok {
			return fmt.Errorf("%w: request id %s", ErrMalformedMessage, items[1])
		}
		method, params, err := call(items[2], items[3])
		if err != nil {
			return err
		}

		reqCtx, cancel := ctx, context.CancelFunc(func() {})
		if s.requestTimeout > 0 {
			reqCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		}
		result, herr := s.handler.HandleRequest(reqCtx, method, params)
		cancel()

		errValue := value.Nil()
		if herr != nil {
			s.logger.Debug("request failed", "method", method, "err", herr)
			errValue, result = gui.ErrorValue(herr), value.Nil()
		}
		return s.respond(enc, id, errValue, result)

	case typeResponse:
		// The front-end never sends requests, so there is nothing to match.
		s.logger.Debug("ignoring response", "msg", msg)
		return nil
	}
	return fmt.Errorf("%w: unknown type %d", ErrMalformedMessage, typ)
}

func call(method, params value.Value) (string, []value.Value, error) {
	name, ok := method.AsString()
	if !ok {
		return "", nil, fmt.Errorf("%w: method %s", ErrMalformedMessage, method)
	}
	args, ok := params.AsArray()
	if !ok {
		return "", nil, fmt.Errorf("%w: %s params %s", ErrMalformedMessage, name, params.Kind())
	}
	return name, args, nil
}

func (s *Server) respond(enc *msgpack.Encoder, id uint64, errValue, result value.Value) error {
	resp := value.Array(value.Uint(typeResponse), value.Uint(id), errValue, result)
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("server: write response %d: %w", id, err)
	}
	if err := s.writer.Flush(); err != nil {
		return fmt.Errorf("server: flush response %d: %w", id, err)
	}
	return nil
}
