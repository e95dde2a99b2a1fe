package ipc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"

	"tidy/internal/daemon"
	"tidy/internal/logging"
)

// Server exposes daemon control via JSON-RPC over a Unix domain socket.
type Server struct {
	path      string
	daemon    *daemon.Daemon
	logger    *slog.Logger
	listener  net.Listener
	rpcServer *rpc.Server

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer configures the IPC server at the given socket path. The
// shutdown callback is invoked when a client requests Stop.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, shutdown func(), logger *slog.Logger) (*Server, error) {
	if d == nil {
		return nil, errors.New("ipc server requires daemon")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("remove existing socket: %w", err)
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}

	rpcServer := rpc.NewServer()
	srv := &service{daemon: d, shutdown: shutdown, logger: logging.NewComponentLogger(logger, "ipc"), ctx: ctx}
	if err := rpcServer.RegisterName("Tidy", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logging.NewComponentLogger(logger, "ipc"),
		listener:  listener,
		rpcServer: rpcServer,
		ctx:       serverCtx,
		cancel:    cancel,
	}, nil
}

// Serve starts accepting RPC connections until the context is canceled.
func (s *Server) Serve() {
	s.logger.Debug("IPC server listening", logging.String("socket", s.path))
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			conn, err := s.listener.Accept()
			if err != nil {
				select {
				case <-s.ctx.Done():
					return
				default:
				}
				if errors.Is(err, net.ErrClosed) {
					return
				}
				s.logger.Warn("accept failed", logging.Error(err))
				continue
			}
			s.wg.Add(1)
			go func(c net.Conn) {
				defer s.wg.Done()
				s.rpcServer.ServeCodec(jsonrpc.NewServerCodec(c))
			}(conn)
		}
	}()
}

// Close stops the server and removes the socket file.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}
	s.wg.Wait()
	if err := os.RemoveAll(s.path); err != nil {
		s.logger.Warn("failed to remove socket", logging.String("socket", s.path), logging.Error(err))
	}
}

type service struct {
	daemon   *daemon.Daemon
	shutdown func()
	logger   *slog.Logger
	ctx      context.Context
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	status := s.daemon.Status(s.ctx)
	resp.Running = status.Running
	resp.PID = status.PID
	resp.StartedAt = status.StartedAt
	resp.WatchDir = status.WatchDir
	resp.LockPath = status.LockPath
	resp.JournalPath = status.JournalPath
	resp.Counts = status.Counts
	resp.LastError = status.LastError
	resp.JournalStats = make(map[string]int, len(status.JournalStats))
	for outcome, count := range status.JournalStats {
		resp.JournalStats[string(outcome)] = count
	}
	return nil
}

func (s *service) Counts(req CountsRequest, resp *CountsResponse) error {
	counts, err := s.daemon.Counts(req.Refresh)
	if err != nil {
		return err
	}
	resp.Counts = counts
	return nil
}

func (s *service) Sweep(_ SweepRequest, resp *SweepResponse) error {
	summary, err := s.daemon.Sweep(s.ctx)
	if err != nil {
		return err
	}
	resp.Moved = summary.Moved
	resp.Skipped = summary.Skipped
	resp.Failed = summary.Failed
	resp.Duration = summary.Duration
	return nil
}

func (s *service) Stop(_ StopRequest, resp *StopResponse) error {
	s.logger.Debug("daemon stop requested")
	resp.Stopped = true
	if s.shutdown != nil {
		// Deferred so the RPC response reaches the client first.
		go s.shutdown()
	}
	return nil
}

func (s *service) JournalList(req JournalListRequest, resp *JournalListResponse) error {
	entries, err := s.daemon.JournalList(s.ctx, req.Limit, req.Outcomes)
	if err != nil {
		return err
	}
	resp.Entries = make([]JournalEntry, 0, len(entries))
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, JournalEntry{
			ID:           entry.ID,
			RequestID:    entry.RequestID,
			SourcePath:   entry.SourcePath,
			DestPath:     entry.DestPath,
			Category:     entry.Category,
			Outcome:      string(entry.Outcome),
			Detail:       entry.Detail,
			ErrorMessage: entry.ErrorMessage,
			CreatedAt:    entry.CreatedAt,
		})
	}
	return nil
}

func (s *service) JournalClear(req JournalClearRequest, resp *JournalClearResponse) error {
	removed, err := s.daemon.JournalClear(s.ctx, req.Outcomes)
	if err != nil {
		return err
	}
	resp.Removed = removed
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	if err != nil {
		return err
	}
	resp.Sent = sent
	resp.Message = message
	return nil
}
