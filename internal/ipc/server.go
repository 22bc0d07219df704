package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"os"
	"sync"
	"time"

	"log/slog"

	"aircheck/internal/api"
	"aircheck/internal/catalog"
	"aircheck/internal/daemon"
	"aircheck/internal/logging"
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

// NewServer configures the IPC server at the given socket path.
func NewServer(ctx context.Context, path string, d *daemon.Daemon, logger *slog.Logger) (*Server, error) {
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
	srv := &service{daemon: d, logger: logger, ctx: ctx}
	if err := rpcServer.RegisterName("Aircheck", srv); err != nil {
		listener.Close()
		return nil, fmt.Errorf("register rpc service: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:      path,
		daemon:    d,
		logger:    logger,
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
				s.logger.Warn("accept failed",
					logging.Error(err),
					logging.String(logging.FieldEventType, "ipc_accept_failed"),
					logging.String(logging.FieldImpact, "IPC clients may fail to connect"),
					logging.String(logging.FieldErrorHint, "Check socket permissions and restart the daemon if needed"))
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
		s.logger.Warn("failed to remove socket",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldEventType, "ipc_socket_cleanup_failed"),
			logging.String(logging.FieldImpact, "stale IPC socket may block future starts"),
			logging.String(logging.FieldErrorHint, "Remove the socket file manually or rerun aircheck daemon stop"))
	}
}

type service struct {
	daemon *daemon.Daemon
	logger *slog.Logger
	ctx    context.Context
}

func (s *service) log() *slog.Logger {
	if s.logger == nil {
		return logging.NewNop()
	}
	return s.logger.With(logging.String(logging.FieldComponent, "ipc"))
}

func (s *service) Status(_ StatusRequest, resp *StatusResponse) error {
	resp.Status = api.FromDaemonStatus(s.daemon.Status(s.ctx))
	return nil
}

func (s *service) RefreshShow(req RefreshShowRequest, resp *RefreshShowResponse) error {
	if req.ShowID <= 0 {
		return fmt.Errorf("invalid show id %d", req.ShowID)
	}
	if err := s.daemon.RefreshShow(s.ctx, req.ShowID); err != nil {
		return err
	}
	resp.Refreshed = true
	s.log().Info("show triggers refreshed via IPC",
		logging.Int64(logging.FieldShowID, req.ShowID),
		logging.String(logging.FieldEventType, "show_refresh"))
	return nil
}

func (s *service) RecordNow(req RecordNowRequest, resp *RecordNowResponse) error {
	if req.StationID <= 0 || req.ShowID <= 0 {
		return errors.New("record now requires a station id and a show id")
	}
	sourceType := catalog.SourceType(req.SourceType)
	switch sourceType {
	case catalog.SourceTest, catalog.SourceOnDemand:
	default:
		return fmt.Errorf("unsupported source type %q", req.SourceType)
	}
	if req.DurationSeconds <= 0 {
		return errors.New("record now requires a positive duration")
	}

	s.log().Info("immediate capture requested",
		logging.Int64(logging.FieldStationID, req.StationID),
		logging.Int64(logging.FieldShowID, req.ShowID),
		logging.String("source_type", req.SourceType),
		logging.String(logging.FieldEventType, "record_now"))
	recording, err := s.daemon.RecordNow(s.ctx, req.StationID, req.ShowID,
		time.Duration(req.DurationSeconds)*time.Second, sourceType)
	if err != nil {
		return err
	}
	resp.Recording = api.FromRecording(recording)
	return nil
}

func (s *service) DiscoverStation(req DiscoverStationRequest, resp *DiscoverStationResponse) error {
	if req.StationID <= 0 {
		return fmt.Errorf("invalid station id %d", req.StationID)
	}
	station, match, err := s.daemon.DiscoverStation(s.ctx, req.StationID, req.Fresh)
	if err != nil {
		return err
	}
	resp.Station = api.FromStation(station)
	resp.StreamURL = match.Candidate.URL
	resp.Confidence = match.Confidence
	resp.Source = match.Source
	s.log().Info("stream discovered via IPC",
		logging.Int64(logging.FieldStationID, req.StationID),
		logging.Float64("confidence", match.Confidence),
		logging.String(logging.FieldEventType, "stream_discovered"))
	return nil
}

func (s *service) SweepNow(_ SweepNowRequest, resp *SweepNowResponse) error {
	result, err := s.daemon.SweepNow(s.ctx)
	if err != nil {
		return err
	}
	resp.Expired = result.Expired
	resp.Orphans = result.Orphans
	resp.BytesReclaimed = result.BytesReclaimed
	s.log().Info("sweep run via IPC",
		logging.Int("expired", result.Expired),
		logging.Int("orphans", result.Orphans),
		logging.String(logging.FieldEventType, "sweep_now"))
	return nil
}

func (s *service) ListStations(_ ListStationsRequest, resp *ListStationsResponse) error {
	stations, err := s.daemon.ListStations(s.ctx)
	if err != nil {
		return err
	}
	resp.Stations = make([]api.Station, 0, len(stations))
	for i := range stations {
		resp.Stations = append(resp.Stations, api.FromStation(&stations[i]))
	}
	return nil
}

func (s *service) ListShows(req ListShowsRequest, resp *ListShowsResponse) error {
	shows, err := s.daemon.ListShows(s.ctx, req.StationID)
	if err != nil {
		return err
	}
	resp.Shows = make([]api.Show, 0, len(shows))
	for i := range shows {
		resp.Shows = append(resp.Shows, api.FromShow(&shows[i]))
	}
	return nil
}

func (s *service) ListRecordings(req ListRecordingsRequest, resp *ListRecordingsResponse) error {
	recordings, err := s.daemon.ListRecordings(s.ctx, req.ShowID)
	if err != nil {
		return err
	}
	resp.Recordings = make([]api.Recording, 0, len(recordings))
	for i := range recordings {
		resp.Recordings = append(resp.Recordings, api.FromRecording(&recordings[i]))
	}
	return nil
}

func (s *service) TestNotification(_ TestNotificationRequest, resp *TestNotificationResponse) error {
	sent, message, err := s.daemon.TestNotification(s.ctx)
	resp.Sent = sent
	resp.Message = message
	return err
}
