package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Aircheck.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RefreshShow reinstalls one show's schedule triggers.
func (c *Client) RefreshShow(showID int64) (*RefreshShowResponse, error) {
	var resp RefreshShowResponse
	if err := c.client.Call("Aircheck.RefreshShow", RefreshShowRequest{ShowID: showID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RecordNow starts an immediate capture.
func (c *Client) RecordNow(req RecordNowRequest) (*RecordNowResponse, error) {
	var resp RecordNowResponse
	if err := c.client.Call("Aircheck.RecordNow", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DiscoverStation runs stream discovery for a station.
func (c *Client) DiscoverStation(stationID int64, fresh bool) (*DiscoverStationResponse, error) {
	var resp DiscoverStationResponse
	req := DiscoverStationRequest{StationID: stationID, Fresh: fresh}
	if err := c.client.Call("Aircheck.DiscoverStation", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SweepNow runs one retention pass.
func (c *Client) SweepNow() (*SweepNowResponse, error) {
	var resp SweepNowResponse
	if err := c.client.Call("Aircheck.SweepNow", SweepNowRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListStations returns all stations.
func (c *Client) ListStations() (*ListStationsResponse, error) {
	var resp ListStationsResponse
	if err := c.client.Call("Aircheck.ListStations", ListStationsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListShows returns shows, optionally for one station.
func (c *Client) ListShows(stationID int64) (*ListShowsResponse, error) {
	var resp ListShowsResponse
	if err := c.client.Call("Aircheck.ListShows", ListShowsRequest{StationID: stationID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListRecordings returns recordings, optionally for one show.
func (c *Client) ListRecordings(showID int64) (*ListRecordingsResponse, error) {
	var resp ListRecordingsResponse
	if err := c.client.Call("Aircheck.ListRecordings", ListRecordingsRequest{ShowID: showID}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.client.Call("Aircheck.TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
