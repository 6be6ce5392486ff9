package nats

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// ErrRejected is returned when the daemon answers a set request with a failure.
var ErrRejected = errors.New("unsupported operation")

// Client controls a running daemon over NATS request/reply.
type Client struct {
	conn   *nats.Conn
	logger *slog.Logger
}

// Dial connects a client to the NATS server at url.
func Dial(url string, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(url,
		nats.Name("backlightd-client"),
		nats.Timeout(2*time.Second),
	)
	if err != nil {
		return nil, err
	}

	return &Client{
		conn:   conn,
		logger: logger.With("component", "nats-client"),
	}, nil
}

// List asks the daemon for its lights.
func (c *Client) List(ctx context.Context) ([]LightMessage, error) {
	msg, err := c.conn.RequestWithContext(ctx, SubjectLightsList, nil)
	if err != nil {
		return nil, err
	}

	reply, err := UnmarshalListReply(msg.Data)
	if err != nil {
		return nil, err
	}
	return reply.Lights, nil
}

// SetState asks the daemon to set light id. A daemon-side failure returns
// ErrRejected.
func (c *Client) SetState(ctx context.Context, id int, m SetMessage) error {
	data, err := m.Marshal()
	if err != nil {
		return err
	}

	msg, err := c.conn.RequestWithContext(ctx, SubjectLightSet(id), data)
	if err != nil {
		return err
	}

	reply, err := UnmarshalReply(msg.Data)
	if err != nil {
		return err
	}
	if !reply.OK {
		c.logger.Debug("Set request rejected", "light_id", id, "error", reply.Error)
		return ErrRejected
	}
	return nil
}

// Close closes the client connection.
func (c *Client) Close() {
	if c.conn != nil {
		c.conn.Close()
	}
}
