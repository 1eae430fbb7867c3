// Package ipcsock implements the local, filesystem-addressable req/rep
// channel the control loop speaks over. It is the idiomatic Go analogue of
// the original daemon's nng ipc:// Req0/Rep0 sockets: a Unix domain socket
// at a well-known path, one connection served at a time. Conn itself does
// not enforce recv-then-send alternation; its callers (the control loop's
// parser and the client's round trip) keep to it.
package ipcsock

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
)

// maxFrame bounds a single message to guard against a misbehaving peer
// claiming an absurd length prefix.
const maxFrame = 16 << 20

// Addr returns the conventional socket path for a named service instance,
// matching the CLI's --name/--path flags (spec.md §6).
func Addr(dir, name string) string {
	if dir == "" {
		dir = os.TempDir()
	}
	return dir + "/" + name + ".sock"
}

// Endpoint is a listening IPC endpoint. Listen creates it; Close releases
// the underlying socket file.
type Endpoint struct {
	path string
	ln   net.Listener
}

// Listen binds a new endpoint at path, removing any stale socket file left
// behind by a prior, uncleanly terminated run.
func Listen(path string) (*Endpoint, error) {
	if err := removeStale(path); err != nil {
		return nil, err
	}
	ln, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipcsock: listen %s: %w", path, err)
	}
	return &Endpoint{path: path, ln: ln}, nil
}

// removeStale unlinks a pre-existing socket file at path if nothing is
// listening on it anymore; a live listener there is left alone and an
// error saying the socket already has a live listener is returned.
func removeStale(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("ipcsock: stat %s: %w", path, err)
	}
	conn, err := net.Dial("unix", path)
	if err == nil {
		conn.Close()
		return fmt.Errorf("ipcsock: socket %s already has a live listener", path)
	}
	return os.Remove(path)
}

// Accept blocks for the next client connection. Only one Conn is expected
// to be in use at a time, matching the single-client req/rep contract.
func (e *Endpoint) Accept() (*Conn, error) {
	c, err := e.ln.Accept()
	if err != nil {
		return nil, fmt.Errorf("ipcsock: accept: %w", err)
	}
	return &Conn{c: c}, nil
}

// Close stops accepting and unlinks the socket file, releasing the scoped
// filesystem artifact.
func (e *Endpoint) Close() error {
	err := e.ln.Close()
	os.Remove(e.path)
	return err
}

// Dial connects to an endpoint listening at path, the client side of the
// channel.
func Dial(path string) (*Conn, error) {
	c, err := net.Dial("unix", path)
	if err != nil {
		return nil, fmt.Errorf("ipcsock: dial %s: %w", path, err)
	}
	return &Conn{c: c}, nil
}

// Conn is one end of an established req/rep connection. Frames are
// length-delimited: a 4-byte big-endian length header followed by that
// many bytes of payload, since a raw stream socket doesn't preserve
// message boundaries the way the original's nng transport did.
type Conn struct {
	c net.Conn
}

// Recv reads the next complete frame.
func (c *Conn) Recv() ([]byte, error) {
	var header [4]byte
	if _, err := io.ReadFull(c.c, header[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("ipcsock: read header: %w", err)
	}
	n := binary.BigEndian.Uint32(header[:])
	if n > maxFrame {
		return nil, fmt.Errorf("ipcsock: frame too large: %d bytes", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(c.c, buf); err != nil {
		return nil, fmt.Errorf("ipcsock: read body: %w", err)
	}
	return buf, nil
}

// Send writes one complete frame.
func (c *Conn) Send(payload []byte) error {
	if len(payload) > maxFrame {
		return fmt.Errorf("ipcsock: frame too large: %d bytes", len(payload))
	}
	var header [4]byte
	binary.BigEndian.PutUint32(header[:], uint32(len(payload)))
	if _, err := c.c.Write(header[:]); err != nil {
		return fmt.Errorf("ipcsock: write header: %w", err)
	}
	if _, err := c.c.Write(payload); err != nil {
		return fmt.Errorf("ipcsock: write body: %w", err)
	}
	return nil
}

// Close closes this end of the connection without touching the socket file.
func (c *Conn) Close() error { return c.c.Close() }
