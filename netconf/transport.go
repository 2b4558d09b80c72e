// Package netconf is the vendor-agnostic NETCONF (RFC 6241) transport
// used by the Juniper driver: SSH dialing, the NETCONF subsystem,
// hello/capability exchange, and the 1.0 end-of-message / 1.1 chunked
// framing. The RPC vocabulary built on top of it (rpc.go) targets
// switch VLAN, interface, and bond editing.
package netconf

import (
	"encoding/xml"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/ssh"
)

const (
	netconfBase10   = "urn:ietf:params:netconf:base:1.0"
	netconfBase11   = "urn:ietf:params:netconf:base:1.1"
	netconfFrameEnd = "]]>]]>"

	capCandidate = "urn:ietf:params:netconf:capability:candidate:1.0"
)

// Transport holds one live NETCONF session over SSH.
type Transport struct {
	sshClient *ssh.Client
	session   *ssh.Session
	stdin     *writer
	stdout    *reader

	mu           sync.Mutex
	connected    bool
	capabilities []string
	sessionID    string
	msgID        uint64
}

// Config is the connection information needed to open a transport.
type Config struct {
	Host                string
	Port                int
	Username            string
	Password            string
	Timeout             time.Duration
	HostKeyVerification bool
}

func (c Config) addr() string {
	port := c.Port
	if port == 0 {
		port = 830
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// writer wraps SSH stdin with NETCONF 1.0 EOM or 1.1 chunked framing.
type writer struct {
	w        interface{ Write([]byte) (int, error) }
	useChunk bool
}

func (w *writer) Write(data []byte) (int, error) {
	if w.useChunk {
		chunk := fmt.Sprintf("\n#%d\n%s\n##\n#0\n", len(data), string(data))
		return w.w.Write([]byte(chunk))
	}
	return w.w.Write(append(data, []byte(netconfFrameEnd)...))
}

// reader wraps SSH stdout with the matching framing.
type reader struct {
	r        interface{ Read([]byte) (int, error) }
	useChunk bool
}

func (r *reader) readMessage() ([]byte, error) {
	buf := make([]byte, 64*1024)
	var message []byte

	for {
		n, err := r.r.Read(buf)
		if err != nil {
			return nil, err
		}
		message = append(message, buf[:n]...)

		if !r.useChunk && strings.Contains(string(message), netconfFrameEnd) {
			msg := strings.TrimSuffix(string(message), netconfFrameEnd)
			return []byte(strings.TrimSpace(msg)), nil
		}
		if r.useChunk && strings.Contains(string(message), "\n##\n") {
			return parseChunked(message), nil
		}
	}
}

// parseChunked reassembles a NETCONF 1.1 chunked message. Devices in
// the wild virtually always emit it as a single chunk; multi-chunk
// messages are reassembled by concatenating every #<size> segment in
// order, stopping at the terminating ##.
func parseChunked(data []byte) []byte {
	var out []byte
	rest := data
	for {
		idx := strings.Index(string(rest), "\n#")
		if idx < 0 {
			break
		}
		rest = rest[idx+2:]
		if strings.HasPrefix(string(rest), "#") {
			break // terminating ##
		}
		nl := strings.Index(string(rest), "\n")
		if nl < 0 {
			break
		}
		size := 0
		fmt.Sscanf(string(rest[:nl]), "%d", &size)
		rest = rest[nl+1:]
		if size > len(rest) {
			size = len(rest)
		}
		out = append(out, rest[:size]...)
		rest = rest[size:]
	}
	return out
}

// Dial opens the SSH connection, requests the netconf subsystem, and
// performs the hello exchange. Host key verification is disabled by
// default; Config.HostKeyVerification is accepted for
// forward-compatibility but currently ignored.
func Dial(cfg Config) (*Transport, error) {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 120 * time.Second
	}

	sshConfig := &ssh.ClientConfig{
		User:            cfg.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(cfg.Password)},
		Timeout:         timeout,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // spec: hostkey verification disabled
	}

	client, err := ssh.Dial("tcp", cfg.addr(), sshConfig)
	if err != nil {
		return nil, fmt.Errorf("netconf: ssh dial: %w", err)
	}

	session, err := client.NewSession()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("netconf: ssh session: %w", err)
	}

	stdin, err := session.StdinPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("netconf: stdin pipe: %w", err)
	}
	stdout, err := session.StdoutPipe()
	if err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("netconf: stdout pipe: %w", err)
	}

	if err := session.RequestSubsystem("netconf"); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("netconf: subsystem request: %w", err)
	}

	t := &Transport{
		sshClient: client,
		session:   session,
		stdin:     &writer{w: stdin},
		stdout:    &reader{r: stdout},
	}

	if err := t.exchangeHello(); err != nil {
		session.Close()
		client.Close()
		return nil, fmt.Errorf("netconf: hello exchange: %w", err)
	}

	t.connected = true
	return t, nil
}

func (t *Transport) exchangeHello() error {
	serverHello, err := t.stdout.readMessage()
	if err != nil {
		return fmt.Errorf("read server hello: %w", err)
	}

	t.capabilities, t.sessionID = parseHello(serverHello)
	for _, c := range t.capabilities {
		if strings.Contains(c, "base:1.1") {
			t.stdin.useChunk = true
			t.stdout.useChunk = true
			break
		}
	}

	clientHello := `<?xml version="1.0" encoding="UTF-8"?>
<hello xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
  <capabilities>
    <capability>` + netconfBase10 + `</capability>
    <capability>` + netconfBase11 + `</capability>
    <capability>` + capCandidate + `</capability>
  </capabilities>
</hello>`

	_, err = t.stdin.Write([]byte(clientHello))
	return err
}

func parseHello(data []byte) ([]string, string) {
	type hello struct {
		XMLName      xml.Name `xml:"hello"`
		SessionID    string   `xml:"session-id"`
		Capabilities struct {
			Capability []string `xml:"capability"`
		} `xml:"capabilities"`
	}
	var h hello
	if err := xml.Unmarshal(data, &h); err != nil {
		return nil, ""
	}
	return h.Capabilities.Capability, h.SessionID
}

// HasCandidate reports whether the device advertised the candidate
// datastore capability.
func (t *Transport) HasCandidate() bool {
	for _, c := range t.capabilities {
		if strings.Contains(c, capCandidate) {
			return true
		}
	}
	return false
}

func (t *Transport) nextMessageID() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.msgID++
	return t.msgID
}

// RPC wraps operation in an <rpc> envelope, sends it, and returns the
// raw reply body. It does not interpret rpc-error — callers (rpc.go)
// do that so vendor-specific error classification stays out of the
// transport layer.
func (t *Transport) RPC(operation string) ([]byte, error) {
	if !t.connected {
		return nil, fmt.Errorf("netconf: not connected")
	}

	msgID := t.nextMessageID()
	rpc := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rpc message-id="%d" xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
%s
</rpc>`, msgID, operation)

	if _, err := t.stdin.Write([]byte(rpc)); err != nil {
		return nil, fmt.Errorf("netconf: send rpc: %w", err)
	}
	return t.stdout.readMessage()
}

// Close sends close-session best-effort and tears down the SSH
// connection. Disconnection is infallible by construction: failures
// sending close-session are swallowed rather than surfaced.
func (t *Transport) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.connected {
		msgID := t.msgID + 1
		closeMsg := fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<rpc message-id="%d" xmlns="urn:ietf:params:xml:ns:netconf:base:1.0">
  <close-session/>
</rpc>`, msgID)
		_, _ = t.stdin.Write([]byte(closeMsg)) //nolint:errcheck // best effort, see doc comment
	}
	if t.session != nil {
		_ = t.session.Close()
	}
	if t.sshClient != nil {
		_ = t.sshClient.Close()
	}
	t.connected = false
}
