package cisco

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	expect "github.com/google/goexpect"
	"golang.org/x/crypto/ssh"
)

// promptRE matches a Cisco IOS-style privileged-exec prompt, e.g.
// "switch#" or "switch(config)#".
var promptRE = regexp.MustCompile(`(?m)[\w\-.()]+[#>]\s*$`)

// session wraps google/goexpect for interactive IOS CLI interaction,
// narrowed to a single vendor's prompt shape.
type session struct {
	expecter *expect.GExpect
	timeout  time.Duration
}

func newSession(client *ssh.Client, timeout time.Duration) (*session, error) {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	exp, _, err := expect.SpawnSSH(client, timeout,
		expect.Verbose(false),
		expect.CheckDuration(500*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("spawn ssh expect session: %w", err)
	}
	if _, _, err := exp.Expect(promptRE, timeout); err != nil {
		exp.Close()
		return nil, fmt.Errorf("detect initial prompt: %w", err)
	}
	s := &session{expecter: exp, timeout: timeout}
	if _, err := s.execute("terminal length 0"); err != nil {
		exp.Close()
		return nil, fmt.Errorf("disable pager: %w", err)
	}
	if _, err := s.execute("configure terminal"); err != nil {
		exp.Close()
		return nil, fmt.Errorf("enter config mode: %w", err)
	}
	return s, nil
}

func (s *session) execute(command string) (string, error) {
	if err := s.expecter.Send(command + "\n"); err != nil {
		return "", fmt.Errorf("send %q: %w", command, err)
	}
	output, _, err := s.expecter.Expect(promptRE, s.timeout)
	if err != nil {
		return output, fmt.Errorf("timeout waiting for prompt after %q: %w", command, err)
	}
	return cleanOutput(output, command), nil
}

func cleanOutput(output, command string) string {
	lines := strings.Split(output, "\n")
	var cleaned []string
	for i, line := range lines {
		if i == 0 && strings.Contains(line, command) {
			continue
		}
		if promptRE.MatchString(strings.TrimSpace(line)) {
			continue
		}
		cleaned = append(cleaned, line)
	}
	return strings.TrimSpace(strings.Join(cleaned, "\n"))
}

func (s *session) close() error {
	if s.expecter == nil {
		return nil
	}
	return s.expecter.Close()
}
