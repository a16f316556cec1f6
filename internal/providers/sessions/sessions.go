// ABOUTME: Sessions provider: long-lived interactive shells on pseudo-terminals.
// ABOUTME: Output is buffered with a bounded tail; reads drain what accumulated.

package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/creack/pty"
	"github.com/google/uuid"

	"github.com/hearthd/hearth/internal/tools"
)

const maxBufferBytes = 64 * 1024

var category = tools.Category{
	Name:        "sessions",
	Description: "Interactive terminal sessions for long-running programs",
}

// session is one live PTY-backed process.
type session struct {
	id      string
	command string
	cmd     *exec.Cmd
	ptmx    *os.File
	started time.Time

	mu       sync.Mutex
	buf      []byte
	readOff  int
	exited   bool
	exitDesc string

	done chan struct{}
	once sync.Once
}

func (s *session) appendOutput(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf = append(s.buf, p...)
	if over := len(s.buf) - maxBufferBytes; over > 0 {
		s.buf = s.buf[over:]
		s.readOff -= over
		if s.readOff < 0 {
			s.readOff = 0
		}
	}
}

// drain returns output accumulated since the previous drain.
func (s *session) drain() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := string(s.buf[s.readOff:])
	s.readOff = len(s.buf)
	return out
}

func (s *session) close() {
	s.once.Do(func() {
		if s.ptmx != nil {
			s.ptmx.Close()
		}
		if s.cmd.Process != nil {
			s.cmd.Process.Kill()
		}
		close(s.done)
	})
}

func (s *session) isDone() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

// Provider manages interactive sessions.
type Provider struct {
	maxSessions int

	mu       sync.Mutex
	sessions map[string]*session
}

// New creates the sessions provider with a live-session cap.
func New(maxSessions int) *Provider {
	if maxSessions <= 0 {
		maxSessions = 4
	}
	return &Provider{maxSessions: maxSessions, sessions: map[string]*session{}}
}

// Close terminates every live session.
func (p *Provider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for id, s := range p.sessions {
		s.close()
		delete(p.sessions, id)
	}
}

// Descriptors lists the session tools.
func (p *Provider) Descriptors() []tools.Descriptor {
	return []tools.Descriptor{
		{
			Name:        "sessions.start",
			Description: "Start an interactive program on a pseudo-terminal",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"command": {Type: "string", Description: "Command to run with bash -lc"},
			}, "command"),
			Category: category,
		},
		{
			Name:        "sessions.send",
			Description: "Write input to a session's terminal (a newline is appended)",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"id":    {Type: "string", Description: "Session ID"},
				"input": {Type: "string", Description: "Text to send"},
			}, "id", "input"),
			Category: category,
		},
		{
			Name:        "sessions.read",
			Description: "Read output accumulated since the last read",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"id": {Type: "string", Description: "Session ID"},
			}, "id"),
			Category: category,
		},
		{
			Name:        "sessions.stop",
			Description: "Terminate a session",
			InputSchema: tools.ObjectSchema(map[string]tools.Property{
				"id": {Type: "string", Description: "Session ID"},
			}, "id"),
			Category: category,
		},
		{
			Name:        "sessions.list",
			Description: "List live and recently exited sessions",
			InputSchema: tools.ObjectSchema(nil),
			Category:    category,
		},
	}
}

// Invoke executes a session tool by name.
func (p *Provider) Invoke(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	switch name {
	case "sessions.start":
		return p.start(args)
	case "sessions.send":
		return p.send(args)
	case "sessions.read":
		return p.read(args)
	case "sessions.stop":
		return p.stop(args)
	case "sessions.list":
		return p.list()
	default:
		return tools.Result{}, tools.BadArgsf("unknown sessions tool %s", name)
	}
}

type startInput struct {
	Command string `json:"command"`
}

func (p *Provider) start(args json.RawMessage) (tools.Result, error) {
	var in startInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	if strings.TrimSpace(in.Command) == "" {
		return tools.Result{}, tools.BadArgsf("command is required")
	}

	p.mu.Lock()
	p.pruneLocked()
	if p.liveCountLocked() >= p.maxSessions {
		p.mu.Unlock()
		return tools.Result{}, tools.BadArgsf("too many live sessions (max %d)", p.maxSessions)
	}
	p.mu.Unlock()

	cmd := exec.Command("bash", "-lc", in.Command)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return tools.Result{}, tools.APIErrf("starting pty: %v", err)
	}

	s := &session{
		id:      uuid.NewString(),
		command: in.Command,
		cmd:     cmd,
		ptmx:    ptmx,
		started: time.Now(),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	go s.waitLoop()

	p.mu.Lock()
	p.sessions[s.id] = s
	p.mu.Unlock()

	return tools.JSON(map[string]any{"id": s.id})
}

func (s *session) readLoop() {
	tmp := make([]byte, 4096)
	for {
		n, err := s.ptmx.Read(tmp)
		if n > 0 {
			s.appendOutput(tmp[:n])
		}
		if err != nil {
			return
		}
	}
}

func (s *session) waitLoop() {
	err := s.cmd.Wait()
	s.mu.Lock()
	s.exited = true
	if err != nil {
		s.exitDesc = err.Error()
	} else {
		s.exitDesc = "exit status 0"
	}
	s.mu.Unlock()
	s.close()
}

type sendInput struct {
	ID    string `json:"id"`
	Input string `json:"input"`
}

func (p *Provider) send(args json.RawMessage) (tools.Result, error) {
	var in sendInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	s, err := p.get(in.ID)
	if err != nil {
		return tools.Result{}, err
	}
	if s.isDone() {
		return tools.Result{}, tools.BadArgsf("session %s has exited", in.ID)
	}
	if _, err := io.WriteString(s.ptmx, in.Input+"\n"); err != nil {
		return tools.Result{}, tools.APIErrf("writing to session: %v", err)
	}
	// Give the program a moment to react before collecting output.
	time.Sleep(150 * time.Millisecond)
	return tools.Text(s.drain()), nil
}

type idInput struct {
	ID string `json:"id"`
}

func (p *Provider) read(args json.RawMessage) (tools.Result, error) {
	var in idInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	s, err := p.get(in.ID)
	if err != nil {
		return tools.Result{}, err
	}
	out := s.drain()
	s.mu.Lock()
	exited, desc := s.exited, s.exitDesc
	s.mu.Unlock()
	if exited {
		out += fmt.Sprintf("\n(session exited: %s)", desc)
	}
	return tools.Text(out), nil
}

func (p *Provider) stop(args json.RawMessage) (tools.Result, error) {
	var in idInput
	if err := tools.DecodeArgs(args, &in); err != nil {
		return tools.Result{}, err
	}
	s, err := p.get(in.ID)
	if err != nil {
		return tools.Result{}, err
	}
	s.close()
	p.mu.Lock()
	delete(p.sessions, in.ID)
	p.mu.Unlock()
	return tools.Textf("stopped session %s", in.ID), nil
}

func (p *Provider) list() (tools.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	type info struct {
		ID      string `json:"id"`
		Command string `json:"command"`
		Started string `json:"started"`
		Live    bool   `json:"live"`
	}
	out := make([]info, 0, len(p.sessions))
	for _, s := range p.sessions {
		out = append(out, info{
			ID:      s.id,
			Command: s.command,
			Started: s.started.UTC().Format(time.RFC3339),
			Live:    !s.isDone(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Started < out[j].Started })
	return tools.JSON(map[string]any{"sessions": out, "count": len(out)})
}

func (p *Provider) get(id string) (*session, error) {
	if id == "" {
		return nil, tools.BadArgsf("id is required")
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.sessions[id]
	if !ok {
		return nil, tools.BadArgsf("no such session: %s", id)
	}
	return s, nil
}

func (p *Provider) liveCountLocked() int {
	n := 0
	for _, s := range p.sessions {
		if !s.isDone() {
			n++
		}
	}
	return n
}

// pruneLocked drops exited sessions to make room for new ones.
func (p *Provider) pruneLocked() {
	for id, s := range p.sessions {
		if s.isDone() {
			delete(p.sessions, id)
		}
	}
}

var _ tools.Provider = (*Provider)(nil)
