package smt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/go-air/hornq/debug"
	"github.com/go-air/hornq/sexp"
	"github.com/go-air/hornq/terms"
)

// dialogue states; commands are only legal in order
type state uint8

const (
	idle state = iota
	declaring
	asserting
	waitingSat
	waitingInterp
)

var stateNames = [...]string{
	idle:          "idle",
	declaring:     "declaring",
	asserting:     "asserting",
	waitingSat:    "waiting-sat",
	waitingInterp: "waiting-interp",
}

// Solver is a handle on one interpolating backend dialogue. Writes and
// reads are paired; no concurrent command issuance is permitted.
type Solver struct {
	backend Backend

	proc  *exec.Cmd
	stdin io.WriteCloser
	w     *bufio.Writer
	br    *bufio.Reader
	rd    *sexp.Reader

	log      io.Writer
	closeLog func() error

	state   state
	version z3Version
	nameID  int
}

// Option configures a Solver.
type Option func(*Solver) error

// WithPath overrides the backend executable path.
func WithPath(path string) Option {
	return func(s *Solver) error {
		if s.proc != nil {
			s.proc.Path = path
			s.proc.Err = nil
		}
		return nil
	}
}

// WithLog mirrors the dialogue to w: commands verbatim, responses as
// comment lines, so the log replays against the backend directly.
func WithLog(w io.Writer) Option {
	return func(s *Solver) error {
		s.log = w
		return nil
	}
}

// WithLogFile mirrors the dialogue to the named file.
func WithLogFile(path string) Option {
	return func(s *Solver) error {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		s.log = f
		s.closeLog = f.Close
		return nil
	}
}

// New spawns the backend subprocess and runs the version probe and
// preamble. The caller must Close the solver on all exit paths.
func New(b Backend, opts ...Option) (*Solver, error) {
	cmd := exec.Command(b.executable(), b.args()...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, err
	}
	s := &Solver{
		backend: b,
		proc:    cmd,
		stdin:   stdin,
		w:       bufio.NewWriter(stdin),
		br:      bufio.NewReader(stdout),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.rd = sexp.NewReader(s.br)
	if err := cmd.Start(); err != nil {
		if s.closeLog != nil {
			s.closeLog()
		}
		return nil, err
	}
	if err := s.hello(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Attach builds a solver over an existing dialogue stream instead of a
// subprocess.
func Attach(r io.Reader, w io.Writer, b Backend, opts ...Option) (*Solver, error) {
	s := &Solver{
		backend: b,
		w:       bufio.NewWriter(w),
		br:      bufio.NewReader(r),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	s.rd = sexp.NewReader(s.br)
	if err := s.hello(); err != nil {
		return nil, err
	}
	return s, nil
}

// hello probes the backend version when needed and sends the preamble.
func (s *Solver) hello() error {
	if s.backend.probes() {
		if err := s.send("(get-info :version)"); err != nil {
			return err
		}
		line, err := s.recvLine()
		if err != nil {
			return err
		}
		v, err := parseZ3Version(line)
		if err != nil {
			return err
		}
		s.version = v
	}
	for _, line := range s.backend.preamble(s.version) {
		if err := s.send(line); err != nil {
			return err
		}
	}
	return s.w.Flush()
}

func (s *Solver) send(line string) error {
	if debug.SMT() {
		debug.Logf("smt> %s\n", line)
	}
	if s.log != nil {
		fmt.Fprintln(s.log, line)
	}
	if _, err := s.w.WriteString(line); err != nil {
		return err
	}
	return s.w.WriteByte('\n')
}

// recvLine reads one non-empty response line.
func (s *Solver) recvLine() (string, error) {
	if err := s.w.Flush(); err != nil {
		return "", err
	}
	for {
		line, err := s.br.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" && err != nil {
			return "", err
		}
		if line == "" {
			continue
		}
		s.logResp(line)
		return line, nil
	}
}

func (s *Solver) logResp(v string) {
	if debug.SMT() {
		debug.Logf("smt< %s\n", v)
	}
	if s.log != nil {
		fmt.Fprintf(s.log, "; %s\n", v)
	}
}

func (s *Solver) inState(allowed ...state) error {
	for _, a := range allowed {
		if s.state == a {
			return nil
		}
	}
	return fmt.Errorf("%w: in %s", ErrState, stateNames[s.state])
}

// Declare declares one symbol. Declarations are only legal while no
// interpolation query is in progress.
func (s *Solver) Declare(sym terms.Symbol, sort terms.Sort) error {
	if err := s.inState(idle, declaring); err != nil {
		return err
	}
	s.state = declaring
	return s.send(fmt.Sprintf("(declare-fun %s () %s)", sym, sort))
}

// DeclareAll declares the symbols of env in name order.
func (s *Solver) DeclareAll(env map[terms.Symbol]terms.Sort) error {
	syms := make([]terms.Symbol, 0, len(env))
	for sym := range env {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	for _, sym := range syms {
		if err := s.Declare(sym, env[sym]); err != nil {
			return err
		}
	}
	return nil
}

// Interpolate brackets the query in a push/pop scope, asserts it under
// a fresh label, and consumes the response: an unsat verdict followed by
// exactly ncuts interpolant s-expressions. Any other response shape is a
// protocol error fatal to this query.
func (s *Solver) Interpolate(f *terms.Expr, ncuts int) ([]*terms.Expr, error) {
	if err := s.inState(idle, declaring); err != nil {
		return nil, err
	}
	wire, err := sexp.String(f)
	if err != nil {
		return nil, err
	}
	if err := s.send("(push 1)"); err != nil {
		return nil, err
	}
	s.state = asserting
	s.nameID++
	if err := s.send(fmt.Sprintf("(assert (! %s :named p-%d))", wire, s.nameID)); err != nil {
		return nil, err
	}
	if err := s.send(s.backend.interpCommand()); err != nil {
		return nil, err
	}
	s.state = waitingSat

	verdict, err := s.recvLine()
	if err != nil {
		return nil, err
	}
	switch verdict {
	case "unsat":
	case "sat":
		return nil, fmt.Errorf("%w: sat on interpolation query p-%d", ErrProto, s.nameID)
	case "unknown":
		return nil, fmt.Errorf("%w: unknown on interpolation query p-%d", ErrProto, s.nameID)
	default:
		return nil, fmt.Errorf("%w: %q", ErrProto, verdict)
	}
	s.state = waitingInterp

	interps := make([]*terms.Expr, 0, ncuts)
	for i := 0; i < ncuts; i++ {
		e, err := s.rd.Read()
		if err == io.EOF {
			return nil, fmt.Errorf("%w: %d interpolants for %d cuts", ErrProto, i, ncuts)
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrProto, err)
		}
		s.logResp(e.String())
		interps = append(interps, e)
	}
	s.state = idle
	if err := s.send("(pop 1)"); err != nil {
		return nil, err
	}
	return interps, s.w.Flush()
}

// Close tears the dialogue down: it closes the command stream, drains
// any partially-consumed response bytes, and awaits process exit.
func (s *Solver) Close() error {
	var first error
	keep := func(err error) {
		if first == nil && err != nil {
			first = err
		}
	}
	keep(s.send("(exit)"))
	keep(s.w.Flush())
	if s.stdin != nil {
		keep(s.stdin.Close())
	}
	if s.br != nil {
		_, err := io.Copy(io.Discard, s.br)
		keep(err)
	}
	if s.proc != nil {
		keep(s.proc.Wait())
	}
	if s.closeLog != nil {
		keep(s.closeLog())
	}
	return first
}
