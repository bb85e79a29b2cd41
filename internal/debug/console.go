package debug

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Versifine/stride/internal/input"
	"github.com/Versifine/stride/internal/locomotion"
	"github.com/Versifine/stride/internal/sim"
	"github.com/go-gl/mathgl/mgl64"
	"golang.org/x/term"
)

const (
	defaultMovePulse = 180 * time.Millisecond
	yawStep          = 5.0
)

type ControlledCharacter interface {
	sim.Ticker
	LastReport() locomotion.Report
	Command() input.Command
	Position() mgl64.Vec3
	Teleport(pos mgl64.Vec3) error
	Respawn() error
}

// Console drives a character from raw terminal keys. It is the intent source
// of its own runner.
type Console struct {
	char      ControlledCharacter
	tickRate  int
	movePulse time.Duration
	out       io.Writer
	now       func() time.Time

	mu            sync.Mutex
	current       input.Intent
	forwardUntil  time.Time
	backwardUntil time.Time
	leftUntil     time.Time
	rightUntil    time.Time
	jumpQueued    int
	jumpSent      bool
	commandMode   bool
	commandBuf    []rune
	statusWidth   int
}

func NewConsole(char ControlledCharacter, tickRate int) *Console {
	return &Console{
		char:      char,
		tickRate:  tickRate,
		movePulse: defaultMovePulse,
		out:       os.Stdout,
		now:       time.Now,
	}
}

func (c *Console) Start(ctx context.Context) error {
	if c == nil {
		return fmt.Errorf("console is nil")
	}
	if c.char == nil {
		return fmt.Errorf("console character is nil")
	}

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("set terminal raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
		fmt.Fprint(c.out, "\r\n")
	}()

	fmt.Fprint(c.out, "[debug] console started (W/A/S/D pulse, Space jump, arrows, X, :, [ peak, ] run)\r\n")
	c.renderStatusLine()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	runner := &sim.Runner{
		Character: c.char,
		Source:    c,
		TickRate:  c.tickRate,
		OnTick:    func(int, input.Intent, locomotion.Report) { c.renderStatusLine() },
	}
	go func() {
		if err := runner.Run(ctx); err != nil {
			slog.Error("debug runner stopped", "error", err)
		}
	}()

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		b, err := reader.ReadByte()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("read console input: %w", err)
		}
		if b == 3 { // Ctrl+C is not a signal in raw mode
			return nil
		}
		c.handleKey(reader, b)
	}
}

// Next returns the intent currently held on the keyboard. The console never
// runs dry. Each Space press becomes one tick of Jump followed by at least one
// tick without it, so every press is a separate rising edge.
func (c *Console) Next() (input.Intent, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.applyPulsesLocked(c.now())
	c.current.Jump = c.jumpQueued > 0 && !c.jumpSent
	if c.current.Jump {
		c.jumpQueued--
	}
	c.jumpSent = c.current.Jump
	return c.current, true
}

func (c *Console) handleKey(reader *bufio.Reader, b byte) {
	if c.isCommandMode() {
		c.handleCommandByte(b)
		return
	}

	switch b {
	case ':':
		c.enterCommandMode()
		return
	case 'w', 'W':
		c.pulse(&c.forwardUntil, &c.backwardUntil)
	case 's', 'S':
		c.pulse(&c.backwardUntil, &c.forwardUntil)
	case 'a', 'A':
		c.pulse(&c.leftUntil, &c.rightUntil)
	case 'd', 'D':
		c.pulse(&c.rightUntil, &c.leftUntil)
	case ' ':
		c.queueJump()
	case '[':
		c.togglePeak()
	case ']':
		c.toggleRun()
	case 'x', 'X':
		c.clearInput()
	case 27: // ESC + arrow sequence
		next, err := reader.ReadByte()
		if err != nil || next != '[' {
			return
		}
		arrow, err := reader.ReadByte()
		if err != nil {
			return
		}
		switch arrow {
		case 'D': // left
			c.adjustYaw(-yawStep)
		case 'C': // right
			c.adjustYaw(yawStep)
		}
	}
	c.renderStatusLine()
}

func (c *Console) enterCommandMode() {
	c.mu.Lock()
	c.commandMode = true
	c.commandBuf = c.commandBuf[:0]
	c.mu.Unlock()
	fmt.Fprint(c.out, "\r\n:")
}

func (c *Console) handleCommandByte(b byte) {
	switch b {
	case 13, 10: // Enter
		c.mu.Lock()
		cmd := strings.TrimSpace(string(c.commandBuf))
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()

		fmt.Fprint(c.out, "\r\n")
		if cmd != "" {
			c.executeCommand(cmd)
		}
		c.renderStatusLine()
		return
	case 27: // ESC cancel command mode
		c.mu.Lock()
		c.commandMode = false
		c.commandBuf = c.commandBuf[:0]
		c.mu.Unlock()
		fmt.Fprint(c.out, "\r\n[debug] command cancelled\r\n")
		c.renderStatusLine()
		return
	case 8, 127: // Backspace
		c.mu.Lock()
		if len(c.commandBuf) > 0 {
			c.commandBuf = c.commandBuf[:len(c.commandBuf)-1]
		}
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s ", buf)
		fmt.Fprintf(c.out, "\r:%s", buf)
		return
	default:
		if b < 32 || b > 126 {
			return
		}
		c.mu.Lock()
		c.commandBuf = append(c.commandBuf, rune(b))
		buf := string(c.commandBuf)
		c.mu.Unlock()
		fmt.Fprintf(c.out, "\r:%s", buf)
	}
}

func (c *Console) executeCommand(cmd string) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return
	}

	switch parts[0] {
	case "help":
		c.printHelp()
	case "state":
		r := c.char.LastReport()
		command := c.char.Command()
		pos := c.char.Position()
		fmt.Fprintf(c.out, "[debug] pos=(%.3f,%.3f,%.3f) vel=(%.3f,%.3f,%.3f) ground=%s steep=%t phase=%d normal=(%.3f,%.3f,%.3f) mode=%s speed=%.2f\r\n",
			pos.X(), pos.Y(), pos.Z(),
			r.Velocity.X(), r.Velocity.Y(), r.Velocity.Z(),
			r.Grounding, r.OnSteep, r.JumpPhase,
			r.ContactNormal.X(), r.ContactNormal.Y(), r.ContactNormal.Z(),
			command.Mode, command.Speed,
		)
	case "tp":
		if len(parts) != 4 {
			fmt.Fprint(c.out, "[debug] usage: :tp <x> <y> <z>\r\n")
			return
		}
		x, err1 := strconv.ParseFloat(parts[1], 64)
		y, err2 := strconv.ParseFloat(parts[2], 64)
		z, err3 := strconv.ParseFloat(parts[3], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			fmt.Fprint(c.out, "[debug] invalid tp args\r\n")
			return
		}
		if err := c.char.Teleport(mgl64.Vec3{x, y, z}); err != nil {
			fmt.Fprintf(c.out, "[debug] tp failed: %v\r\n", err)
			return
		}
		fmt.Fprintf(c.out, "[debug] teleported to (%.3f, %.3f, %.3f)\r\n", x, y, z)
	case "respawn":
		if err := c.char.Respawn(); err != nil {
			fmt.Fprintf(c.out, "[debug] respawn failed: %v\r\n", err)
			return
		}
		c.clearInput()
		fmt.Fprint(c.out, "[debug] respawned\r\n")
	default:
		fmt.Fprintf(c.out, "[debug] unknown command: %s\r\n", parts[0])
	}
}

func (c *Console) printHelp() {
	fmt.Fprint(c.out, "[debug] keys:\r\n")
	fmt.Fprint(c.out, "  W/S/A/D: pulse movement (~180ms)\r\n")
	fmt.Fprint(c.out, "  Space: jump\r\n")
	fmt.Fprint(c.out, "  [: toggle peak speed\r\n")
	fmt.Fprint(c.out, "  ]: toggle run speed\r\n")
	fmt.Fprint(c.out, "  Arrow Left/Right: yaw +/-5\r\n")
	fmt.Fprint(c.out, "  X: clear all input\r\n")
	fmt.Fprint(c.out, "  : enter command mode\r\n")
	fmt.Fprint(c.out, "[debug] commands:\r\n")
	fmt.Fprint(c.out, "  :tp <x> <y> <z>\r\n")
	fmt.Fprint(c.out, "  :respawn\r\n")
	fmt.Fprint(c.out, "  :state\r\n")
	fmt.Fprint(c.out, "  :help\r\n")
}

func (c *Console) renderStatusLine() {
	c.mu.Lock()
	if c.commandMode {
		c.mu.Unlock()
		return
	}
	in := c.current
	width := c.statusWidth
	c.mu.Unlock()

	r := c.char.LastReport()
	pos := c.char.Position()

	line := fmt.Sprintf(
		"[MOVE:(%+.0f,%+.0f) RUN:%s PEAK:%s JMP:%s | YAW:%.1f | X:%.2f Y:%.2f Z:%.2f | %s phase:%d vy:%.2f n:(%.2f,%.2f,%.2f)]",
		in.Move.X(), in.Move.Y(),
		boolLabel(in.Run),
		boolLabel(in.Peak),
		boolLabel(in.Jump),
		in.Yaw,
		pos.X(), pos.Y(), pos.Z(),
		r.Grounding,
		r.JumpPhase,
		r.Velocity.Y(),
		r.ContactNormal.X(), r.ContactNormal.Y(), r.ContactNormal.Z(),
	)

	padding := ""
	if width > len(line) {
		padding = strings.Repeat(" ", width-len(line))
	}
	fmt.Fprintf(c.out, "\r%s%s", line, padding)

	c.mu.Lock()
	if len(line) > c.statusWidth {
		c.statusWidth = len(line)
	}
	c.mu.Unlock()
}

// pulse holds a key for movePulse and releases its opposite.
func (c *Console) pulse(until, opposite *time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	*until = c.now().Add(c.movePulse)
	*opposite = time.Time{}
	c.applyPulsesLocked(c.now())
}

func (c *Console) applyPulsesLocked(now time.Time) {
	held := func(until *time.Time) bool {
		if until.IsZero() {
			return false
		}
		if !now.Before(*until) {
			*until = time.Time{}
			return false
		}
		return true
	}

	var move mgl64.Vec2
	if held(&c.forwardUntil) {
		move[1]++
	}
	if held(&c.backwardUntil) {
		move[1]--
	}
	if held(&c.rightUntil) {
		move[0]++
	}
	if held(&c.leftUntil) {
		move[0]--
	}
	c.current.Move = move
}

func (c *Console) queueJump() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.jumpQueued++
}

func (c *Console) adjustYaw(delta float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.current.Yaw = normalizeYaw(c.current.Yaw + delta)
}

func (c *Console) isCommandMode() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commandMode
}

func boolLabel(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func normalizeYaw(yaw float64) float64 {
	for yaw <= -180 {
		yaw += 360
	}
	for yaw > 180 {
		yaw -= 360
	}
	return yaw
}

func (c *Console) togglePeak() {
	c.mu.Lock()
	c.current.Peak = !c.current.Peak
	if c.current.Peak {
		c.current.Run = false
	}
	enabled := c.current.Peak
	c.mu.Unlock()
	slog.Debug("debug peak toggled", "enabled", enabled)
}

func (c *Console) toggleRun() {
	c.mu.Lock()
	c.current.Run = !c.current.Run
	if c.current.Run {
		c.current.Peak = false
	}
	enabled := c.current.Run
	c.mu.Unlock()
	slog.Debug("debug run toggled", "enabled", enabled)
}

func (c *Console) clearInput() {
	c.mu.Lock()
	c.current = input.Intent{}
	c.forwardUntil = time.Time{}
	c.backwardUntil = time.Time{}
	c.leftUntil = time.Time{}
	c.rightUntil = time.Time{}
	c.jumpQueued = 0
	c.jumpSent = false
	c.mu.Unlock()
}
