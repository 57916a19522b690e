// Package console is a line-oriented terminal front end for one encounter.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/cory-johannsen/bloodrage/internal/game/combat"
	"github.com/cory-johannsen/bloodrage/internal/game/command"
	"github.com/cory-johannsen/bloodrage/internal/gameserver"
)

// Console plays one scene against a reader of commands and a writer of
// rendered output. It satisfies server.Service.
type Console struct {
	svc      *gameserver.Service
	sceneID  string
	registry *command.Registry
	in       io.Reader
	logger   *zap.Logger

	mu  sync.Mutex
	out io.Writer

	ended chan struct{}
	once  sync.Once
}

// New creates a Console for sceneID.
//
// Precondition: svc, in, out and logger must be non-nil.
func New(svc *gameserver.Service, sceneID string, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	return &Console{
		svc:      svc,
		sceneID:  sceneID,
		registry: command.DefaultRegistry(),
		in:       in,
		out:      out,
		logger:   logger,
		ended:    make(chan struct{}),
	}
}

// Say prints a scripted line. It matches scripting.Manager.Say.
func (c *Console) Say(_, speaker, line string) {
	c.println(RenderLine(speaker, line))
}

// Start runs the scene until it ends, the input is exhausted, the player
// quits, or ctx is cancelled. The encounter is finished on return.
//
// Postcondition: Returns an error only if the scene could not be started.
func (c *Console) Start(ctx context.Context) error {
	if def, ok := c.svc.Scene(c.sceneID); ok {
		c.println(Colorize(Bold+BrightYellow, def.Name))
		if def.Description != "" {
			c.println(def.Description)
		}
	}
	enc, err := c.svc.StartScene(ctx, c.sceneID, c.onEvent)
	if err != nil {
		return fmt.Errorf("starting scene %q: %w", c.sceneID, err)
	}
	defer c.svc.Finish(enc.ID())

	lines := make(chan string)
	stop := make(chan struct{})
	defer close(stop)
	go c.scan(ctx, stop, lines)

	c.status(enc)
	for {
		if enc.Done() {
			return nil
		}
		c.prompt(enc)
		select {
		case <-ctx.Done():
			return nil
		case <-c.ended:
			return nil
		case line, ok := <-lines:
			if !ok {
				c.logger.Debug("console input closed")
				return nil
			}
			if c.handle(enc, line) {
				return nil
			}
		}
	}
}

// Stop is a no-op; Start returns once its context is cancelled.
func (c *Console) Stop() {}

func (c *Console) scan(ctx context.Context, stop <-chan struct{}, lines chan<- string) {
	defer close(lines)
	sc := bufio.NewScanner(c.in)
	for sc.Scan() {
		select {
		case lines <- sc.Text():
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
	if err := sc.Err(); err != nil {
		c.logger.Warn("reading console input", zap.Error(err))
	}
}

// onEvent runs under the encounter lock and must not call back into it.
func (c *Console) onEvent(ev combat.Event) {
	if s := RenderEvent(ev); s != "" {
		c.println(s)
	}
	switch ev.Type {
	case combat.EventVictory, combat.EventDefeat, combat.EventEscape:
		c.once.Do(func() { close(c.ended) })
	}
}

// The console only reads combatant views; the encounter may be advanced by
// its turn timer at any moment.
func (c *Console) prompt(enc *combat.Encounter) {
	acting, ok := enc.Acting()
	if !ok || enc.State() != combat.StatePlayerTurn {
		return
	}
	p := fmt.Sprintf("%s [%s]", acting.Name, RenderAbilities(acting))
	if sel := enc.Selected(); sel != "" {
		p += Colorf(Yellow, " %s ->", sel)
	}
	c.print(p + " > ")
}

func (c *Console) status(enc *combat.Encounter) {
	acting, _ := enc.Acting()
	c.println(RenderStatus(enc.Roster(), acting.ID))
}

// handle runs one input line and reports whether the player quit.
func (c *Console) handle(enc *combat.Encounter, line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	cmd, pr, err := c.registry.Dispatch(line)
	if err != nil {
		c.println(Colorize(Red, err.Error()))
		return false
	}
	acting, _ := enc.Acting()
	actor := acting.ID

	switch cmd.Handler {
	case command.HandlerUse:
		err = enc.SelectAbility(actor, pr.Arg(0))
		if err == nil && enc.Selected() != "" {
			if target := pr.Arg(1); target != "" {
				err = enc.SelectTarget(actor, target)
			} else {
				c.showTargets(enc, pr.Arg(0))
			}
		}
	case command.HandlerTarget:
		err = enc.SelectTarget(actor, pr.Arg(0))
	case command.HandlerCancel:
		err = enc.CancelSelection(actor)
	case command.HandlerSkip:
		err = enc.SkipTurn(actor)
	case command.HandlerHarm:
		var n int
		if n, err = pr.IntArg(0); err == nil {
			err = enc.SelfHarm(actor, n)
		}
	case command.HandlerFlee:
		err = enc.Escape(actor)
	case command.HandlerStatus:
		c.status(enc)
	case command.HandlerTargets:
		c.showTargets(enc, pr.Arg(0))
	case command.HandlerHelp:
		c.print(RenderHelp(c.registry))
	case command.HandlerQuit:
		return true
	}
	if err != nil {
		c.println(Colorize(Red, err.Error()))
	}
	return false
}

func (c *Console) showTargets(enc *combat.Encounter, abilityID string) {
	targets, err := enc.ValidTargets(abilityID)
	if err != nil {
		c.println(Colorize(Red, err.Error()))
		return
	}
	c.println(RenderTargets(targets))
}

func (c *Console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := io.WriteString(c.out, s); err != nil {
		c.logger.Warn("writing console output", zap.Error(err))
	}
}

func (c *Console) println(s string) {
	c.print(s + "\n")
}
