// ABOUTME: Interactive session state for sazon-tui: slash commands and event printing
// ABOUTME: Replies arrive asynchronously through controller events and are drawn by one goroutine

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/2389/sazon-chat/internal/conversation"
	"github.com/2389/sazon-chat/internal/i18n"
	"github.com/2389/sazon-chat/internal/render"
)

// syncWriter serializes writes from the input loop and the event printer.
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

type app struct {
	ctrl     *conversation.Controller
	sessions conversation.SessionSource
	term     *render.Terminal
	out      io.Writer
	now      func() time.Time
	logger   *slog.Logger

	// pending closes when the last accepted submit has settled
	pending <-chan struct{}

	dim *color.Color
	red *color.Color
}

func newApp(ctrl *conversation.Controller, sessions conversation.SessionSource, out io.Writer, colored bool, logger *slog.Logger) *app {
	a := &app{
		ctrl:     ctrl,
		sessions: sessions,
		term:     render.NewTerminal(colored),
		out:      &syncWriter{w: out},
		now:      time.Now,
		logger:   logger,
		dim:      color.New(color.FgHiBlack, color.Italic),
		red:      color.New(color.FgRed, color.Bold),
	}
	for _, c := range []*color.Color{a.dim, a.red} {
		if colored {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return a
}

func (a *app) labels() i18n.Strings {
	return i18n.Lookup(a.ctrl.Locale())
}

// watch subscribes before returning so no event after the call is missed.
// The returned channel closes once the subscription ends.
func (a *app) watch(ctx context.Context) <-chan struct{} {
	events := a.ctrl.Subscribe(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range events {
			a.printEvent(ev)
		}
	}()
	return done
}

func (a *app) printEvent(ev conversation.Event) {
	switch ev.Type {
	case conversation.EventMessageAppended:
		if ev.Message == nil || ev.Message.Role != conversation.RoleAssistant {
			return
		}
		fmt.Fprintln(a.out)
		if err := a.term.Reply(a.out, ev.Message.Blocks); err != nil {
			a.logger.Warn("failed to print reply", "error", err)
		}
		if line := a.term.Sources(a.labels().Sources, ev.Message.Sources); line != "" {
			fmt.Fprintln(a.out, line)
		}
		fmt.Fprintln(a.out)

	case conversation.EventPhaseChanged:
		phrases := i18n.LoadingPhrases(a.ctrl.Locale())
		if len(phrases) == 0 {
			return
		}
		phrase := phrases[min(ev.Phase.Index, len(phrases)-1)]
		fmt.Fprintln(a.out, a.dim.Sprint("… "+phrase))

	case conversation.EventStateChanged:
		if ev.State == conversation.StateError {
			s := a.labels()
			fmt.Fprintln(a.out, a.red.Sprint(s.ErrorTitle+": ")+s.ErrorText)
		}

	case conversation.EventCleared:
		fmt.Fprintln(a.out, a.dim.Sprint(a.labels().Cleared))
	}
}

func (a *app) printWelcome() {
	s := a.labels()
	fmt.Fprintln(a.out, a.red.Sprint(s.Welcome)+" "+s.WelcomeText)
	a.printQuick()
	fmt.Fprintln(a.out)
}

func (a *app) printQuick() {
	for i, q := range a.labels().QuickQueries {
		fmt.Fprintf(a.out, "  %d. %s %s\n", i+1, q.Label, a.dim.Sprint("("+q.Description+")"))
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  /quick          List preset questions")
	fmt.Fprintln(w, "  /quick <n>      Ask preset question n")
	fmt.Fprintln(w, "  /lang [en|es]   Show or switch the display language")
	fmt.Fprintln(w, "  /clear          Clear the conversation and the agent's memory")
	fmt.Fprintln(w, "  /export <file>  Save the conversation as an HTML transcript")
	fmt.Fprintln(w, "  /session        Show the session id")
	fmt.Fprintln(w, "  /help           Show this help")
	fmt.Fprintln(w, "  /quit           Exit")
}

// handle processes one input line. It reports true when the user asked to quit.
func (a *app) handle(ctx context.Context, input string) bool {
	input = strings.TrimSpace(input)
	if input == "" {
		return false
	}

	if !strings.HasPrefix(input, "/") {
		a.submit(ctx, input)
		return false
	}

	fields := strings.Fields(input)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "/quit", "/exit", "/q":
		return true

	case "/help":
		printHelp(a.out)

	case "/clear":
		a.ctrl.Clear(ctx)

	case "/lang":
		a.lang(args)

	case "/quick":
		a.quick(ctx, args)

	case "/export":
		a.export(args)

	case "/session":
		fmt.Fprintln(a.out, a.sessions.GetOrCreateID(ctx))

	default:
		fmt.Fprintf(a.out, "Unknown command %s. /help for commands.\n", cmd)
	}
	return false
}

func (a *app) submit(ctx context.Context, text string) {
	done := a.ctrl.Submit(ctx, text)
	if done == nil {
		fmt.Fprintln(a.out, a.dim.Sprint(a.labels().Searching))
		return
	}
	a.pending = done
}

// wait blocks until the last accepted submit settles or ctx ends.
func (a *app) wait(ctx context.Context) {
	if a.pending == nil {
		return
	}
	select {
	case <-a.pending:
	case <-ctx.Done():
	}
}

func (a *app) lang(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Language: %s\n", a.ctrl.Locale())
		return
	}
	locale, ok := i18n.Parse(args[0])
	if !ok {
		fmt.Fprintf(a.out, "Unsupported language %q. Use en or es.\n", args[0])
		return
	}
	a.ctrl.SetLocale(locale)
	s := a.labels()
	fmt.Fprintf(a.out, "%s · %s\n", s.ChatTitle, s.ChatSubtitle)
}

func (a *app) quick(ctx context.Context, args []string) {
	queries := a.labels().QuickQueries
	if len(args) == 0 {
		a.printQuick()
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(queries) {
		fmt.Fprintf(a.out, "Pick a number from 1 to %d.\n", len(queries))
		return
	}
	q := queries[n-1].Query
	fmt.Fprintf(a.out, "> %s\n", q)
	a.submit(ctx, q)
}

func (a *app) export(args []string) {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: /export <file>")
		return
	}
	path := args[0]
	if err := writeTranscript(path, a.ctrl.Locale(), a.ctrl.Messages(), a.now()); err != nil {
		a.logger.Error("transcript export failed", "path", path, "error", err)
		fmt.Fprintf(a.out, "[error] %v\n", err)
		return
	}
	fmt.Fprintf(a.out, "Saved %d messages to %s\n", a.ctrl.Len(), path)
}

func writeTranscript(path string, locale i18n.Locale, msgs []conversation.Message, now time.Time) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating transcript: %w", err)
	}
	if err := render.HTML(f, locale, msgs, now); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
