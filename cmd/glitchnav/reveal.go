package glitchnav

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/franzer/glitchnav/internal/eventloop"
	"github.com/franzer/glitchnav/internal/report"
	"github.com/franzer/glitchnav/internal/scramble"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	flagInstant    bool
	flagJSON       bool
	flagLeaveAfter time.Duration
	flagTargetID   string
)

func init() {
	cmd := &cobra.Command{
		Use:   "reveal TEXT",
		Short: "Play one scramble-reveal cycle and print every frame",
		Args:  cobra.ExactArgs(1),
		RunE:  runReveal,
		Example: `
# Watch HOME descramble in place
glitchnav reveal HOME

# Deterministic frames as JSON lines, without waiting between ticks
glitchnav reveal HOME --instant --json --seed 7

# Pointer leaves after 100ms
glitchnav reveal "GET IN TOUCH" --leave-after 100ms
`,
	}
	rootCmd.AddCommand(cmd)

	cmd.Flags().BoolVar(&flagInstant, "instant", false, "advance a virtual clock instead of waiting for real ticks")
	cmd.Flags().BoolVar(&flagJSON, "json", false, "emit frames as JSON lines")
	cmd.Flags().DurationVar(&flagLeaveAfter, "leave-after", 0, "deactivate after this long, as if the pointer left (0 = never)")
	cmd.Flags().StringVar(&flagTargetID, "id", "reveal", "target ID reported in frames")
}

type revealOptions struct {
	ID         string
	Instant    bool
	LeaveAfter time.Duration
	Format     report.FrameFormat
}

func runReveal(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	opts := revealOptions{
		ID:         flagTargetID,
		Instant:    flagInstant,
		LeaveAfter: flagLeaveAfter,
		Format:     frameFormat(out, flagJSON),
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	return reveal(ctx, out, args[0], settings.Engine(), opts)
}

func frameFormat(w io.Writer, jsonOut bool) report.FrameFormat {
	if jsonOut {
		return report.FrameJSON
	}
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return report.FrameInPlace
	}
	return report.FrameLines
}

// reveal attaches text to a single target, activates it and streams frames
// to w until the session completes or the leave deadline passes.
func reveal(ctx context.Context, w io.Writer, text string, cfg scramble.Config, opts revealOptions) error {
	if text == "" {
		return errors.New("reveal: text is empty")
	}
	if opts.ID == "" {
		opts.ID = "reveal"
	}
	fw := report.NewFrameWriter(w, opts.Format)

	var (
		e        *scramble.Engine
		ticks    int
		writeErr error
	)
	cfg.Renderer = scramble.RenderFunc(func(id, display string) {
		f := report.Frame{Target: id, Kind: report.FrameRestore, Tick: ticks, Text: display}
		if p, ok := e.Progress(id); ok {
			ticks++
			f.Kind = report.FrameTick
			f.Tick = ticks
			f.Revealed = p
		}
		if err := fw.Write(f); err != nil && writeErr == nil {
			writeErr = err
		}
	})
	observer := func(ev scramble.Event) {
		logger.Printf("%s: session %s after %d ticks", ev.Target, ev.Kind, ev.Ticks)
	}

	var err error
	if opts.Instant {
		cfg.Observer = observer
		err = revealInstant(&e, cfg, text, opts)
	} else {
		err = revealLive(ctx, &e, cfg, observer, text, opts)
	}
	if err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	return fw.Close()
}

func revealInstant(e **scramble.Engine, cfg scramble.Config, text string, opts revealOptions) error {
	sched := scramble.NewManualScheduler()
	*e = scramble.New(sched, cfg)
	(*e).Attach(opts.ID, text)
	if err := (*e).Activate(opts.ID); err != nil {
		return err
	}
	if opts.LeaveAfter > 0 {
		sched.Advance(opts.LeaveAfter)
		(*e).Deactivate(opts.ID)
		return nil
	}
	for sched.Step() {
	}
	return nil
}

func revealLive(ctx context.Context, e **scramble.Engine, cfg scramble.Config, observer func(scramble.Event), text string, opts revealOptions) error {
	loop := eventloop.New(16)
	cfg.Observer = func(ev scramble.Event) {
		observer(ev)
		if ev.Kind == scramble.EventCompleted {
			loop.Stop()
		}
	}
	*e = scramble.New(loop, cfg)

	var activateErr error
	if err := loop.Post(func() {
		(*e).Attach(opts.ID, text)
		if activateErr = (*e).Activate(opts.ID); activateErr != nil {
			loop.Stop()
		}
	}); err != nil {
		return err
	}
	if opts.LeaveAfter > 0 {
		leave := time.AfterFunc(opts.LeaveAfter, func() {
			_ = loop.Post(func() {
				(*e).Deactivate(opts.ID)
				loop.Stop()
			})
		})
		defer leave.Stop()
	}

	err := loop.Run(ctx)
	if activateErr != nil {
		return activateErr
	}
	if errors.Is(err, context.Canceled) {
		logger.Printf("%s: interrupted", opts.ID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("event loop: %w", err)
	}
	return nil
}
