package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ownership/internal/lesson"
	"ownership/internal/observ"
	"ownership/internal/trace"
)

type runOptions struct {
	lessons     []int
	timings     bool
	traceLevel  string
	traceFormat string
	traceOutput string
	eventsOut   string
	eventsFmt   string
}

func addRunFlags(cmd *cobra.Command, opts *runOptions) {
	cmd.Flags().IntSliceVar(&opts.lessons, "lesson", nil, "run only this lesson (1-4); repeatable, runs in the order given")
	cmd.Flags().BoolVar(&opts.timings, "timings", false, "print per-lesson timings to stderr")
	cmd.Flags().StringVar(&opts.traceLevel, "trace", "off", "trace level (off|error|phase|detail|debug)")
	cmd.Flags().StringVar(&opts.traceFormat, "trace-format", "text", "trace output format (text|ndjson)")
	cmd.Flags().StringVar(&opts.traceOutput, "trace-output", "-", "trace output file (- for stderr)")
	cmd.Flags().StringVar(&opts.eventsOut, "events-out", "", "write every recorded event to this file")
	cmd.Flags().StringVar(&opts.eventsFmt, "events-format", "msgpack", "events file format (msgpack|text|ndjson)")
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Print the walkthrough (the default command)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLessons(cmd, a, opts)
		},
	}
	addRunFlags(cmd, opts)
	return cmd
}

// merge fills options the user left unset from the config file.
func (opts runOptions) merge(cmd *cobra.Command, a *app) runOptions {
	changed := cmd.Flags().Changed
	if !changed("lesson") && len(a.cfg.Run.Lessons) > 0 {
		opts.lessons = a.cfg.Run.Lessons
	}
	if !changed("timings") && a.cfg.Output.Timings {
		opts.timings = true
	}
	if !changed("trace") && a.cfg.Trace.Level != "" {
		opts.traceLevel = a.cfg.Trace.Level
	}
	if !changed("trace-format") && a.cfg.Trace.Format != "" {
		opts.traceFormat = a.cfg.Trace.Format
	}
	if !changed("trace-output") && a.cfg.Trace.Output != "" {
		opts.traceOutput = a.cfg.Trace.Output
	}
	if !changed("events-out") && a.cfg.Trace.Events != "" {
		opts.eventsOut = a.cfg.Trace.Events
	}
	return opts
}

func runLessons(cmd *cobra.Command, a *app, flags *runOptions) (err error) {
	opts := flags.merge(cmd, a)
	if err := checkEventsFormat(opts.eventsFmt); err != nil {
		return err
	}

	session, err := setupTracing(cmd, opts)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := session.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("trace: close: %w", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = trace.WithTracer(ctx, session.Tracer)

	var timer *observ.Timer
	if opts.timings {
		timer = observ.NewTimer()
	}

	a.logger.Debug("running lessons", zap.Ints("lessons", opts.lessons), zap.String("trace", opts.traceLevel))
	if err := lesson.Run(ctx, cmd.OutOrStdout(), lesson.Options{
		Lessons: opts.lessons,
		Timer:   timer,
		Logger:  a.logger,
	}); err != nil {
		return err
	}

	if timer != nil {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	if opts.eventsOut != "" && session.Ring != nil {
		if err := writeEvents(opts.eventsOut, opts.eventsFmt, session.Ring); err != nil {
			return err
		}
		a.logger.Debug("events written", zap.String("path", opts.eventsOut))
	}
	return nil
}

// setupTracing turns the trace flags into a session. --events-out needs a
// ring; when tracing is otherwise off the ring records at debug level so the
// dump holds every ownership event.
func setupTracing(cmd *cobra.Command, opts runOptions) (*trace.Session, error) {
	level, err := trace.ParseLevel(opts.traceLevel)
	if err != nil {
		return nil, err
	}
	format, err := trace.ParseFormat(opts.traceFormat)
	if err != nil {
		return nil, err
	}

	cfg := trace.Config{
		Level:      level,
		Mode:       trace.ModeStream,
		Format:     format,
		OutputPath: opts.traceOutput,
	}
	if opts.traceOutput == "" || opts.traceOutput == "-" {
		cfg.Output = cmd.ErrOrStderr()
	}
	if opts.eventsOut != "" {
		if level == trace.LevelOff {
			cfg.Level = trace.LevelDebug
			cfg.Mode = trace.ModeRing
		} else {
			cfg.Mode = trace.ModeBoth
		}
	}

	session, err := trace.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	return session, nil
}

func checkEventsFormat(format string) error {
	if strings.EqualFold(format, "msgpack") {
		return nil
	}
	if _, err := trace.ParseFormat(format); err != nil {
		return fmt.Errorf("invalid --events-format %q (expected msgpack|text|ndjson)", format)
	}
	return nil
}

// writeEvents dumps the ring to path. msgpack keeps the records machine
// readable; text and ndjson reuse the trace line formats.
func writeEvents(path, format string, ring *trace.RingTracer) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()
	if strings.EqualFold(format, "msgpack") {
		err = trace.WriteMsgpack(f, ring.Snapshot())
	} else {
		var tf trace.Format
		if tf, err = trace.ParseFormat(format); err == nil {
			err = ring.Dump(f, tf)
		}
	}
	if err != nil {
		return fmt.Errorf("events: %w", err)
	}
	return nil
}
