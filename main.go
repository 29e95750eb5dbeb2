package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"statsd/config"
	"statsd/logger"
	"statsd/promstats"
	"statsd/statsd"
)

func main() {
	flags := config.Flags(os.Args[0])
	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintln(os.Stderr, "Error parsing flags:", err)
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error setting up logger:", err)
		os.Exit(1)
	}
	defer logger.Flush(log.Logger)

	ctx := logger.WithContext(context.Background(), log.Logger.With(zap.String("sink", string(cfg.Sink))))
	if err := run(ctx, cfg, log, os.Stdin); err != nil {
		log.Logger.Error("statsd failed", zap.Error(err))
		logger.Flush(log.Logger)
		os.Exit(1)
	}
}

// run opens the configured sink and applies the commands read from in.
// Buffered records are flushed when in is exhausted or a command fails.
func run(ctx context.Context, cfg *config.Config, log *logger.Logger, in io.Reader) error {
	l := logger.FromContext(ctx, log)
	reg := prometheus.NewRegistry()

	client, err := statsd.Open(cfg.Sink, cfg.Path,
		statsd.WithBufferSize(cfg.BufferSize),
		statsd.WithLogger(l),
		statsd.WithObserver(promstats.NewObserver(reg)),
	)
	if err != nil {
		return err
	}
	l.Info("storage initialised", zap.String("path", cfg.Path), zap.Int("buffer_size", cfg.BufferSize))

	err = statsd.Use(client, func(c *statsd.Client) error {
		return apply(c, in, l)
	})

	if cfg.Stats {
		logStats(l, reg)
	}
	return err
}

// errBadCommand marks input lines that are reported and skipped.
var errBadCommand = errors.New("bad command")

// apply reads one command per line:
//
//	incr NAME
//	decr NAME
//	log NAME VALUE
//	flush
//
// Blank lines and lines starting with '#' are ignored. Malformed commands
// are reported and skipped; storage failures stop processing.
func apply(c *statsd.Client, in io.Reader, l *zap.Logger) error {
	sc := bufio.NewScanner(in)
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		if err := execute(c, fields); err != nil {
			if errors.Is(err, errBadCommand) {
				l.Warn("skipping command", zap.Int("line", line), zap.Error(err))
				continue
			}
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
	return sc.Err()
}

func execute(c *statsd.Client, fields []string) error {
	switch strings.ToLower(fields[0]) {
	case "incr":
		if len(fields) != 2 {
			return fmt.Errorf("%w: usage: incr NAME", errBadCommand)
		}
		return c.Incr(fields[1])
	case "decr":
		if len(fields) != 2 {
			return fmt.Errorf("%w: usage: decr NAME", errBadCommand)
		}
		return c.Decr(fields[1])
	case "log":
		if len(fields) != 3 {
			return fmt.Errorf("%w: usage: log NAME VALUE", errBadCommand)
		}
		v, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid value %q: %w", errBadCommand, fields[2], err)
		}
		return c.Log(fields[1], v)
	case "flush":
		return c.Flush()
	default:
		return fmt.Errorf("%w: unknown command %q", errBadCommand, fields[0])
	}
}

func logStats(l *zap.Logger, g prometheus.Gatherer) {
	families, err := g.Gather()
	if err != nil {
		l.Warn("cannot gather stats", zap.Error(err))
		return
	}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			fields := []zap.Field{zap.String("name", mf.GetName())}
			for _, lp := range m.GetLabel() {
				fields = append(fields, zap.String(lp.GetName(), lp.GetValue()))
			}
			switch {
			case m.GetCounter() != nil:
				fields = append(fields, zap.Float64("value", m.GetCounter().GetValue()))
			case m.GetGauge() != nil:
				fields = append(fields, zap.Float64("value", m.GetGauge().GetValue()))
			}
			l.Info("stat", fields...)
		}
	}
}
