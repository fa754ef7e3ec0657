package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/umputun/regwatch/pkg/config"
	"github.com/umputun/regwatch/pkg/report"
	"github.com/umputun/regwatch/pkg/scheduler"
	"github.com/umputun/regwatch/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"c" long:"config" env:"CONFIG" default:"regwatch.yml" description:"configuration file"`

	Run   struct{} `command:"run" description:"run scheduler and operator api until interrupted"`
	Fetch struct{} `command:"fetch" description:"run one fetch cycle"`
	Send  struct {
		Window string `short:"w" long:"window" description:"send only if inside this delivery window (e.g. morning)"`
	} `command:"send" description:"send unsent articles"`
	Stats  struct{} `command:"stats" description:"show article statistics"`
	Export struct {
		File string `short:"f" long:"file" default:"regwatch.xlsx" description:"output spreadsheet"`
	} `command:"export" description:"export stored articles to a spreadsheet"`

	// common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	if parser.Active == nil {
		parser.WriteHelp(os.Stderr)
		os.Exit(1)
	}

	if opts.NoColor {
		color.NoColor = true
	}
	setupLog(opts.Debug)

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, parser.Active.Name, os.Stdout)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %s failed: %v", parser.Active.Name, err)
		os.Exit(1)
	}
}

// run loads configuration, builds the application and executes the command
func run(ctx context.Context, opts Opts, command string, out io.Writer) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	setupLog(opts.Debug, cfg.Secrets()...)
	log.Printf("[INFO] regwatch %s, command %s", revision, command)

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.close()

	switch command {
	case "run":
		return runScheduler(ctx, a, opts.Debug)
	case "fetch":
		summary, err := a.coordinator.RunCycle(ctx)
		report.WriteSummary(out, summary)
		return err
	case "send":
		return send(ctx, a, opts.Send.Window, out)
	case "stats":
		stats, err := a.repos.Article.Statistics(ctx)
		if err != nil {
			return fmt.Errorf("get statistics: %w", err)
		}
		report.WriteStats(out, stats)
		if a.rotator != nil {
			report.WriteCredentials(out, a.rotator.Status())
		}
		return nil
	case "export":
		articles, err := a.repos.Article.List(ctx, 0)
		if err != nil {
			return fmt.Errorf("list articles: %w", err)
		}
		if err := report.ExportXLSX(opts.Export.File, articles); err != nil {
			return fmt.Errorf("export articles: %w", err)
		}
		_, _ = fmt.Fprintf(out, "exported %d articles to %s\n", len(articles), opts.Export.File)
		return nil
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

// runScheduler starts periodic fetch and delivery plus the optional http server, blocks until ctx is done
func runScheduler(ctx context.Context, a *app, debug bool) error {
	var sender scheduler.WindowSender
	if a.dispatcher != nil {
		sender = a.dispatcher
	}
	sched := scheduler.NewScheduler(a.coordinator, sender, scheduler.Config{
		FetchInterval: a.cfg.Schedule.FetchInterval,
		SendCheck:     a.cfg.Schedule.SendCheck,
		Windows:       a.windows,
		Location:      a.cfg.Location(),
	})
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}
	defer sched.Stop()

	if !a.cfg.Server.Enabled {
		<-ctx.Done()
		return nil
	}

	deps := server.Deps{
		Store:        a.repos.Article,
		Runner:       a.coordinator,
		Keywords:     a.keywordSet(),
		KeywordStore: a.repos.Setting,
	}
	if a.dispatcher != nil {
		deps.Sender = a.dispatcher
	}
	if a.rotator != nil {
		deps.Credentials = a.rotator
	}
	return server.New(a.cfg, deps, revision, debug).Run(ctx)
}

// send delivers unsent articles, honouring the window hours if window is set
func send(ctx context.Context, a *app, window string, out io.Writer) error {
	if a.dispatcher == nil {
		return errors.New("notifications are disabled, set notify.enabled")
	}

	if window == "" {
		n, err := a.dispatcher.SendNow(ctx, "Manual")
		if errors.Is(err, scheduler.ErrNothingToSend) {
			_, _ = fmt.Fprintln(out, "no unsent articles")
			return nil
		}
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "sent %d articles\n", n)
		return nil
	}

	for _, w := range a.windows {
		if !strings.EqualFold(w.Name, window) {
			continue
		}
		n, err := a.dispatcher.SendWindow(ctx, w, time.Now())
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "%s window: sent %d articles\n", w.Name, n)
		return nil
	}
	return fmt.Errorf("unknown window %q", window)
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.CallerFile, lgr.CallerFunc, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	if len(secs) > 0 {
		logOpts = append(logOpts, lgr.Secret(secs...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
