package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin"
	"github.com/thorstenhirsch/ezgit/internal/app"
)

var version = "dev"

func main() {
	kingpin.Version("ezgit " + version)

	dir := kingpin.Flag("directory", "Repository to open, defaults to the working directory.").Short('d').String()
	limit := kingpin.Flag("limit", "Number of commits shown in the commit log.").Short('n').Int()
	remote := kingpin.Flag("remote", "Remote to push committed work to.").String()
	logLevel := kingpin.Flag("log-level", "Logging level; debug,info,warn,error").Short('l').String()
	trace := kingpin.Flag("trace", "Trace application events to ezgit.log").Short('t').Bool()
	printMode := kingpin.Flag("print", "Print the commit log and branches without the interface.").Short('p').Bool()

	kingpin.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &app.Config{
		Directory: *dir,
		Limit:     *limit,
		Remote:    *remote,
		LogLevel:  *logLevel,
		Trace:     *trace,
		PrintMode: *printMode,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "application quitted with an unhandled error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, config *app.Config) error {
	app, err := app.New(config)
	if err != nil {
		return err
	}

	return app.Run(ctx)
}
