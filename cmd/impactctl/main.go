package main

import (
	"context"
	"io"
	"os"

	"github.com/alecthomas/kong"

	"github.com/GoSim-25-26J-441/go-impact-backend/config"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/bootstrap"
	"github.com/GoSim-25-26J-441/go-impact-backend/internal/logging"
)

type CLI struct {
	Format  string `short:"f" enum:"text,json,yaml" default:"text" help:"Output format (text, json or yaml)."`
	Data    string `short:"d" help:"CSV data file. Overrides STORE_CSV_PATH and forces the csv backend." type:"path"`
	Verbose bool   `short:"v" help:"Log at the configured LOG_LEVEL instead of warnings only."`

	Create   CreateCmd   `cmd:"" help:"Create a project."`
	List     ListCmd     `cmd:"" help:"List all projects."`
	Get      GetCmd      `cmd:"" help:"Show one project."`
	Update   UpdateCmd   `cmd:"" help:"Update fields of a project."`
	Delete   DeleteCmd   `cmd:"" help:"Delete a project."`
	Simulate SimulateCmd `cmd:"" help:"Simulate the environmental impact of a project."`
}

// runContext is handed to every command's Run method.
type runContext struct {
	ctx    context.Context
	app    *bootstrap.App
	out    io.Writer
	format string
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("impactctl"),
		kong.Description("Manage projects and simulate their environmental impact."),
		kong.ShortUsageOnError(),
		kong.Writers(out, os.Stderr),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		parser.Errorf("%s", err)
		return err
	}
	if cli.Data != "" {
		cfg.Store.Backend = config.StoreBackendCSV
		cfg.Store.CSVPath = cli.Data
	}
	level := "warn"
	if cli.Verbose {
		level = cfg.App.LogLevel
	}
	logging.Init(level, cfg.App.LogFormat)

	ctx := logging.WithRequestID(context.Background(), "impactctl")
	app, err := bootstrap.NewApp(ctx, cfg)
	if err != nil {
		parser.Errorf("%s", err)
		return err
	}
	defer app.Close()

	err = kctx.Run(&runContext{ctx: ctx, app: app, out: out, format: cli.Format})
	if err != nil {
		parser.Errorf("%s", err)
	}
	return err
}
