// Command hull evaluates a scene file, runs the collision queries it
// declares and prints the results.
//
//	hull [-config file] [-out dir] [-mesh] [-watch] [-level name] scene.lisp
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/chazu/hull/pkg/config"
	"github.com/chazu/hull/pkg/logging"
	"github.com/chazu/hull/pkg/output"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		logging.Default().Error(err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("hull", flag.ContinueOnError)
	configPath := fs.String("config", "", "YAML, TOML or INI configuration `file`")
	outDir := fs.String("out", "", "write reports.csv, meshes.json and config.yaml to `dir`")
	mesh := fs.Bool("mesh", false, "tessellate every shape")
	watchMode := fs.Bool("watch", false, "re-run whenever the scene file changes")
	level := fs.String("level", "", "log level (debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: hull [flags] scene.lisp\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("expected one scene file, got %d arguments", fs.NArg())
	}
	path := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	if *level != "" {
		cfg.Log.Level = *level
	}
	if *outDir != "" {
		cfg.Output.Dir = *outDir
	}
	if *mesh {
		cfg.Tessellate.Enabled = true
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		return err
	}
	logger := logging.Default()

	out, err := output.NewManager(cfg.Output.Dir)
	if err != nil {
		return err
	}
	defer out.Close()
	if err := out.WriteConfig(cfg); err != nil {
		return err
	}
	if out != nil {
		logger.Info("writing output", "dir", out.Dir(), "session", out.Session())
	}

	app, err := NewApp(cfg, out, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	evaluate := func() bool {
		source, err := os.ReadFile(path)
		if err != nil {
			logger.Error("reading scene", "err", err)
			return false
		}
		res := app.EvaluateContext(ctx, string(source))
		printResult(os.Stdout, res)
		return len(res.Errors) == 0
	}

	ok := evaluate()
	if *watchMode {
		return watch(ctx, path, logger, func() { evaluate() })
	}
	if !ok {
		return fmt.Errorf("%s has errors", path)
	}
	return nil
}
