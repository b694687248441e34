package command

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/urfave/cli/v2"

	clicfg "github.com/yndnr/simple-redis/internal/cli/config"
	"github.com/yndnr/simple-redis/internal/cli/connection"
	"github.com/yndnr/simple-redis/internal/cli/output"
	"github.com/yndnr/simple-redis/internal/cli/repl"
	"github.com/yndnr/simple-redis/internal/infra/buildinfo"
)

// App creates the CLI application.
func App() *cli.App {
	// -h selects the host, as in redis-cli.
	cli.HelpFlag = &cli.BoolFlag{Name: "help", Usage: "show help"}

	return &cli.App{
		Name:            "simple-redis-cli",
		Usage:           "command-line client for simple-redis",
		UsageText:       "simple-redis-cli [-h host] [-p port] [-o raw|json|yaml] [--config FILE] [command [arg ...]]",
		Version:         buildinfo.String(),
		Flags:           globalFlags(),
		HideHelpCommand: true,
		Action:          run,
	}
}

// Flags without a Value fall back to the CLI config file.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "host",
			Aliases: []string{"h"},
			Usage:   "server hostname (default 127.0.0.1)",
			EnvVars: []string{"SIMPLEREDIS_HOST"},
		},
		&cli.IntFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "server port (default 6379)",
			EnvVars: []string{"SIMPLEREDIS_PORT"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "output format: raw, json, yaml (default raw)",
		},
		&cli.StringFlag{
			Name:    "config",
			Usage:   "CLI settings file",
			EnvVars: []string{"SIMPLEREDIS_CLI_CONFIG"},
			Value:   clicfg.DefaultConfigPath(),
		},
	}
}

// GlobalFlags holds the effective connection and output settings.
type GlobalFlags struct {
	Addr        string
	Format      output.Format
	HistoryFile string
}

// ParseGlobalFlags merges the CLI config file with the flags given on the
// command line.
func ParseGlobalFlags(c *cli.Context) (*GlobalFlags, error) {
	cfg, err := clicfg.Load(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("load cli config: %w", err)
	}
	if c.IsSet("host") {
		cfg.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Port = c.Int("port")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, err
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", cfg.Port)
	}

	history := cfg.HistoryFile
	switch history {
	case "":
		history = repl.DefaultHistoryFile()
	case "-":
		history = ""
	}

	return &GlobalFlags{
		Addr:        net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Format:      format,
		HistoryFile: history,
	}, nil
}

func run(c *cli.Context) error {
	flags, err := ParseGlobalFlags(c)
	if err != nil {
		return err
	}

	client := connection.NewClient(flags.Addr)
	defer client.Close()
	exec := NewExecutor(client, output.NewFormatter(flags.Format))

	if c.NArg() > 0 {
		return exec.Execute(c.Context, c.Args().Slice(), c.App.Writer)
	}
	return repl.New(exec, flags.Addr+"> ", flags.HistoryFile).Run(c.Context)
}

// PrintError prints an error message to stderr.
func PrintError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "error: "+format+"\n", args...)
}
