package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GoSim-25-26J-441/projectdash/internal/projects/client"
)

// app holds what every subcommand shares once the root command has run its
// pre-run hook.
type app struct {
	out        io.Writer
	v          *viper.Viper
	configFile string
	verbose    bool

	log   *zap.Logger
	cache *client.Cache
}

func newRootCmd(out io.Writer) *cobra.Command {
	a := &app{out: out, v: viper.New(), log: zap.NewNop()}

	root := &cobra.Command{
		Use:   "projectctl",
		Short: "Manage your projects from the command line",
		Long: `projectctl talks to the project API as the signed-in user.

Configuration comes from flags, PROJECTDASH_* environment variables, or
~/.projectdash.yaml (keys: server, token, timeout, cache_ttl).`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { a.teardown() },
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configFile, "config", "", "config file (default: ~/.projectdash.yaml)")
	flags.String("server", defaultServer, "project API base URL")
	flags.String("token", "", "session token sent as a bearer credential")
	flags.Duration("timeout", client.DefaultTimeout, "per-request timeout")
	flags.Duration("cache-ttl", client.DefaultTTL, "how long fetched projects stay fresh")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log cache and request activity to stderr")

	_ = a.v.BindPFlag(cfgKeyServer, flags.Lookup("server"))
	_ = a.v.BindPFlag(cfgKeyToken, flags.Lookup("token"))
	_ = a.v.BindPFlag(cfgKeyTimeout, flags.Lookup("timeout"))
	_ = a.v.BindPFlag(cfgKeyCacheTTL, flags.Lookup("cache-ttl"))

	root.AddCommand(
		newGetCmd(a),
		newCreateCmd(a),
		newUpdateCmd(a),
		newDeleteCmd(a),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(a.v, a.configFile)
	if err != nil {
		return err
	}

	if a.verbose {
		core := zapcore.NewCore(
			zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zap.DebugLevel,
		)
		a.log = zap.New(core)
	}

	opts := []client.ClientOption{client.WithTimeout(cfg.Timeout)}
	if cfg.Token != "" {
		opts = append(opts, client.WithBearerToken(cfg.Token))
	}
	a.cache = client.NewCache(
		client.New(cfg.Server, opts...),
		client.WithTTL(cfg.CacheTTL),
		client.WithLogger(a.log),
	)
	a.log.Debug("projectctl configured",
		zap.String("server", cfg.Server),
		zap.Duration("timeout", cfg.Timeout),
		zap.Duration("cache_ttl", cfg.CacheTTL),
	)
	return nil
}

func (a *app) teardown() {
	if a.cache != nil {
		a.cache.Close()
	}
	_ = a.log.Sync()
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// explain turns API failures into messages a person at a terminal can act on.
func explain(err error) error {
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		return err
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("not signed in: pass --token or set %s_TOKEN", envPrefix)
	case http.StatusNotFound:
		return errors.New("project not found")
	default:
		return fmt.Errorf("request failed (%d): %s", apiErr.StatusCode, apiErr.Message)
	}
}
