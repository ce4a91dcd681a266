// Package main is the candela brightness daemon and its command-line client.
package main

import (
	"net"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/frudas24/candela/internal/client"
	"github.com/frudas24/candela/internal/config"
	"github.com/frudas24/candela/internal/logging"
)

// cli carries state shared by every subcommand.
type cli struct {
	v *viper.Viper
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	c := &cli{v: viper.New()}

	root := &cobra.Command{
		Use:           "candela",
		Short:         "Software and hardware display brightness control",
		Long:          "candela dims displays through gamma ramps or DDC/CI and serves a local control API.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.Bool("debug", false, "enable debug logging")
	flags.String("log-format", "", "log format: text or json (default from LOG_FORMAT)")
	flags.String("addr", "", "daemon address for client commands (default from LISTEN_ADDR)")
	flags.String("token", "", "API token for client commands (default from API_TOKEN)")
	bindFlags(c.v, flags)

	root.AddCommand(
		c.newServeCmd(),
		c.newSetCmd(),
		c.newToggleCmd(),
		c.newResetCmd(),
		c.newStateCmd(),
		c.newDisplaysCmd(),
		c.newAutostartCmd(),
	)
	return root
}

// bindFlags exposes persistent flags through viper with CANDELA_* environment fallbacks.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	v.SetEnvPrefix("candela")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	flags.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
	})
}

// logger builds the process logger from config, with flags taking precedence.
func (c *cli) logger(cfg config.Config) (*logrus.Logger, error) {
	level := cfg.LogLevel
	if level == "" {
		level = "info"
	}
	if c.v.GetBool("debug") {
		level = "debug"
	}
	format := cfg.LogFormat
	if f := c.v.GetString("log-format"); f != "" {
		format = f
	}
	return logging.New(level, format)
}

// client returns a daemon client. Address and token come from flags,
// CANDELA_ADDR/CANDELA_TOKEN, then the daemon's own configuration.
func (c *cli) client() *client.Client {
	addr := c.v.GetString("addr")
	token := c.v.GetString("token")
	if addr == "" || token == "" {
		if cfg, err := config.Load(); err == nil {
			if addr == "" {
				addr = dialAddr(cfg.ListenAddr)
			}
			if token == "" {
				token = cfg.APIToken
			}
		}
	}
	if addr == "" {
		addr = dialAddr("")
	}
	return client.New(addr, token)
}

// dialAddr turns a listen address into one a local client can reach.
func dialAddr(listen string) string {
	if listen == "" {
		return "127.0.0.1:8787"
	}
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}
