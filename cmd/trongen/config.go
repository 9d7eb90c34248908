package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "TRONGEN"

// Config holds the settings of a run. Values come from flags, TRONGEN_*
// environment variables and an optional config file, in that order.
type Config struct {
	Count    int
	Workers  int
	Node     string
	Timeout  time.Duration
	NodeWait time.Duration
	JSON     bool
	Output   string
	NoColor  bool
}

func initConfig(cmd *cobra.Command, v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if file, _ := cmd.Flags().GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	level, err := logrus.ParseLevel(v.GetString("log-level"))
	if err != nil {
		return err
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return nil
}

func loadConfig(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Count:    v.GetInt("count"),
		Workers:  v.GetInt("workers"),
		Node:     v.GetString("node"),
		Timeout:  v.GetDuration("timeout"),
		NodeWait: v.GetDuration("node-timeout"),
		JSON:     v.GetBool("json"),
		Output:   v.GetString("output"),
		NoColor:  v.GetBool("no-color"),
	}
	if cfg.Count <= 0 {
		return nil, fmt.Errorf("count must be positive, got %d", cfg.Count)
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative, got %d", cfg.Workers)
	}
	return cfg, nil
}
