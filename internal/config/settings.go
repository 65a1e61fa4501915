package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Setting keys shared by flags, environment variables and the config file
const (
	KeyFiles     = "file"
	KeyInclude   = "include"
	KeyExclude   = "exclude"
	KeyParameter = "parameter"
	KeyOutput    = "output"
	KeyTop       = "top"
	KeyVerbose   = "verbose"
)

// Settings holds the resolved scan and presentation options
type Settings struct {
	Files     []string
	Include   string
	Exclude   string
	Parameter string
	Output    string
	Top       int
	Verbose   bool
}

// NewViper returns a viper instance reading the given config file, or
// searching $HOME and the working directory for .proxy-log-analyzer.yaml.
// A missing config file is not an error; a broken one is.
func NewViper(cfgFile string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(KeyOutput, DefaultOutputFormat)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName("." + AppName)
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return v, nil
}

// Load resolves Settings from v and validates them
func Load(v *viper.Viper) (Settings, error) {
	s := Settings{
		Files:     v.GetStringSlice(KeyFiles),
		Include:   v.GetString(KeyInclude),
		Exclude:   v.GetString(KeyExclude),
		Parameter: v.GetString(KeyParameter),
		Output:    strings.ToLower(v.GetString(KeyOutput)),
		Top:       v.GetInt(KeyTop),
		Verbose:   v.GetBool(KeyVerbose),
	}

	switch s.Output {
	case FormatTable, FormatJSON, FormatYAML:
	default:
		return Settings{}, fmt.Errorf("invalid output format '%s': must be one of %s, %s, %s",
			s.Output, FormatTable, FormatJSON, FormatYAML)
	}

	if s.Top < 0 {
		return Settings{}, fmt.Errorf("top must not be negative, got %d", s.Top)
	}

	if (s.Include != "" || s.Exclude != "") && s.Parameter == "" {
		return Settings{}, fmt.Errorf("--include and --exclude require --parameter")
	}

	return s, nil
}
