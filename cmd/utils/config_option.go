// Package utils carries the config-option plumbing shared by all commands:
// every option is declared once and is settable by flag or by CROWDFUND_*
// environment variable.
package utils

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "CROWDFUND"

type ConfigOption struct {
	Name        string
	Usage       string
	ConfigKey   interface{}
	FlagDefault interface{}
	Required    bool
}

type ConfigOptions []*ConfigOption

// Init registers one flag per option and binds it to viper, alongside the
// matching environment variable.
func (cos ConfigOptions) Init(cmd *cobra.Command) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	for _, co := range cos {
		if err := co.registerFlag(cmd.PersistentFlags()); err != nil {
			return err
		}
	}
	return nil
}

func (co *ConfigOption) registerFlag(fs *pflag.FlagSet) error {
	switch defaultValue := co.FlagDefault.(type) {
	case string:
		fs.String(co.Name, defaultValue, co.Usage)
	case int:
		fs.Int(co.Name, defaultValue, co.Usage)
	case bool:
		fs.Bool(co.Name, defaultValue, co.Usage)
	default:
		return fmt.Errorf("unsupported default type %T for config option %q", co.FlagDefault, co.Name)
	}

	if err := viper.BindPFlag(co.Name, fs.Lookup(co.Name)); err != nil {
		return fmt.Errorf("binding flag %q: %w", co.Name, err)
	}
	return nil
}

// RequireE fails when a required option resolved to its type's zero value.
func (cos ConfigOptions) RequireE() error {
	for _, co := range cos {
		if !co.Required {
			continue
		}
		if isZero(viper.Get(co.Name)) {
			return fmt.Errorf("config option %q is required", co.Name)
		}
	}
	return nil
}

// SetValues copies the resolved option values into their config keys.
func (cos ConfigOptions) SetValues() error {
	for _, co := range cos {
		if err := co.setValue(); err != nil {
			return fmt.Errorf("setting value of config option %q: %w", co.Name, err)
		}
	}
	return nil
}

func (co *ConfigOption) setValue() error {
	switch key := co.ConfigKey.(type) {
	case *string:
		*key = viper.GetString(co.Name)
	case *int:
		*key = viper.GetInt(co.Name)
	case *bool:
		*key = viper.GetBool(co.Name)
	case *logrus.Level:
		level, err := logrus.ParseLevel(viper.GetString(co.Name))
		if err != nil {
			return fmt.Errorf("parsing log level %q: %w", viper.GetString(co.Name), err)
		}
		*key = level
	default:
		return fmt.Errorf("unsupported config key type %T", co.ConfigKey)
	}
	return nil
}

func isZero(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case int:
		return v == 0
	default:
		return false
	}
}
