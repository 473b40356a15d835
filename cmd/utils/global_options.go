package utils

import (
	"github.com/sirupsen/logrus"
)

func LogLevelOption(configKey *logrus.Level) *ConfigOption {
	return &ConfigOption{
		Name:        "log-level",
		Usage:       `The log level used in this project. Options: "TRACE", "DEBUG", "INFO", "WARN", "ERROR", "FATAL", or "PANIC".`,
		ConfigKey:   configKey,
		FlagDefault: "INFO",
		Required:    true,
	}
}

func DatabasePathOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "database-path",
		Usage:       "Path of the SQLite database file holding the mutation audit log.",
		ConfigKey:   configKey,
		FlagDefault: "crowdfund.db",
		Required:    true,
	}
}

func RPCURLOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "rpc-url",
		Usage:       "The URL of the Ethereum JSON-RPC node. Leave empty to run in demo mode.",
		ConfigKey:   configKey,
		FlagDefault: "",
		Required:    false,
	}
}

func ContractAddressOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "contract-address",
		Usage:       "The address of the deployed crowdfunding contract. The zero address selects demo mode.",
		ConfigKey:   configKey,
		FlagDefault: "0x0000000000000000000000000000000000000000",
		Required:    false,
	}
}

func SentryDSNOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "sentry-dsn",
		Usage:       "The DSN (client key) of the Sentry project. If left empty, exceptions are only logged locally.",
		ConfigKey:   configKey,
		FlagDefault: "",
		Required:    false,
	}
}

func EnvironmentOption(configKey *string) *ConfigOption {
	return &ConfigOption{
		Name:        "environment",
		Usage:       `The environment this instance runs in, e.g. "development" or "production". Reported to the error tracker.`,
		ConfigKey:   configKey,
		FlagDefault: "development",
		Required:    false,
	}
}
