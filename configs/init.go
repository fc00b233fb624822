package configs

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type Tconfigs struct {
	Postgres PostgresConfig `yaml:"postgres"`
	Email    EmailConfig    `yaml:"email"`
	Service  ServiceConfig  `yaml:"service"`
	Logs     LogsConfig     `yaml:"logs"`
	Secrets  Secrets        `yaml:"secrets"`
	Authn    AuthnConfig    `yaml:"authn"`
}

var Configs Tconfigs

func Init(ConfigPath *string) {
	var configPath string
	if ConfigPath == nil || *ConfigPath == "" {
		// Default config locations:
		// 1. ./configs.yaml (relative to working directory)
		// 2. configs.yaml next to the executable
		if _, err := os.Stat("./configs.yaml"); err == nil {
			configPath = "./configs.yaml"
		} else if execPath, err := os.Executable(); err == nil {
			configPath = filepath.Join(filepath.Dir(execPath), "configs.yaml")
		} else {
			configPath = "./configs.yaml"
		}
	} else {
		configPath = *ConfigPath
	}

	load(configPath)
	InitLogger()
	validate()
}

func load(ConfigsPath string) {
	yamlFile, err := os.ReadFile(ConfigsPath)
	if err != nil {
		if Logger == nil {
			os.Stderr.WriteString("Error reading config file: " + err.Error() + "\n")
		} else {
			Logger.Error("Error reading config file", zap.Error(err))
		}
		os.Exit(1)
	}

	err = yaml.Unmarshal(yamlFile, &Configs)
	if err != nil {
		if Logger == nil {
			os.Stderr.WriteString("Error parsing config file: " + err.Error() + "\n")
		} else {
			Logger.Error("Error parsing config file", zap.Error(err))
		}
		os.Exit(1)
	}

	applyDefaults()
}

func applyDefaults() {
	if Configs.Authn.TokenExpireHours == 0 {
		Configs.Authn.TokenExpireHours = 168 // 7 days
	}
	if Configs.Authn.ResetTicketExpireMin == 0 {
		Configs.Authn.ResetTicketExpireMin = 30
	}
	if Configs.Postgres.MaxOpenConns == 0 {
		Configs.Postgres.MaxOpenConns = 10
	}
	if Configs.Service.ListenAddress == "" {
		Configs.Service.ListenAddress = ":5000"
	}
	if Configs.Email.SendTimeoutSec == 0 {
		Configs.Email.SendTimeoutSec = 10
	}
}

// validate enforces startup preconditions that must not be deferred to
// request time. An unset JWT secret makes every issued token forgeable,
// so the process refuses to start without one.
func validate() {
	if Configs.Secrets.JwtSecret == "" {
		Logger.Fatal("secrets.jwt_secret is not set")
	}
}
