package configs

type LogsConfig struct {
	LogLevel   string `yaml:"log_level"`
	LogPath    string `yaml:"log_path"`
	StdoutOnly bool   `yaml:"stdout_only"`
}
