package configs

type ServiceConfig struct {
	ServiceName   string   `yaml:"service_name"`
	Environment   string   `yaml:"environment"`
	ListenAddress string   `yaml:"listen_address"`
	FrontendURL   string   `yaml:"frontend_url"`
	AllowOrigins  []string `yaml:"allow_origins"`
}
