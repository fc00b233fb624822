package configs

type AuthnConfig struct {
	TokenExpireHours     int `yaml:"token_expire_hours"`
	ResetTicketExpireMin int `yaml:"reset_ticket_expire_min"`
}
