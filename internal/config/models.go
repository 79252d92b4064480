package config

// BackendConfig represents the configuration for the analysis backend
type BackendConfig struct {
	BaseURL string
}

// AgentConfig represents the configuration for the local agent API
type AgentConfig struct {
	ListenAddress string
}

// StoreConfig represents the configuration for the settings store
type StoreConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// NotifyConfig represents the configuration for outcome notification
type NotifyConfig struct {
	Type         string
	AMQPURL      string
	AMQPExchange string
}

// ReportingConfig represents the configuration for abuse forwarding
type ReportingConfig struct {
	AbuseAddress string
	SMTPAddress  string
	SMTPUsername string
	SMTPPassword string
	FromAddress  string
}

// GetBackend returns the backend configuration
func (c *Config) GetBackend() BackendConfig {
	return BackendConfig{
		BaseURL: c.GetString("backend.base_url"),
	}
}

// GetAgent returns the agent configuration
func (c *Config) GetAgent() AgentConfig {
	return AgentConfig{
		ListenAddress: c.GetString("agent.listen_address"),
	}
}

// GetStore returns the store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		SQLitePath:  c.GetString("store.sqlite_path"),
		MySQLDSN:    c.GetString("store.mysql_dsn"),
		PostgresDSN: c.GetString("store.postgres_dsn"),
	}
}

// GetNotify returns the notifier configuration
func (c *Config) GetNotify() NotifyConfig {
	return NotifyConfig{
		Type:         c.GetString("notify.type"),
		AMQPURL:      c.GetString("notify.amqp_url"),
		AMQPExchange: c.GetString("notify.amqp_exchange"),
	}
}

// GetReporting returns the abuse reporting configuration
func (c *Config) GetReporting() ReportingConfig {
	return ReportingConfig{
		AbuseAddress: c.GetString("reporting.abuse_address"),
		SMTPAddress:  c.GetString("reporting.smtp_address"),
		SMTPUsername: c.GetString("reporting.smtp_username"),
		SMTPPassword: c.GetString("reporting.smtp_password"),
		FromAddress:  c.GetString("reporting.from_address"),
	}
}
