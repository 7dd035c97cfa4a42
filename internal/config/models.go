package config

import (
	"time"
)

// LLMConfig represents the provider-independent LLM configuration
type LLMConfig struct {
	Provider     string
	Timeout      time.Duration
	MaxInputSize int
}

// AnthropicConfig represents the configuration for the Anthropic Messages API
type AnthropicConfig struct {
	APIKey    string
	Model     string
	MaxTokens int
	BaseURL   string
	Version   string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
	BaseURL     string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	MaxTokens   int
	Temperature float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region    string
	ModelID   string
	MaxTokens int
}

// HistoryConfig represents the configuration for the analysis history store
type HistoryConfig struct {
	Enabled          bool
	Type             string
	Retention        time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
	PostgresDSN      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	RedisKey         string
}

// AlertsConfig represents the configuration for high-risk alerts
type AlertsConfig struct {
	Enabled    bool
	AMQPURL    string
	Exchange   string
	RoutingKey string
}

// HTTPConfig represents the configuration for the HTTP API frontend
type HTTPConfig struct {
	ListenAddress string
}

// SMTPConfig represents the configuration for the SMTP intake frontend
type SMTPConfig struct {
	ListenAddress  string
	Domain         string
	RelayEnabled   bool
	RelayAddress   string
	RelayPort      int
	BlockRed       bool
	ModifySubject  bool
	SubjectPrefix  string
	TrustedDomains []string
	RiskHeader     string
	CategoryHeader string
	ReasonHeader   string
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() (LLMConfig, error) {
	timeout, err := c.GetDuration("llm.timeout")
	if err != nil {
		return LLMConfig{}, err
	}
	return LLMConfig{
		Provider:     c.GetString("llm.provider"),
		Timeout:      timeout,
		MaxInputSize: c.GetInt("llm.max_input_size"),
	}, nil
}

// GetAnthropic returns the Anthropic configuration
func (c *Config) GetAnthropic() AnthropicConfig {
	return AnthropicConfig{
		APIKey:    c.GetString("anthropic.api_key"),
		Model:     c.GetString("anthropic.model"),
		MaxTokens: c.GetInt("anthropic.max_tokens"),
		BaseURL:   c.GetString("anthropic.base_url"),
		Version:   c.GetString("anthropic.version"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		BaseURL:     c.GetString("openai.base_url"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:    c.GetString("bedrock.region"),
		ModelID:   c.GetString("bedrock.model_id"),
		MaxTokens: c.GetInt("bedrock.max_tokens"),
	}
}

// GetHistory returns the history store configuration
func (c *Config) GetHistory() (HistoryConfig, error) {
	retention, err := c.GetDuration("history.retention")
	if err != nil {
		return HistoryConfig{}, err
	}
	cleanupFreq, err := c.GetDuration("history.cleanup_frequency")
	if err != nil {
		return HistoryConfig{}, err
	}
	return HistoryConfig{
		Enabled:          c.GetBool("history.enabled"),
		Type:             c.GetString("history.type"),
		Retention:        retention,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("history.sqlite_path"),
		MySQLDSN:         c.GetString("history.mysql_dsn"),
		PostgresDSN:      c.GetString("history.postgres_dsn"),
		RedisAddr:        c.GetString("history.redis_addr"),
		RedisPassword:    c.GetString("history.redis_password"),
		RedisDB:          c.GetInt("history.redis_db"),
		RedisKey:         c.GetString("history.redis_key"),
	}, nil
}

// GetAlerts returns the alerting configuration
func (c *Config) GetAlerts() AlertsConfig {
	return AlertsConfig{
		Enabled:    c.GetBool("alerts.enabled"),
		AMQPURL:    c.GetString("alerts.amqp_url"),
		Exchange:   c.GetString("alerts.exchange"),
		RoutingKey: c.GetString("alerts.routing_key"),
	}
}

// GetHTTP returns the HTTP frontend configuration
func (c *Config) GetHTTP() HTTPConfig {
	return HTTPConfig{
		ListenAddress: c.GetString("server.http.listen_address"),
	}
}

// GetSMTP returns the SMTP frontend configuration
func (c *Config) GetSMTP() SMTPConfig {
	return SMTPConfig{
		ListenAddress:  c.GetString("server.smtp.listen_address"),
		Domain:         c.GetString("server.smtp.domain"),
		RelayEnabled:   c.GetBool("server.smtp.relay_enabled"),
		RelayAddress:   c.GetString("server.smtp.relay_address"),
		RelayPort:      c.GetInt("server.smtp.relay_port"),
		BlockRed:       c.GetBool("server.smtp.block_red"),
		ModifySubject:  c.GetBool("server.smtp.modify_subject"),
		SubjectPrefix:  c.GetString("server.smtp.subject_prefix"),
		TrustedDomains: c.GetStringSlice("server.smtp.trusted_domains"),
		RiskHeader:     c.GetString("server.smtp.headers.risk"),
		CategoryHeader: c.GetString("server.smtp.headers.category"),
		ReasonHeader:   c.GetString("server.smtp.headers.reason"),
	}
}
