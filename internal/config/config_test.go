package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{Token: "123:abc"},
		FTP:      FTPConfig{Addr: "pdc1.clinic.vet"},
		Feedback: FeedbackConfig{Chat: "@avcfeedback"},
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, Normalize(cfg))

	assert.Equal(t, "pdc1.clinic.vet:21", cfg.FTP.Addr)
	assert.Equal(t, "anonymous", cfg.FTP.User)
	assert.Equal(t, "anonymous", cfg.FTP.Password)
	assert.Equal(t, 30*time.Second, cfg.FTP.Timeout)
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)
}

func TestNormalizeKeepsExplicitPort(t *testing.T) {
	cfg := validConfig()
	cfg.FTP.Addr = "pdc1.clinic.vet:2121"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, "pdc1.clinic.vet:2121", cfg.FTP.Addr)
}

func TestNormalizeRequiredFields(t *testing.T) {
	cases := map[string]func(*Config){
		"missing token":    func(c *Config) { c.Telegram.Token = "" },
		"missing ftp addr": func(c *Config) { c.FTP.Addr = "" },
		"missing feedback": func(c *Config) { c.Feedback.Chat = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(cfg)
			assert.Error(t, Normalize(cfg))
		})
	}
}

func TestNormalizeRunModes(t *testing.T) {
	cfg := validConfig()
	cfg.Telegram.RunMode = "polling"
	require.NoError(t, Normalize(cfg))
	assert.Equal(t, RunModeLongpoll, cfg.Telegram.RunMode)

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	assert.Error(t, Normalize(cfg), "webhook mode requires url/listen/port")

	cfg = validConfig()
	cfg.Telegram.RunMode = "webhook"
	cfg.Webhook = WebhookConfig{URL: "https://bot.example.com", Listen: "0.0.0.0", Port: 8443}
	require.NoError(t, Normalize(cfg))

	cfg = validConfig()
	cfg.Telegram.RunMode = "carrier-pigeon"
	assert.Error(t, Normalize(cfg))
}
