package providers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"chronicle/internal/structures"
)

func validConfig() *structures.Config {
	return &structures.Config{
		Chronicle: structures.ChronicleConfig{MinEvents: 3, MaxEvents: 5},
		WebServer: structures.Server{Host: "localhost", Port: 8080},
		Persistence: structures.Persistence{
			FilePath:     "/tmp/chronicle.dat",
			SaveInterval: time.Minute,
		},
		Logger: structures.LoggerConfig{Level: "info", Mode: 0644, Dir: "/tmp"},
	}
}

func TestCnfValidator_ValidConfig(t *testing.T) {
	assert.NoError(t, NewCnfValidator(validConfig()).Validate())
}

func TestCnfValidator_MissingHost(t *testing.T) {
	conf := validConfig()
	conf.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_ZeroPort(t *testing.T) {
	conf := validConfig()
	conf.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_InvalidLogLevel(t *testing.T) {
	conf := validConfig()
	conf.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(conf).Validate())
}

func TestCnfValidator_MinEventsAboveMax(t *testing.T) {
	conf := validConfig()
	conf.Chronicle.MinEvents = 6
	conf.Chronicle.MaxEvents = 5
	err := NewCnfValidator(conf).Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "minEvents")
}
