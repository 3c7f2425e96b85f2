package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Roadmunk/clientsuccess-go/pkg/clientsuccess"
	"github.com/Roadmunk/clientsuccess-go/pkg/csclient"
)

// Output formats.
const (
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// Static errors used throughout the commands package.
var (
	ErrNotAuthenticated       = errors.New("not authenticated: run 'csuccess login' or set --token")
	ErrUsernameRequired       = errors.New("username is required")
	ErrClientIDRequired       = errors.New("client ID or --external-id is required")
	ErrContactIDsRequired     = errors.New("client ID and contact ID (or --email) are required")
	ErrFieldFormat            = errors.New("invalid field format, expected Label=Value")
	ErrEventsConfigIncomplete = errors.New("events project ID and API key are required (set events-project-id and events-api-key)")
)

// CreateClient builds an API client from the resolved CLI configuration:
// flags first, then environment, then the config file.
func CreateClient() (clientsuccess.API, error) {
	config := &clientsuccess.Config{
		Endpoint:        viper.GetString("api"),
		AccessToken:     viper.GetString("token"),
		Username:        viper.GetString("username"),
		Password:        viper.GetString("password"),
		EventsEndpoint:  viper.GetString("events-endpoint"),
		EventsProjectID: viper.GetString("events-project-id"),
		EventsAPIKey:    viper.GetString("events-api-key"),
		Debug:           viper.GetBool("verbose"),
	}

	if config.AccessToken == "" && (config.Username == "" || config.Password == "") {
		return nil, ErrNotAuthenticated
	}

	api, err := csclient.New(config)
	if err != nil {
		return nil, fmt.Errorf("creating client: %w", err)
	}

	return api, nil
}

// parseFieldFlags turns repeated Label=Value flags into a custom-field map.
func parseFieldFlags(fields []string) (map[string]interface{}, error) {
	if len(fields) == 0 {
		return nil, nil
	}

	values := make(map[string]interface{}, len(fields))

	for _, field := range fields {
		label, value, ok := strings.Cut(field, "=")
		if !ok || strings.TrimSpace(label) == "" {
			return nil, fmt.Errorf("%w: %q", ErrFieldFormat, field)
		}

		values[label] = value
	}

	return values, nil
}

// stringFlag returns a pointer to the flag's value, or nil when the flag was
// left unset so the attribute stays untouched on the record.
func stringFlag(value string, changed bool) *string {
	if !changed {
		return nil
	}

	return &value
}

func renderJSON(v interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")

	return encoder.Encode(v)
}

func renderYAML(v interface{}) error {
	encoder := yaml.NewEncoder(os.Stdout)
	defer func() {
		_ = encoder.Close()
	}()

	return encoder.Encode(v)
}

// configFilePath resolves where login persists credentials.
func configFilePath() (string, error) {
	if cfgFile := viper.GetString("config"); cfgFile != "" {
		return cfgFile, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}

	return filepath.Join(home, ".csuccess", "config.yml"), nil
}

// savedConfig is the on-disk shape of the CLI configuration.
type savedConfig struct {
	API             string `yaml:"api,omitempty"`
	Username        string `yaml:"username,omitempty"`
	Password        string `yaml:"password,omitempty"`
	Token           string `yaml:"token,omitempty"`
	EventsEndpoint  string `yaml:"events-endpoint,omitempty"`
	EventsProjectID string `yaml:"events-project-id,omitempty"`
	EventsAPIKey    string `yaml:"events-api-key,omitempty"`
}

func writeConfigFile(config *savedConfig) error {
	path, err := configFilePath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	// Credentials live in this file.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
