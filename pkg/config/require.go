package config

import "fmt"

func RequireNonEmpty(value, name string) error {
	if value == "" {
		return fmt.Errorf("missing required setting %s", name)
	}
	return nil
}

// Validate checks the settings the bootstrap cannot run without.
func (c Config) Validate() error {
	if err := RequireNonEmpty(c.DBPath, "POS_DB_PATH"); err != nil {
		return err
	}
	if err := RequireNonEmpty(c.PasswordPepper, "PASSWORD_PEPPER"); err != nil {
		return err
	}
	if len(c.KafkaBrokers) > 0 {
		return RequireNonEmpty(c.EventsTopic, "EVENTS_TOPIC")
	}
	return nil
}
