// Package model holds the typed renderings of the configuration file's
// cleartext groups.
package model

import (
	"github.com/aretw0/coldstore/pkg/config"
)

// Logging configures the application logger.
type Logging struct {
	Level string `mapstructure:"level"`
}

// Postgres locates the database server. The access token lives in the
// encrypted secrets section, not here.
type Postgres struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	User string `mapstructure:"user"`
}

// Storage describes the long-term file share and the local working roots.
type Storage struct {
	UNC              string `mapstructure:"unc"`
	MountPath        string `mapstructure:"mount_path"`
	AccountName      string `mapstructure:"account_name"`
	UserID           string `mapstructure:"user_id"`
	IntermediateRoot string `mapstructure:"intermediate_root"`
	ArchiveRoot      string `mapstructure:"archive_root"`
}

// Retention configures the deletion-candidate windows, in days.
type Retention struct {
	EndOfMonthKeepDays int `mapstructure:"end_of_month_keep_days"`
	EndOfYearKeepDays  int `mapstructure:"end_of_year_keep_days"`
}

// GPG names the archival encryption key.
type GPG struct {
	KeyName string `mapstructure:"key_name"`
}

// Master aggregates every cleartext group a machine entry point needs.
type Master struct {
	Logging   Logging
	Postgres  Postgres
	Storage   Storage
	Retention Retention
	GPG       GPG
}

// FromConfig decodes the cleartext groups into a Master.
func FromConfig(cfg *config.Config) (*Master, error) {
	var m Master
	if err := cfg.Decode("logging", &m.Logging); err != nil {
		return nil, err
	}
	if err := cfg.Decode("postgres", &m.Postgres); err != nil {
		return nil, err
	}
	if err := cfg.Decode("storage", &m.Storage); err != nil {
		return nil, err
	}
	if err := cfg.Decode("retention", &m.Retention); err != nil {
		return nil, err
	}
	if err := cfg.Decode("gpg", &m.GPG); err != nil {
		return nil, err
	}
	return &m, nil
}
