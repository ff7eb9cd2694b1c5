package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"time"
)

var DSN string
var MainConfig Config

// Defaults sized so schema work and feature writes for the full set of
// parallel chart jobs never contend for connections.
const (
	DefaultParallelENC    = 10
	DefaultMaxConns       = 20
	DefaultMinConns       = 5
	DefaultAcquireTimeout = 30   // seconds
	DefaultIdleTimeout    = 600  // seconds
	DefaultMaxLifetime    = 1800 // seconds
)

type Config struct {
	XMLName        xml.Name `xml:"config"`
	Dbname         string   `xml:"dbname"`
	Host           string   `xml:"host"`
	Port           string   `xml:"port"`
	Username       string   `xml:"user"`
	Password       string   `xml:"password"`
	SSLMode        string   `xml:"sslmode"`
	ParallelENC    int      `xml:"parallelenc"`
	MaxConns       int      `xml:"maxconns"`
	MinConns       int      `xml:"minconns"`
	AcquireTimeout int      `xml:"acquiretimeout"`
	IdleTimeout    int      `xml:"idletimeout"`
	MaxLifetime    int      `xml:"maxlifetime"`
}

func init() {
	xmlFile, err := os.Open("config.xml")
	if err == nil {
		defer xmlFile.Close()
		xmlDecoder := xml.NewDecoder(xmlFile)
		if err = xmlDecoder.Decode(&MainConfig); err != nil {
			fmt.Println("Error decoding config.xml:", err)
		}
	}

	applyDefaults(&MainConfig)

	// DATABASE_URL wins over config.xml so credentials can stay out of files.
	if url := os.Getenv("DATABASE_URL"); url != "" {
		DSN = url
	} else {
		DSN = fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
			MainConfig.Host, MainConfig.Username, MainConfig.Password, MainConfig.Dbname, MainConfig.Port, MainConfig.SSLMode)
	}
}

func applyDefaults(c *Config) {
	if c.Host == "" {
		c.Host = "localhost"
	}
	if c.Port == "" {
		c.Port = "5432"
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.ParallelENC <= 0 {
		c.ParallelENC = DefaultParallelENC
	}
	if c.MaxConns <= 0 {
		c.MaxConns = DefaultMaxConns
	}
	if c.MinConns <= 0 {
		c.MinConns = DefaultMinConns
	}
	if c.AcquireTimeout <= 0 {
		c.AcquireTimeout = DefaultAcquireTimeout
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = DefaultIdleTimeout
	}
	if c.MaxLifetime <= 0 {
		c.MaxLifetime = DefaultMaxLifetime
	}
}

func (c *Config) AcquireTimeoutDuration() time.Duration {
	return time.Duration(c.AcquireTimeout) * time.Second
}

func (c *Config) IdleTimeoutDuration() time.Duration {
	return time.Duration(c.IdleTimeout) * time.Second
}

func (c *Config) MaxLifetimeDuration() time.Duration {
	return time.Duration(c.MaxLifetime) * time.Second
}
