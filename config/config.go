// Package config loads the cmd/ymrecv harness's .ini configuration file,
// the way samsamfire-gocanopen/pkg/od/parser_v1.go loads an EDS file with
// gopkg.in/ini.v1.
package config

import (
	"fmt"
	"time"

	"gopkg.in/ini.v1"
)

// File is the harness's on-disk configuration.
type File struct {
	Serial struct {
		Port     string
		BaudRate int
	}
	Session struct {
		PacketTimeout time.Duration
		CharTimeout   time.Duration
		MaxRetries    int
		StrictEOT     bool
	}
	Sink struct {
		Dir         string
		MaxFileSize int64
	}
	Redis struct {
		Addr    string
		Channel string
	}
	Audit struct {
		Path string
	}
}

// Load parses path, a standard .ini file with [serial], [session], [sink],
// [redis], and [audit] sections. Omitted fields take these values: baud_rate
// 115200, dir ".", channel "ymodem:progress", and Go's zero value for the
// rest; ymodem.Config.defaults() fills in protocol-level defaults from there.
func Load(path string) (*File, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}

	var f File
	serial := cfg.Section("serial")
	f.Serial.Port = serial.Key("port").MustString("")
	f.Serial.BaudRate = serial.Key("baud_rate").MustInt(115200)

	session := cfg.Section("session")
	f.Session.PacketTimeout = time.Duration(session.Key("packet_timeout_ms").MustInt(0)) * time.Millisecond
	f.Session.CharTimeout = time.Duration(session.Key("char_timeout_ms").MustInt(0)) * time.Millisecond
	f.Session.MaxRetries = session.Key("max_retries").MustInt(0)
	f.Session.StrictEOT = session.Key("strict_eot").MustBool(false)

	sink := cfg.Section("sink")
	f.Sink.Dir = sink.Key("dir").MustString(".")
	f.Sink.MaxFileSize = sink.Key("max_file_size").MustInt64(0)

	redis := cfg.Section("redis")
	f.Redis.Addr = redis.Key("addr").MustString("")
	f.Redis.Channel = redis.Key("channel").MustString("ymodem:progress")

	audit := cfg.Section("audit")
	f.Audit.Path = audit.Key("path").MustString("")

	return &f, nil
}
