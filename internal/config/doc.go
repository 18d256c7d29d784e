// Package config handles configuration loading for the autodetect probe.
//
// # Overview
//
// Configuration is loaded from YAML files with environment variable expansion.
// Every key is optional; missing keys keep the values from Default.
//
// # Configuration File
//
// Default locations (in order):
//
//  1. Path from AUTODETECT_CONFIG environment variable
//  2. $XDG_CONFIG_HOME/autodetect/config.yaml
//  3. ~/.config/autodetect/config.yaml
//
// # Configuration Sections
//
// Source settings:
//
//	source:
//	  name: "autovideosrc0"
//	  klass: ["Source", "Video"]     # tags a candidate must carry
//	  min_rank: 64                   # 0 none, 64 marginal, 128 secondary, 256 primary
//	  filter_caps: "video/x-raw-yuv; video/x-raw-rgb"
//	  rank_overrides: "${HOME}/.config/autodetect/ranks.toml"
//
// An empty filter_caps disables filtering.
//
// Providers:
//
//	providers:
//	  v4l2:
//	    devices: ["/dev/video0", "/dev/video1"]
//	  testpattern:
//	    rank: 0
//
// Logging:
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
package config
