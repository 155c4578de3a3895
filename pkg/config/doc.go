// Package config loads the tracker configuration from YAML.
//
// Durations are Go duration strings:
//
//	min_rssi: -85
//	unavailable_timeout: 3m
//	update_interval: 1m
//	watch_check_interval: 10s
//	ignore_addresses: []
//	registry:
//	  driver: json        # json | sqlite
//	  path: /var/lib/ibeacon/registry.json
//	event_log: /var/log/ibeacon/events.blog
//	log_level: info
//
// Missing keys keep their defaults. Command-line flags override the file.
package config
