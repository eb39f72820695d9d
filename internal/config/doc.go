// Package config defines runtime configuration for PropertyScraper: request
// settings, database location, and the field-path definitions that drive
// listing extraction. Values come from built-in defaults, an optional
// .propertyscraper YAML file, .env overrides, and CLI flags, in that order.
package config
