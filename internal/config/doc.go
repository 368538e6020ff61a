// Package config manages forg settings. Built-in defaults are embedded from
// defaults.yaml, user overrides live at ~/.forg/config.yaml, and FORG_*
// environment variables take precedence over both. It also resolves the
// global Airflow home where the shared scheduler configuration is written.
package config
