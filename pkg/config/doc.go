// Package config loads typed configuration structs from environment
// variables, with per-type caching so every component that asks for the
// same config type gets the same parsed value.
//
// Struct fields are bound with `env` tags (see caarlos0/env). A local
// .env file, when present, is read once per process before the first
// parse, which keeps development setups out of the shell profile.
package config
