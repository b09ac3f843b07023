// Package config loads, normalizes, and validates intellicoach configuration.
//
// It supplies repository defaults (including the filler and non-instructional
// vocabularies), expands user paths, reads TOML files, loads a .env file when
// present, and honours environment fallbacks for provider credentials such as
// GROQ_API_KEY and ASSEMBLYAI_API_KEY.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical provider names, and clear validation errors.
package config
