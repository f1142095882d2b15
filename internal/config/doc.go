// Package config loads generator settings with spf13/viper.
//
// Sources, lowest precedence first:
//   - built-in defaults (SetDefaults)
//   - a standin.yaml file in the working directory, or an explicit file
//   - STANDIN_* environment variables (e.g. STANDIN_NAMING=hashed, STANDIN_CALLBASE=true)
//
// List values taken from the environment are comma separated.
package config
