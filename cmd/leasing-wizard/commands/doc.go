// Package commands defines the leasing-wizard CLI.
//
// Commands
//
//   - run        Fill in a lease application interactively
//   - validate   Check a saved application draft (JSON or YAML)
//   - countries  List the countries offered on the first step
//
// The root command loads the configuration and builds the logger before any
// subcommand runs. The interactive wizard owns the terminal, so it only logs
// when logging.output names a file.
package commands
