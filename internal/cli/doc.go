// Package cli provides the interactive MJ36 terminal client.
//
// It wires configuration, the local database, the store, session and lock
// services, background jobs and an interactive REPL. Typical flow: restore
// the previous session and lock state, start the background jobs, then
// execute user commands until exit.
//
// Besides the REPL, NewRootCommand exposes one-shot maintenance commands:
// export, import, reset and cleanup.
package cli
