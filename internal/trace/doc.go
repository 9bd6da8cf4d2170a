// Package trace streams compilation events to a file or stderr to help
// diagnose slow builds.
//
// Enable tracing via command-line flags:
//
//	stylc build --trace=- --trace-level=file
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelBuild: command boundaries only
//   - LevelFile: one span per compiled stylesheet
//   - LevelPhase: every read/process/transform/print phase
//
// Events are written as they happen; NDJSON is chosen for paths ending
// in ".ndjson", text otherwise.
package trace
