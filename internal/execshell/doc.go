// Package execshell provides structured helpers for invoking external tools.
//
// OSCommandRunner starts a process, streams its standard output and standard
// error line by line to an OutputSink, and enforces a per-command timeout,
// killing the process when it expires. ShellExecutor layers lifecycle
// reporting on top of any CommandRunner and turns non-zero exits into
// CommandFailedError values. Timeouts and start failures surface as
// TimeoutError and LaunchError so callers can distinguish them with errors.As.
package execshell
