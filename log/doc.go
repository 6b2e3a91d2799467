/*
Package log implements the logging framework of b64stream on top of seelog.

See https://github.com/cihub/seelog/wiki/Log-levels for an introduction to the
different logging levels.

Errors are logged once, as early as possible: when a call into an external
package (or a byte source) returns an error, that error is wrapped in a
log.Error() call, which logs it and returns the very same error value, so
callers can still compare it against sentinel errors like io.ErrUnexpectedEOF.
Errors created by b64stream itself are created with log.Error[f](). panic()
is only called with errors created by log.Critical[f]().

io.EOF is not an error condition and must never be logged.

Logging is disabled until Init, UseLogger, or SetLogWriter is called.
*/
package log
