// Package logger is a standardized event logging framework for the shell.
//
// Events are written as newline delimited JSON objects so a session can be
// replayed into a Report after the fact.
package logger
