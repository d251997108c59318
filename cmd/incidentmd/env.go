package main

import (
	"io"
	"os"
	"time"
)

// envConfigName names the config used when --config is not given.
const envConfigName = "INCIDENTMD_CONFIG"

// Environment holds injectable dependencies for testability.
type Environment struct {
	Now    func() time.Time
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:    time.Now,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
	}
}

// configName returns the --config value, falling back to INCIDENTMD_CONFIG.
func (e *Environment) configName(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if e.Getenv == nil {
		return ""
	}
	return e.Getenv(envConfigName)
}
