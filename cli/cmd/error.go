package cmd

import "github.com/ardnew/envtab/envcfg"

var (
	ErrDiscover    = envcfg.NewError("discover configuration")
	ErrCheck       = envcfg.NewError("configuration is invalid")
	ErrNoCommand   = envcfg.NewError("no command given")
	ErrStart       = envcfg.NewError("start command")
	ErrCommand     = envcfg.NewError("command failed")
	ErrWriteOutput = envcfg.NewError("write output")
	ErrConstants   = envcfg.NewError("write constants file")
	ErrWriteConfig = envcfg.NewError("write configuration file")
	ErrFileExists  = envcfg.NewError("file exists (use --force to overwrite)")

	ErrInvalidOption  = envcfg.NewError("invalid option")
	ErrInvalidContext = envcfg.NewError("invalid process context")
	ErrInvalidFormat  = envcfg.NewError("invalid output format")
)
