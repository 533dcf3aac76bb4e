//go:build windows

package main

import "errors"

var errUnsupported = errors.New("the interactive picker needs a Unix terminal")

func checkTTY() error       { return errUnsupported }
func checkTERM() error      { return nil }
func checkTermWidth() error { return nil }

func acquireLock(string) (int, error) { return -1, errUnsupported }
func releaseLock(int)                 {}
