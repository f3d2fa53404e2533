//go:build tools
// +build tools

// Package tools declares tool dependencies for this module.
//
// These imports are not used at runtime. They keep go.uber.org/mock/mockgen,
// invoked through go generate, tracked in go.mod.
package groupsync

import (
	_ "go.uber.org/mock/mockgen"
)
