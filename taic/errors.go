package taic

import (
	"errors"
	"fmt"
)

// ErrNoController is returned by routing operations invoked on a CPU that has
// no user-mode controller registered.
var ErrNoController = errors.New("taic: no user-mode controller on this cpu")

// A ConfigError reports a problem that prevents a controller node from being
// brought up. Other controller instances are unaffected.
type ConfigError struct {
	Node   string
	Reason string
	Err    error
}

func (e *ConfigError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("taic: %s: %s: %v", e.Node, e.Reason, e.Err)
	}

	return fmt.Sprintf("taic: %s: %s", e.Node, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
