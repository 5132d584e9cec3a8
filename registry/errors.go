package registry

import (
	"errors"
	"fmt"
)

var (
	ErrAliasRequired     = errors.New("registry: alias name required")
	ErrAliasTargetAbsent = errors.New("registry: alias target not registered")
)

// UnknownTargetError reports an alias registration against a missing component.
type UnknownTargetError struct {
	Alias  string
	Target string
}

func (e *UnknownTargetError) Error() string {
	return fmt.Sprintf("%s: alias=%s target=%s", ErrAliasTargetAbsent.Error(), e.Alias, e.Target)
}

func (e *UnknownTargetError) Unwrap() error {
	return ErrAliasTargetAbsent
}
