//go:build !robotgo

package output

import "errors"

// ErrRobotgoUnavailable is returned when the binary was built without the
// robotgo tag.
var ErrRobotgoUnavailable = errors.New("output.backend=robotgo requires a build with -tags robotgo")

func newRobotgoInjector() (Injector, error) {
	return nil, ErrRobotgoUnavailable
}
