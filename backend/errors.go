package backend

import "github.com/noisecore/engine/engineerr"

func unknownBackendError(name string) error {
	return engineerr.Configuration("backend: unknown kind %q", name)
}
