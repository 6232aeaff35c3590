package routetable

import (
	"fmt"

	"github.com/mockbridge/mockd"
)

func errAlreadyExists(r mockd.Route) error {
	return fmt.Errorf("endpoint %s %s already exists", r.Method, r.Path)
}

func errNoSuchRoute(method, path string) error {
	return fmt.Errorf("endpoint %s %s not found", method, path)
}
