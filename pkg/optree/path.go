package optree

import (
	"strings"

	errs "github.com/matzehuels/chartkit/pkg/errors"
)

// splitPath splits a dot path into its segments. Paths address map keys only;
// list growth happens through Append, never through an index.
func splitPath(path string) ([]string, error) {
	if err := errs.ValidatePath(path); err != nil {
		return nil, err
	}
	return strings.Split(path, "."), nil
}
