package chart

import (
	"fmt"
	"time"

	"github.com/matzehuels/chartkit/pkg/optree"
)

// Function returns raw code for an anonymous JavaScript function,
// function(params){body}.
func Function(params, body string) (optree.Value, error) {
	return optree.WrapRaw("function(" + params + "){" + body + "}")
}

// Date returns raw code that evaluates to the epoch milliseconds of the
// given local date in the browser. month is 1-based as in time.Month.
func Date(year int, month time.Month, day int) optree.Value {
	return optree.MustRaw(fmt.Sprintf("new Date(%d, %d, %d).getTime()", year, int(month)-1, day))
}

// SetFunction assigns function(params){body} at path.
func (c *Chart) SetFunction(path, params, body string) *Chart {
	v, err := Function(params, body)
	if err != nil {
		c.fail(fmt.Errorf("chart %s: set %s: %w", c.id, path, err))
		return c
	}
	return c.Set(path, v)
}
