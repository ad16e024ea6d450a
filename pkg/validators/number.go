package validators

import (
	"fmt"
	"strconv"
)

// NumberParam parses a numeric query or path value. def is returned when
// v is empty and def isn't nil.
func NumberParam(name, v string, def *int) (int, error) {
	if v == "" && def != nil {
		return *def, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", name)
	}

	return n, nil
}
