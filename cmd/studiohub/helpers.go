package main

import (
	"fmt"
	"strconv"
	"strings"
)

func parseItemID(arg string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(arg), 10, 64)
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid item id %q", arg)
	}
	return id, nil
}

func parseFloatArg(arg, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(arg), 64)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid %s %q", name, arg)
	}
	return v, nil
}
