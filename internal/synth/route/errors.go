package route

import "errors"

var (
	ErrNoRoute = errors.New("no route between airports")
	ErrNoRand  = errors.New("randomized search needs a random source")
)
